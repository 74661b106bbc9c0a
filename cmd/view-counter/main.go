package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/apresai/podstudio/internal/observability"
	"github.com/apresai/podstudio/internal/store"
)

func main() {
	logger := observability.InitLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tableName := os.Getenv("DYNAMODB_TABLE")
	logBucket := os.Getenv("LOG_BUCKET")
	logPrefix := os.Getenv("LOG_PREFIX")
	if tableName == "" || logBucket == "" {
		logger.Error("DYNAMODB_TABLE and LOG_BUCKET environment variables are required")
		os.Exit(1)
	}
	if logPrefix == "" {
		logPrefix = "cf-logs/"
	}

	cfg, err := observability.LoadAWSConfig(ctx)
	if err != nil {
		logger.Error("Failed to load aws config", "error", err)
		os.Exit(1)
	}

	counter := store.NewViewCounter(s3.NewFromConfig(cfg), dynamodb.NewFromConfig(cfg), tableName, logger)
	if _, err := counter.Run(ctx, logBucket, logPrefix); err != nil {
		logger.Error("View count failed", "error", err)
		os.Exit(1)
	}
}
