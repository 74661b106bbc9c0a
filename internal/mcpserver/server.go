package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mark3labs/mcp-go/server"

	"github.com/apresai/podstudio/internal/observability"
	"github.com/apresai/podstudio/internal/store"
	"github.com/apresai/podstudio/internal/studio"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Config holds server configuration.
type Config struct {
	Port       int
	TableName  string // empty keeps records in memory
	S3Bucket   string // empty disables publishing
	CDNBaseURL string
	AWSRegion  string
	Studio     studio.Config
}

// DefaultConfig returns a Config populated from environment variables.
func DefaultConfig() Config {
	port, err := strconv.Atoi(envOr("PORT", "8000"))
	if err != nil || port <= 0 {
		port = 8000
	}
	return Config{
		Port:       port,
		TableName:  envOr("DYNAMODB_TABLE", ""),
		S3Bucket:   envOr("S3_BUCKET", ""),
		CDNBaseURL: envOr("CDN_BASE_URL", "https://studio.apresai.dev"),
		AWSRegion:  envOr("AWS_REGION", "us-east-1"),
		Studio:     studio.DefaultConfig(),
	}
}

// Server is the MCP server for content generation.
type Server struct {
	cfg      Config
	mcp      *server.MCPServer
	handlers *Handlers
	log      *slog.Logger
}

// New creates and configures the MCP server. AWS clients are only created
// when a table or bucket is configured.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Server, error) {
	opts := []studio.Option{studio.WithLogger(logger)}
	var storage Publisher

	if cfg.TableName != "" || cfg.S3Bucket != "" {
		awsCfg, err := observability.LoadAWSConfig(ctx,
			awsconfig.WithRegion(cfg.AWSRegion),
		)
		if err != nil {
			return nil, err
		}
		if cfg.TableName != "" {
			opts = append(opts, studio.WithStore(store.NewDynamo(dynamodb.NewFromConfig(awsCfg), cfg.TableName)))
			logger.Info("Using DynamoDB store", "table", cfg.TableName)
		}
		if cfg.S3Bucket != "" {
			storage = store.NewStorage(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.CDNBaseURL)
			logger.Info("Publishing enabled", "bucket", cfg.S3Bucket, "cdn", cfg.CDNBaseURL)
		}
	}
	if cfg.TableName == "" {
		opts = append(opts, studio.WithStore(store.NewMemory()))
	}

	st, err := studio.New(cfg.Studio, opts...)
	if err != nil {
		return nil, err
	}
	handlers := NewHandlers(st, storage, logger)

	mcpServer := server.NewMCPServer(
		"podstudio",
		Version,
		server.WithToolCapabilities(true),
	)
	handlers.Register(mcpServer)

	return &Server{
		cfg:      cfg,
		mcp:      mcpServer,
		handlers: handlers,
		log:      logger,
	}, nil
}

// Start runs the HTTP MCP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.log.Info("Starting MCP server", "addr", addr)

	httpServer := server.NewStreamableHTTPServer(s.mcp,
		server.WithStateLess(true),
	)
	return httpServer.Start(addr)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
