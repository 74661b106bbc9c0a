package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/apresai/podstudio/internal/analysis"
	"github.com/apresai/podstudio/internal/compose"
	"github.com/apresai/podstudio/internal/observability"
	"github.com/apresai/podstudio/internal/store"
)

var (
	flagPublishBucket string
	flagPublishCDNURL string
	flagPublishRegion string
)

var publishCmd = &cobra.Command{
	Use:   "publish <json-file>...",
	Short: "Publish saved content or analysis reports to the CDN",
	Long:  "Upload JSON files written by 'compose --save' or 'analyze --save' to S3 and print their public URLs.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringVar(&flagPublishBucket, "bucket", "", "S3 bucket (default $S3_BUCKET)")
	publishCmd.Flags().StringVar(&flagPublishCDNURL, "cdn-url", "", "Public base URL of the bucket (default $CDN_BASE_URL or "+defaultCDNURL+")")
	publishCmd.Flags().StringVar(&flagPublishRegion, "region", "", "AWS region (default $AWS_REGION or "+defaultRegion+")")
}

const (
	defaultCDNURL = "https://studio.apresai.dev"
	defaultRegion = "us-east-1"
)

// resolvePublishFlags fills unset flags from the environment. It runs after
// Execute has loaded .env, which flag defaults computed in init cannot see.
func resolvePublishFlags() {
	if flagPublishBucket == "" {
		flagPublishBucket = os.Getenv("S3_BUCKET")
	}
	if flagPublishCDNURL == "" {
		flagPublishCDNURL = envOr("CDN_BASE_URL", defaultCDNURL)
	}
	if flagPublishRegion == "" {
		flagPublishRegion = envOr("AWS_REGION", defaultRegion)
	}
}

// publisher is the part of store.Storage the command needs.
type publisher interface {
	PublishContent(ctx context.Context, c compose.GeneratedContent) (key, url string, err error)
	PublishReport(ctx context.Context, r analysis.Report) (key, url string, err error)
}

func runPublish(cmd *cobra.Command, args []string) error {
	resolvePublishFlags()
	if flagPublishBucket == "" {
		return fmt.Errorf("--bucket is required (or set S3_BUCKET)")
	}

	awsCfg, err := observability.LoadAWSConfig(cmd.Context(), awsconfig.WithRegion(flagPublishRegion))
	if err != nil {
		return err
	}
	storage := store.NewStorage(s3.NewFromConfig(awsCfg), flagPublishBucket, flagPublishCDNURL)

	urls, err := publishAll(cmd.Context(), storage, args)
	if err != nil {
		return err
	}
	fmt.Println()
	for i, path := range args {
		fmt.Printf("Published %s: %s\n", path, urls[i])
	}
	return nil
}

// maxParallelUploads bounds concurrent uploads in publishAll.
const maxParallelUploads = 4

// publishAll uploads every file concurrently and returns the URLs in argument
// order. The first failure cancels the remaining uploads.
func publishAll(ctx context.Context, pub publisher, paths []string) ([]string, error) {
	urls := make([]string, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)
	for i, path := range paths {
		g.Go(func() error {
			url, err := publishFile(gctx, pub, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// publishFile uploads a saved record, telling content and reports apart by
// their fields.
func publishFile(ctx context.Context, pub publisher, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot access file: %w", err)
	}

	var head struct {
		Kind    string          `json:"kind"`
		Metrics json.RawMessage `json:"metrics"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}

	var put func() (string, string, error)
	switch {
	case head.Kind != "":
		var c compose.GeneratedContent
		if err := json.Unmarshal(data, &c); err != nil {
			return "", fmt.Errorf("parse content: %w", err)
		}
		if err := c.Validate(); err != nil {
			return "", fmt.Errorf("refusing to publish invalid content: %w", err)
		}
		put = func() (string, string, error) { return pub.PublishContent(ctx, c) }
	case len(head.Metrics) > 0:
		r, err := loadReport(path)
		if err != nil {
			return "", err
		}
		put = func() (string, string, error) { return pub.PublishReport(ctx, *r) }
	default:
		return "", fmt.Errorf("%s is neither generated content nor an analysis report", path)
	}

	var url string
	err = publishRetry(ctx, func() error {
		var perr error
		_, url, perr = put()
		return perr
	})
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	return url, nil
}

var publishBackoffs = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// publishRetry calls fn until it succeeds, waiting publishBackoffs between
// attempts. A cancelled ctx stops the waiting.
func publishRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= len(publishBackoffs); attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == len(publishBackoffs) {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
		case <-time.After(publishBackoffs[attempt]):
		}
	}
	return lastErr
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
