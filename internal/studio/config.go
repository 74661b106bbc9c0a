package studio

import (
	"os"
	"strconv"
	"time"
)

// Config holds the studio's tunables.
type Config struct {
	ContentHistory  int
	AnalysisHistory int
	// ThinkDelay is the pause between analysis stages. Zero disables it.
	ThinkDelay time.Duration
}

// DefaultConfig returns a Config populated from environment variables.
func DefaultConfig() Config {
	return Config{
		ContentHistory:  envInt("CONTENT_HISTORY", 50),
		AnalysisHistory: envInt("ANALYSIS_HISTORY", 10),
		ThinkDelay:      envDuration("THINK_DELAY", 0),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(envOr(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(envOr(key, ""))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
