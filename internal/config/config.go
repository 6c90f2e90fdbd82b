// Package config loads server configuration from the environment. A .env
// file in the working directory is read first when present, so local setups
// do not need to export anything.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir   string // CIVICD_DATA_DIR (required; holds the collection documents)
	HTTPAddr  string // CIVICD_HTTP_ADDR (default ":8080")
	NATSURL   string // CIVICD_NATS_URL (optional, empty = no events)
	AuthToken string // CIVICD_AUTH_TOKEN (optional, empty = auth disabled)

	// Sync settings
	SyncInterval   time.Duration // CIVICD_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // CIVICD_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // CIVICD_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // CIVICD_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // CIVICD_SYNC_S3_KEY (default "civicd/backup.jsonl")
	SyncGitRepo    string        // CIVICD_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // CIVICD_SYNC_GIT_FILE (default "civicd.jsonl")
	SyncGitBranch  string        // CIVICD_SYNC_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	// Missing .env is not an error; the environment may be set directly.
	_ = godotenv.Load()

	c := &Config{
		DataDir:        os.Getenv("CIVICD_DATA_DIR"),
		HTTPAddr:       envOrDefault("CIVICD_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("CIVICD_NATS_URL"),
		AuthToken:      os.Getenv("CIVICD_AUTH_TOKEN"),
		SyncS3Bucket:   os.Getenv("CIVICD_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("CIVICD_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("CIVICD_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("CIVICD_SYNC_S3_KEY", "civicd/backup.jsonl"),
		SyncGitRepo:    os.Getenv("CIVICD_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("CIVICD_SYNC_GIT_FILE", "civicd.jsonl"),
		SyncGitBranch:  envOrDefault("CIVICD_SYNC_GIT_BRANCH", "main"),
	}
	if c.DataDir == "" {
		return nil, fmt.Errorf("CIVICD_DATA_DIR is required")
	}

	intervalStr := envOrDefault("CIVICD_SYNC_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("CIVICD_SYNC_INTERVAL: %w", err)
		}
		c.SyncInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
