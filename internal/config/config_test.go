package config

import (
	"testing"
	"time"
)

// syncEnvVars lists all sync-related env vars that must be cleared between tests.
var syncEnvVars = []string{
	"CIVICD_SYNC_INTERVAL", "CIVICD_SYNC_S3_BUCKET", "CIVICD_SYNC_S3_ENDPOINT",
	"CIVICD_SYNC_S3_REGION", "CIVICD_SYNC_S3_KEY", "CIVICD_SYNC_GIT_REPO",
	"CIVICD_SYNC_GIT_FILE", "CIVICD_SYNC_GIT_BRANCH",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CIVICD_DATA_DIR", "CIVICD_HTTP_ADDR", "CIVICD_NATS_URL", "CIVICD_AUTH_TOKEN"} {
		t.Setenv(key, "")
	}
	for _, key := range syncEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantHTTPAddr string
		wantNATSURL  string
	}{
		{
			name:    "MissingDataDir",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:         "DefaultAddress",
			env:          map[string]string{"CIVICD_DATA_DIR": "/var/lib/civicd"},
			wantHTTPAddr: ":8080",
		},
		{
			name: "CustomAddress",
			env: map[string]string{
				"CIVICD_DATA_DIR":  "/srv/civicd/data",
				"CIVICD_HTTP_ADDR": ":3000",
				"CIVICD_NATS_URL":  "nats://localhost:4222",
			},
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DataDir != tc.env["CIVICD_DATA_DIR"] {
				t.Errorf("DataDir = %q, want %q", cfg.DataDir, tc.env["CIVICD_DATA_DIR"])
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoadSyncDefaults(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("CIVICD_DATA_DIR", "/var/lib/civicd")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SyncInterval != 3*time.Minute {
		t.Errorf("SyncInterval = %v, want 3m", cfg.SyncInterval)
	}
	if cfg.SyncS3Region != "us-east-1" {
		t.Errorf("SyncS3Region = %q, want %q", cfg.SyncS3Region, "us-east-1")
	}
	if cfg.SyncS3Key != "civicd/backup.jsonl" {
		t.Errorf("SyncS3Key = %q, want %q", cfg.SyncS3Key, "civicd/backup.jsonl")
	}
	if cfg.SyncGitFile != "civicd.jsonl" {
		t.Errorf("SyncGitFile = %q, want %q", cfg.SyncGitFile, "civicd.jsonl")
	}
	if cfg.SyncGitBranch != "main" {
		t.Errorf("SyncGitBranch = %q, want %q", cfg.SyncGitBranch, "main")
	}
}

func TestLoadSyncCustom(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("CIVICD_DATA_DIR", "/var/lib/civicd")
	t.Setenv("CIVICD_SYNC_INTERVAL", "10m")
	t.Setenv("CIVICD_SYNC_S3_BUCKET", "my-bucket")
	t.Setenv("CIVICD_SYNC_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("CIVICD_SYNC_S3_REGION", "eu-west-1")
	t.Setenv("CIVICD_SYNC_S3_KEY", "custom/key.jsonl")
	t.Setenv("CIVICD_SYNC_GIT_REPO", "/tmp/repo")
	t.Setenv("CIVICD_SYNC_GIT_FILE", "custom.jsonl")
	t.Setenv("CIVICD_SYNC_GIT_BRANCH", "backup")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SyncInterval != 10*time.Minute {
		t.Errorf("SyncInterval = %v, want 10m", cfg.SyncInterval)
	}
	if cfg.SyncS3Bucket != "my-bucket" {
		t.Errorf("SyncS3Bucket = %q", cfg.SyncS3Bucket)
	}
	if cfg.SyncS3Endpoint != "http://minio:9000" {
		t.Errorf("SyncS3Endpoint = %q", cfg.SyncS3Endpoint)
	}
	if cfg.SyncS3Region != "eu-west-1" {
		t.Errorf("SyncS3Region = %q", cfg.SyncS3Region)
	}
	if cfg.SyncS3Key != "custom/key.jsonl" {
		t.Errorf("SyncS3Key = %q", cfg.SyncS3Key)
	}
	if cfg.SyncGitRepo != "/tmp/repo" {
		t.Errorf("SyncGitRepo = %q", cfg.SyncGitRepo)
	}
	if cfg.SyncGitFile != "custom.jsonl" {
		t.Errorf("SyncGitFile = %q", cfg.SyncGitFile)
	}
	if cfg.SyncGitBranch != "backup" {
		t.Errorf("SyncGitBranch = %q", cfg.SyncGitBranch)
	}
}

func TestLoadSyncInvalidInterval(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("CIVICD_DATA_DIR", "/var/lib/civicd")
	t.Setenv("CIVICD_SYNC_INTERVAL", "not-a-duration")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid CIVICD_SYNC_INTERVAL")
	}
}

func TestLoadSyncDisabled(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("CIVICD_DATA_DIR", "/var/lib/civicd")
	t.Setenv("CIVICD_SYNC_INTERVAL", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SyncInterval != 0 {
		t.Errorf("SyncInterval = %v, want 0 (disabled)", cfg.SyncInterval)
	}
}

func TestEnvOrDefault(t *testing.T) {
	for _, tc := range []struct {
		name     string
		key      string
		envVal   string
		fallback string
		want     string
	}{
		{"EmptyUsesDefault", "TEST_ENVDEFAULT_EMPTY", "", "default-val", "default-val"},
		{"SetUsesEnv", "TEST_ENVDEFAULT_SET", "custom", "default-val", "custom"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envVal)
			got := envOrDefault(tc.key, tc.fallback)
			if got != tc.want {
				t.Errorf("envOrDefault(%q, %q) = %q, want %q", tc.key, tc.fallback, got, tc.want)
			}
		})
	}
}
