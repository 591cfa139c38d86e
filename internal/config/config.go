package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	TelegramToken string // CANCELBOT_TELEGRAM_TOKEN (required)
	DatabaseURL   string // CANCELBOT_DATABASE_URL (required)
	NATSURL       string // CANCELBOT_NATS_URL (optional, empty = no events)
	TextsFile     string // CANCELBOT_TEXTS_FILE (optional TOML overrides for reply texts)

	// Session settings
	SessionTTL time.Duration // CANCELBOT_SESSION_TTL (default 30m)

	// Backup settings
	BackupInterval   time.Duration // CANCELBOT_BACKUP_INTERVAL (default 0 = disabled)
	BackupS3Bucket   string        // CANCELBOT_BACKUP_S3_BUCKET (enables S3 when set)
	BackupS3Endpoint string        // CANCELBOT_BACKUP_S3_ENDPOINT (custom endpoint for MinIO)
	BackupS3Region   string        // CANCELBOT_BACKUP_S3_REGION (default "us-east-1")
	BackupS3Key      string        // CANCELBOT_BACKUP_S3_KEY (default "cancelbot/ledger.jsonl")
	BackupFile       string        // CANCELBOT_BACKUP_FILE (enables local file when set)
}

func Load() (*Config, error) {
	c := &Config{
		TelegramToken:    os.Getenv("CANCELBOT_TELEGRAM_TOKEN"),
		DatabaseURL:      os.Getenv("CANCELBOT_DATABASE_URL"),
		NATSURL:          os.Getenv("CANCELBOT_NATS_URL"),
		TextsFile:        os.Getenv("CANCELBOT_TEXTS_FILE"),
		BackupS3Bucket:   os.Getenv("CANCELBOT_BACKUP_S3_BUCKET"),
		BackupS3Endpoint: os.Getenv("CANCELBOT_BACKUP_S3_ENDPOINT"),
		BackupS3Region:   envOrDefault("CANCELBOT_BACKUP_S3_REGION", "us-east-1"),
		BackupS3Key:      envOrDefault("CANCELBOT_BACKUP_S3_KEY", "cancelbot/ledger.jsonl"),
		BackupFile:       os.Getenv("CANCELBOT_BACKUP_FILE"),
	}
	if c.TelegramToken == "" {
		return nil, fmt.Errorf("CANCELBOT_TELEGRAM_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("CANCELBOT_DATABASE_URL is required")
	}

	ttlStr := envOrDefault("CANCELBOT_SESSION_TTL", "30m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("CANCELBOT_SESSION_TTL: %w", err)
	}
	c.SessionTTL = ttl

	intervalStr := envOrDefault("CANCELBOT_BACKUP_INTERVAL", "0s")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("CANCELBOT_BACKUP_INTERVAL: %w", err)
	}
	c.BackupInterval = d

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
