package storage

import "github.com/bloodsync/bloodsync/internal/config"

// MinIOConfig holds MinIO connection configuration
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// MinIOConfigFrom maps the backup section of the service configuration.
func MinIOConfigFrom(b config.BackupConfig) *MinIOConfig {
	bucket := b.Bucket
	if bucket == "" {
		bucket = "bloodsync-backups"
	}
	return &MinIOConfig{
		Endpoint:  b.Endpoint,
		AccessKey: b.AccessKey,
		SecretKey: b.SecretKey,
		UseSSL:    b.UseSSL,
		Bucket:    bucket,
	}
}
