package storage

import (
	"testing"
	"time"

	"github.com/bloodsync/bloodsync/internal/config"
	"github.com/stretchr/testify/require"
)

func TestSnapshotKeyIsSortableUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	k := SnapshotKey(time.Date(2026, 10, 15, 12, 0, 0, 250_000_000, ist))
	require.Equal(t, "snapshots/bloodsync-20261015T063000.250Z.json", k)
}

func TestNewMinIOStorageRequiresEndpoint(t *testing.T) {
	_, err := NewMinIOStorage(&MinIOConfig{})
	require.Error(t, err)
	_, err = NewMinIOStorage(nil)
	require.Error(t, err)
}

func TestMinIOConfigFromDefaultsBucket(t *testing.T) {
	c := MinIOConfigFrom(config.BackupConfig{Endpoint: "minio:9000", UseSSL: true})
	require.Equal(t, "bloodsync-backups", c.Bucket)
	require.Equal(t, "minio:9000", c.Endpoint)
	require.True(t, c.UseSSL)
}
