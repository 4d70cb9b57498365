package repository

import (
	"context"
	"testing"

	"github.com/bloodsync/bloodsync/internal/models"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepoLoadSave(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	d, err := r.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, d.Donors)
	require.NotNil(t, d.Drives)

	d.Donors = append(d.Donors, models.Donor{ID: "donor-1", Phone: "9876543210"})
	require.NoError(t, r.Save(ctx, d))

	got, err := r.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Donors, 1)
	require.Equal(t, "9876543210", got.Donors[0].Phone)

	// loads are independent copies
	got.Donors[0].Phone = "0000000000"
	again, err := r.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "9876543210", again.Donors[0].Phone)
}

func TestMemoryRepoSaveHonoursCancelledContext(t *testing.T) {
	r := NewMemoryRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d, err := r.Load(context.Background())
	require.NoError(t, err)
	require.Error(t, r.Save(ctx, d))
}
