package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bloodsync/bloodsync/internal/apperr"
	"github.com/bloodsync/bloodsync/internal/document"
	"github.com/bloodsync/bloodsync/internal/models"
	"github.com/stretchr/testify/require"
)

type failingRepo struct {
	loadErr error
	saveErr error
	saves   int
}

func (f *failingRepo) Load(ctx context.Context) (*document.Document, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return document.New(), nil
}

func (f *failingRepo) Save(ctx context.Context, d *document.Document) error {
	f.saves++
	return f.saveErr
}

type recordingBackup struct {
	mu      sync.Mutex
	count   int
	last    *document.Document
	savedAt time.Time
	err     error
}

func (r *recordingBackup) BackupDocument(ctx context.Context, d *document.Document, savedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	r.last = d
	r.savedAt = savedAt
	return r.err
}

// slowSink keeps whatever upload finished last, like latest.json in a
// bucket. Single-donor snapshots take longer to upload.
type slowSink struct {
	mu        sync.Mutex
	latest    *document.Document
	active    int32
	maxActive int32
}

func (s *slowSink) BackupDocument(ctx context.Context, d *document.Document, savedAt time.Time) error {
	n := atomic.AddInt32(&s.active, 1)
	defer atomic.AddInt32(&s.active, -1)
	for {
		m := atomic.LoadInt32(&s.maxActive)
		if n <= m || atomic.CompareAndSwapInt32(&s.maxActive, m, n) {
			break
		}
	}
	if len(d.Donors) == 1 {
		time.Sleep(50 * time.Millisecond)
	}
	s.mu.Lock()
	s.latest = d
	s.mu.Unlock()
	return nil
}

func TestUpdatePersistsAndViewSeesChanges(t *testing.T) {
	svc := NewMemoryService()
	ctx := context.Background()

	err := svc.Update(ctx, func(d *document.Document) error {
		d.Donors = append(d.Donors, models.Donor{ID: "donor-1", Phone: "9876543210"})
		return nil
	})
	require.NoError(t, err)

	var n int
	require.NoError(t, svc.View(ctx, func(d *document.Document) error {
		n = len(d.Donors)
		return nil
	}))
	require.Equal(t, 1, n)
}

func TestUpdateAbortsWhenCallbackFails(t *testing.T) {
	repo := &failingRepo{}
	svc := New(repo)
	want := apperr.Conflict(apperr.CodeDuplicate, "dup")

	err := svc.Update(context.Background(), func(d *document.Document) error { return want })
	require.ErrorIs(t, err, want)
	require.Equal(t, 0, repo.saves)
}

func TestUpdateSurfacesSaveFailureAsInternal(t *testing.T) {
	svc := New(&failingRepo{saveErr: errors.New("disk full")})
	err := svc.Update(context.Background(), func(d *document.Document) error { return nil })
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.KindInternal))
}

func TestUpdateDoesNotOverwriteUnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.Mkdir(path, 0o755))
	svc := NewFileService(path)

	called := false
	err := svc.Update(context.Background(), func(d *document.Document) error {
		called = true
		return nil
	})
	require.True(t, apperr.Is(err, apperr.KindInternal))
	require.False(t, called)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestViewSurfacesLoadFailureAsInternal(t *testing.T) {
	svc := New(&failingRepo{loadErr: errors.New("connection refused")})
	_, err := svc.Snapshot(context.Background())
	require.True(t, apperr.Is(err, apperr.KindInternal))
}

// Concurrent check-then-insert cycles must not interleave.
func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	svc := NewFileService(filepath.Join(t.TempDir(), "data.json"))
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := svc.Update(ctx, func(d *document.Document) error {
				if d.DonorByPhone("9876543210") != nil {
					return apperr.Conflict(apperr.CodeDuplicate, "exists")
				}
				d.Donors = append(d.Donors, models.Donor{ID: fmt.Sprintf("donor-%d", i), Phone: "9876543210"})
				return nil
			})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, created)
	d, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, d.Donors, 1)
}

func TestBackupRunsAfterSuccessfulSave(t *testing.T) {
	svc := NewMemoryService()
	b := &recordingBackup{}
	svc.SetBackup(b)
	ctx := context.Background()

	require.NoError(t, svc.Update(ctx, func(d *document.Document) error {
		d.Hospitals = append(d.Hospitals, models.Hospital{ID: "hosp-1"})
		return nil
	}))
	_ = svc.Update(ctx, func(d *document.Document) error { return errors.New("rejected") })
	svc.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	require.Equal(t, 1, b.count)
	require.Len(t, b.last.Hospitals, 1)
}

func TestBackupCarriesSaveTime(t *testing.T) {
	svc := NewMemoryService()
	b := &recordingBackup{}
	svc.SetBackup(b)

	before := time.Now().UTC()
	require.NoError(t, svc.Update(context.Background(), func(d *document.Document) error { return nil }))
	after := time.Now().UTC()
	svc.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	require.False(t, b.savedAt.Before(before))
	require.False(t, b.savedAt.After(after))
}

// A slow upload of an older snapshot must not end up as the latest backup.
func TestBackupsUploadInSaveOrder(t *testing.T) {
	svc := NewMemoryService()
	sink := &slowSink{}
	svc.SetBackup(sink)
	ctx := context.Background()

	for _, id := range []string{"donor-1", "donor-2"} {
		require.NoError(t, svc.Update(ctx, func(d *document.Document) error {
			d.Donors = append(d.Donors, models.Donor{ID: id})
			return nil
		}))
	}
	svc.Wait()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.latest.Donors, 2)
	require.Equal(t, int32(1), atomic.LoadInt32(&sink.maxActive))
}

func TestBackupFailureDoesNotFailUpdate(t *testing.T) {
	svc := NewMemoryService()
	svc.SetBackup(&recordingBackup{err: errors.New("bucket gone")})
	err := svc.Update(context.Background(), func(d *document.Document) error { return nil })
	svc.Wait()
	require.NoError(t, err)
}

func TestReplaceOverwritesDocument(t *testing.T) {
	svc := NewMemoryService()
	ctx := context.Background()
	require.NoError(t, svc.Update(ctx, func(d *document.Document) error {
		d.Donors = append(d.Donors, models.Donor{ID: "donor-1"})
		return nil
	}))

	next := &document.Document{BloodBanks: []models.BloodBank{{ID: "bb-1"}}}
	require.NoError(t, svc.Replace(ctx, next))

	d, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Empty(t, d.Donors)
	require.Len(t, d.BloodBanks, 1)
}
