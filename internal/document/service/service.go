package service

import (
	"context"
	"sync"
	"time"

	"github.com/bloodsync/bloodsync/internal/apperr"
	"github.com/bloodsync/bloodsync/internal/document"
	"github.com/bloodsync/bloodsync/internal/document/repository"
	"github.com/bloodsync/bloodsync/pkg/logger"
	"github.com/bloodsync/bloodsync/pkg/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository loads and saves the whole document.
type Repository interface {
	Load(ctx context.Context) (*document.Document, error)
	Save(ctx context.Context, d *document.Document) error
}

// Backup receives saved snapshots together with the time they were saved.
type Backup interface {
	BackupDocument(ctx context.Context, d *document.Document, savedAt time.Time) error
}

type pendingBackup struct {
	doc     *document.Document
	savedAt time.Time
}

const defaultBackupTimeout = 30 * time.Second

// Service is the single owner of the data document inside the process.
// Update holds the write lock across load → mutate → save, so two requests
// cannot both pass a uniqueness check against the same stale snapshot.
// Separate processes sharing one data file are still not coordinated.
type Service struct {
	mu     sync.RWMutex
	repo   Repository
	backup Backup

	backupTimeout time.Duration
	backups       sync.WaitGroup

	// pending holds the newest snapshot not yet handed to the backup sink.
	// One worker drains it at a time, so uploads happen in save order and a
	// snapshot superseded while waiting is skipped.
	backupMu sync.Mutex
	pending  *pendingBackup
	draining bool
}

var _ document.Store = (*Service)(nil)

func New(repo Repository) *Service {
	return &Service{repo: repo, backupTimeout: defaultBackupTimeout}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() *Service {
	return New(repository.NewMemoryRepo())
}

// NewFileService returns a Service backed by a JSON file.
func NewFileService(path string) *Service {
	return New(repository.NewFileRepo(path))
}

// NewMongoService returns a Service backed by a MongoDB collection.
// Caller is responsible for creating the collection (and client) and passing it in.
func NewMongoService(col *mongo.Collection) *Service {
	return New(repository.NewMongoRepo(col, ""))
}

// SetBackup enables snapshot uploads after each successful save.
func (s *Service) SetBackup(b Backup) {
	s.mu.Lock()
	s.backup = b
	s.mu.Unlock()
}

// View loads a fresh snapshot and passes it to fn. Changes made by fn are discarded.
func (s *Service) View(ctx context.Context, fn func(*document.Document) error) error {
	s.mu.RLock()
	d, err := s.repo.Load(ctx)
	s.mu.RUnlock()
	if err != nil {
		return apperr.Internal("load document", err)
	}
	return fn(d)
}

// Snapshot returns a fresh copy of the document.
func (s *Service) Snapshot(ctx context.Context) (*document.Document, error) {
	var out *document.Document
	err := s.View(ctx, func(d *document.Document) error {
		out = d
		return nil
	})
	return out, err
}

// Update runs fn against a fresh snapshot under the write lock and persists
// the result when fn returns nil. An error from fn aborts without writing.
func (s *Service) Update(ctx context.Context, fn func(*document.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.repo.Load(ctx)
	if err != nil {
		return apperr.Internal("load document", err)
	}
	if err := fn(d); err != nil {
		return err
	}

	start := time.Now()
	if err := s.repo.Save(ctx, d); err != nil {
		metrics.DocumentSaves.WithLabelValues("error").Inc()
		return apperr.Internal("save document", err)
	}
	metrics.DocumentSaveSeconds.Observe(time.Since(start).Seconds())
	metrics.DocumentSaves.WithLabelValues("ok").Inc()

	if s.backup != nil {
		s.queueBackup(d, time.Now().UTC())
	}
	return nil
}

// Replace overwrites the stored document wholesale (used by the maintenance CLI).
func (s *Service) Replace(ctx context.Context, d *document.Document) error {
	return s.Update(ctx, func(cur *document.Document) error {
		d.Normalize()
		*cur = *d
		return nil
	})
}

func (s *Service) queueBackup(d *document.Document, savedAt time.Time) {
	s.backupMu.Lock()
	defer s.backupMu.Unlock()
	s.pending = &pendingBackup{doc: d, savedAt: savedAt}
	if s.draining {
		return
	}
	s.draining = true
	s.backups.Add(1)
	go s.drainBackups(s.backup)
}

func (s *Service) drainBackups(b Backup) {
	defer s.backups.Done()
	for {
		s.backupMu.Lock()
		job := s.pending
		s.pending = nil
		if job == nil {
			s.draining = false
			s.backupMu.Unlock()
			return
		}
		s.backupMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.backupTimeout)
		err := b.BackupDocument(ctx, job.doc, job.savedAt)
		cancel()
		if err != nil {
			metrics.DocumentBackups.WithLabelValues("error").Inc()
			logger.Warnf("snapshot backup failed: %v", err)
			continue
		}
		metrics.DocumentBackups.WithLabelValues("ok").Inc()
	}
}

// Wait blocks until queued backups finish.
func (s *Service) Wait() {
	s.backups.Wait()
}
