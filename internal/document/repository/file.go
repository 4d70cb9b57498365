package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bloodsync/bloodsync/internal/document"
	"github.com/bloodsync/bloodsync/pkg/logger"
)

// FileRepo persists the document as indented JSON in a single file.
//
// A missing, empty or undecodable file loads as an empty document.
// Undecodable content is copied to "<path>.corrupt" first so the next Save
// does not destroy the only copy. Any other read failure is returned, so a
// file that exists but cannot be read is never replaced.
//
// Save writes a temp file in the same directory, fsyncs it and renames it
// over the target, so readers see either the old or the new content.
type FileRepo struct {
	path string
}

func NewFileRepo(path string) *FileRepo {
	return &FileRepo{path: path}
}

func (r *FileRepo) Path() string { return r.path }

func (r *FileRepo) Load(ctx context.Context) (*document.Document, error) {
	b, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return document.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return document.New(), nil
	}
	var d document.Document
	if err := json.Unmarshal(b, &d); err != nil {
		logger.Warnf("data file %s is corrupt, starting from an empty document: %v", r.path, err)
		if werr := os.WriteFile(r.corruptPath(), b, 0o600); werr != nil {
			logger.Errorf("could not preserve corrupt data file: %v", werr)
		}
		return document.New(), nil
	}
	d.Normalize()
	return &d, nil
}

func (r *FileRepo) corruptPath() string { return r.path + ".corrupt" }

func (r *FileRepo) Save(ctx context.Context, d *document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		cleanup()
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}
