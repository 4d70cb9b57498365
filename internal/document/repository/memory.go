package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/bloodsync/bloodsync/internal/document"
)

// MemoryRepo keeps the document in process memory. It stores the encoded
// form so every Load hands out an independent copy, the same as the file
// backend. Used by tests and by STORAGE_BACKEND=memory.
type MemoryRepo struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) Load(ctx context.Context) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.data) == 0 {
		return document.New(), nil
	}
	var d document.Document
	if err := json.Unmarshal(m.data, &d); err != nil {
		return nil, err
	}
	d.Normalize()
	return &d, nil
}

func (m *MemoryRepo) Save(ctx context.Context, d *document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = b
	m.mu.Unlock()
	return nil
}
