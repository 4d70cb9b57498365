package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bloodsync/bloodsync/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultSnapshotKey is the _id of the snapshot record.
const DefaultSnapshotKey = "bloodsync"

// MongoRepo stores the whole document as one Mongo record keyed by _id.
// ReplaceOne swaps the record atomically, which gives the same
// all-or-nothing write as the file backend.
type MongoRepo struct {
	col *mongo.Collection
	key string
}

type snapshot struct {
	ID                string    `bson:"_id"`
	document.Document `bson:",inline"`
	UpdatedAt         time.Time `bson:"updatedAt"`
}

func NewMongoRepo(col *mongo.Collection, key string) *MongoRepo {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &MongoRepo{col: col, key: key}
}

// Load returns an empty document when no snapshot exists yet. Driver errors
// are returned: unlike a corrupt file, an unreachable database is not a
// reason to start over.
func (m *MongoRepo) Load(ctx context.Context) (*document.Document, error) {
	var s snapshot
	err := m.col.FindOne(ctx, bson.M{"_id": m.key}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return document.New(), nil
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	d := s.Document
	d.Normalize()
	return &d, nil
}

func (m *MongoRepo) Save(ctx context.Context, d *document.Document) error {
	s := snapshot{ID: m.key, Document: *d, UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)
	if _, err := m.col.ReplaceOne(ctx, bson.M{"_id": m.key}, s, opts); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
