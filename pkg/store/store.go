// Package store persists computed layouts so they can be fetched and
// re-rendered by ID.
//
// The API server stores every layout it computes and returns the ID to the
// client. [MongoStore] is the production backend; [MemoryStore] serves tests
// and single-process use.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/flowbox/pkg/layoutfile"
)

// Record is a stored layout.
type Record struct {
	ID        string            `json:"id" bson:"_id"`
	SceneHash string            `json:"scene_hash" bson:"scene_hash"`
	Layout    layoutfile.Layout `json:"layout" bson:"layout"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
}

// Store persists layouts.
type Store interface {
	// Save stores l under a new ID and returns the record.
	Save(ctx context.Context, sceneHash string, l layoutfile.Layout) (Record, error)
	// Get returns the record with the given ID. A missing ID yields an
	// error with code LAYOUT_NOT_FOUND.
	Get(ctx context.Context, id string) (Record, error)
	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)
	// Delete removes a record. A missing ID yields LAYOUT_NOT_FOUND.
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// DefaultListLimit applies when List is called with a non-positive limit.
const DefaultListLimit = 50

func newRecord(sceneHash string, l layoutfile.Layout, now time.Time) Record {
	id := uuid.NewString()
	l.ID = id
	return Record{
		ID:        id,
		SceneHash: sceneHash,
		Layout:    l,
		CreatedAt: now.UTC().Truncate(time.Millisecond),
	}
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
