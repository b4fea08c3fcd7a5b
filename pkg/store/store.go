// Package store provides persistent archival of feasibility checks.
//
// This package defines an interface for check storage with implementations
// for different backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for production deployments
//
// # Architecture
//
// Each completed check is archived as a Record carrying the input bundle,
// the verdict, and a generated identifier. Records are immutable: the
// store supports Save/Get/List but no updates.
//
// # Usage
//
// Create a store and archive a check:
//
//	st, err := store.OpenMongo(ctx, "mongodb://localhost:27017", "phylotime")
//	if err != nil {
//	    return err
//	}
//	defer st.Close(ctx)
//
//	rec := store.NewRecord(input, result)
//	if err := st.Save(ctx, rec); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cophylo/phylotime/pkg/graph"
)

// Record is one archived feasibility check.
type Record struct {
	ID        string       `json:"id" bson:"_id"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	Input     graph.Input  `json:"input" bson:"input"`
	Result    graph.Result `json:"result" bson:"result"`
}

// NewRecord wraps a check in a Record with a fresh identifier.
func NewRecord(in graph.Input, res graph.Result) *Record {
	return &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Input:     in,
		Result:    res,
	}
}

// Store is the interface for check archive backends.
type Store interface {
	// Save archives a record.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID.
	// Returns an error with code CHECK_NOT_FOUND if no record exists.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	// A limit of 0 applies the backend's default.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Close releases the backend's resources.
	Close(ctx context.Context) error
}

// DefaultListLimit caps List when the caller passes 0.
const DefaultListLimit = 50
