// Package store keeps the history of test runs.
package store

import (
	"context"

	"github.com/mcncl/casegen/internal/models"
)

// Store persists runs and their per-case results.
type Store interface {
	// SaveRun stores run with a fresh ID and returns that ID.
	SaveRun(ctx context.Context, run models.Run) (string, error)
	// ListRuns returns run headers, newest first, without results.
	ListRuns(ctx context.Context) ([]models.Run, error)
	// GetRun returns a run with its results in case order.
	GetRun(ctx context.Context, id string) (*models.Run, error)
	DeleteRun(ctx context.Context, id string) error

	Close() error
}
