package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/wellmate-ai/wellmate/pkg/common/models"
)

// ErrNotFound is returned when a user has no persisted results yet.
var ErrNotFound = errors.New("no result for user")

// PersistenceError wraps a store write failure. The pipeline still returns
// the computed score when persistence fails; this error travels separately.
type PersistenceError struct {
	reason error
}

func (e PersistenceError) Error() string {
	return fmt.Sprintf("persist result: %v", e.reason)
}

func (e PersistenceError) Unwrap() error {
	return e.reason
}

func IsPersistenceError(err error) bool {
	var pe PersistenceError
	return errors.As(err, &pe)
}

// Store is the keyed append/read boundary for result records. Records are
// immutable once inserted; "latest" is the record with the maximum timestamp
// for a user, ties broken by insertion order.
type Store interface {
	Insert(ctx context.Context, record *models.ResultRecord) error
	LatestFor(ctx context.Context, userID string) (*models.ResultRecord, error)
	RecentFor(ctx context.Context, userID string, limit int) ([]models.ResultRecord, error)
}
