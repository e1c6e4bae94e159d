// Package store defines the item storage used by the dev backend.
package store

import (
	"context"
	"errors"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrNotFound is returned when no item has the requested id.
var ErrNotFound = errors.New("item not found")

// Store persists items and assigns their ids.
type Store interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, it model.Item) (model.Item, error)
	Get(ctx context.Context, id int64) (model.Item, error)
	Update(ctx context.Context, id int64, it model.Item) (model.Item, error)
	Delete(ctx context.Context, id int64) error
	Close() error
}
