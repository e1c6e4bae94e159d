package tui

import (
	"context"
	"encoding/json"

	"github.com/Makepad-fr/tada/internal/model"
)

// ItemService is what the views need from the item API.
// *itemapi.Client satisfies it.
type ItemService interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, item model.Item) (json.RawMessage, error)
	Get(ctx context.Context, id int64) (model.Item, error)
	Update(ctx context.Context, id int64, item model.Item) (json.RawMessage, error)
	Delete(ctx context.Context, id int64) error
}
