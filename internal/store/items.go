package store

import (
	"context"

	"github.com/abhisek/studymate/internal/domain"
)

// Items persists study items.
type Items struct {
	kv KV
}

func NewItems(kv KV) *Items {
	return &Items{kv: kv}
}

func (r *Items) All(ctx context.Context) ([]domain.Item, error) {
	return getAllAs[domain.Item](ctx, r.kv, CollectionItems)
}

// Get returns the item or an error wrapping domain.ErrNotFound.
func (r *Items) Get(ctx context.Context, id string) (domain.Item, error) {
	return getAs[domain.Item](ctx, r.kv, CollectionItems, id)
}

// Save upserts an item.
func (r *Items) Save(ctx context.Context, item domain.Item) error {
	return putAs(ctx, r.kv, CollectionItems, item.ID, item)
}

// PutMany upserts items in order.
func (r *Items) PutMany(ctx context.Context, items []domain.Item) error {
	for _, it := range items {
		if err := r.Save(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

func (r *Items) Clear(ctx context.Context) error {
	return r.kv.Clear(ctx, CollectionItems)
}
