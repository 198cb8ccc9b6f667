package store

import (
	"context"
	"encoding/json"
	"fmt"
)

func getAllAs[T any](ctx context.Context, kv KV, collection string) ([]T, error) {
	recs, err := kv.GetAll(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		var v T
		if err := json.Unmarshal(rec.Data, &v); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, rec.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func getAs[T any](ctx context.Context, kv KV, collection, id string) (T, error) {
	var v T
	rec, err := kv.Get(ctx, collection, id)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(rec.Data, &v); err != nil {
		return v, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return v, nil
}

func putAs(ctx context.Context, kv KV, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	return kv.Put(ctx, collection, Record{ID: id, Data: data})
}
