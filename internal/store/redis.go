package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/studymate/internal/domain"
)

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Redis is a KV backed by Redis. Each collection is a hash of id to JSON
// plus a sorted set that remembers first-insertion order.
type Redis struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "studymate"
	}
	return &Redis{client: client, prefix: prefix}, nil
}

func (r *Redis) dataKey(collection string) string  { return r.prefix + ":" + collection }
func (r *Redis) orderKey(collection string) string { return r.prefix + ":" + collection + ":order" }
func (r *Redis) seqKey() string                    { return r.prefix + ":seq" }

func (r *Redis) GetAll(ctx context.Context, collection string) ([]Record, error) {
	ids, err := r.client.ZRange(ctx, r.orderKey(collection), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	vals, err := r.client.HMGet(ctx, r.dataKey(collection), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}

	out := make([]Record, 0, len(ids))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		out = append(out, Record{ID: ids[i], Data: []byte(s)})
	}
	return out, nil
}

func (r *Redis) Get(ctx context.Context, collection, id string) (Record, error) {
	data, err := r.client.HGet(ctx, r.dataKey(collection), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return Record{ID: id, Data: data}, nil
}

func (r *Redis) Put(ctx context.Context, collection string, rec Record) error {
	seq, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, r.dataKey(collection), rec.ID, rec.Data)
		p.ZAddNX(ctx, r.orderKey(collection), redis.Z{Score: float64(seq), Member: rec.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, rec.ID, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, collection, id string) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HDel(ctx, r.dataKey(collection), id)
		p.ZRem(ctx, r.orderKey(collection), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context, collection string) error {
	if err := r.client.Del(ctx, r.dataKey(collection), r.orderKey(collection)).Err(); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
