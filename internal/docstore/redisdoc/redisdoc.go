// Package redisdoc implements the remote document store on Redis. Each
// document is a plain string value under "<prefix>:<collection>:<key>".
package redisdoc

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// DefaultPrefix namespaces keys when no prefix is configured.
const DefaultPrefix = "kanbaru"

// Store is a types.Remote backed by a Redis client.
type Store struct {
	client *redis.Client
	prefix string
}

// New wraps an existing client.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Open connects to the server described by a redis:// or rediss:// URL and
// checks that it answers.
func Open(ctx context.Context, url, prefix string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return New(client, prefix), nil
}

// Put creates or replaces the document under collection/key.
func (s *Store) Put(ctx context.Context, collection, key string, doc []byte) error {
	if err := s.client.Set(ctx, s.key(collection, key), doc, 0).Err(); err != nil {
		return fmt.Errorf("setting %s/%s: %w", collection, key, err)
	}
	return nil
}

// Get returns the document under collection/key.
func (s *Store) Get(ctx context.Context, collection, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(collection, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, types.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w", collection, key, err)
	}
	return data, nil
}

// Delete removes the document under collection/key.
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	if err := s.client.Del(ctx, s.key(collection, key)).Err(); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, key, err)
	}
	return nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(collection, key string) string {
	return s.prefix + ":" + collection + ":" + key
}
