package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyKey     = errors.New("empty key")
	ErrEntityExists = errors.New("entity already exists")
)

// Storage is a keyed store for one entity type.
type Storage[V any] interface {
	Create(ctx context.Context, key string, value V) error
	Get(ctx context.Context, key string) (V, error)
	Update(ctx context.Context, key string, value V) error
	List(ctx context.Context, offset, limit uint64) ([]V, uint64, error)
	Delete(ctx context.Context, key string) error
}
