package storage

import (
	"context"
	"sort"
	"sync"
)

type inMemoryStorage[V any] struct {
	sync.Mutex

	data map[string]V
}

func NewInMemory[V any]() Storage[V] {
	return &inMemoryStorage[V]{
		data: make(map[string]V),
	}
}

func (s *inMemoryStorage[V]) Create(_ context.Context, key string, value V) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.Lock()
	defer s.Unlock()

	if _, ok := s.data[key]; ok {
		return ErrEntityExists
	}

	s.data[key] = value

	return nil
}

func (s *inMemoryStorage[V]) Get(_ context.Context, key string) (V, error) {
	var zero V
	if key == "" {
		return zero, ErrEmptyKey
	}

	s.Lock()
	defer s.Unlock()

	if val, ok := s.data[key]; ok {
		return val, nil
	}

	return zero, ErrNotFound
}

func (s *inMemoryStorage[V]) Update(_ context.Context, key string, value V) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.Lock()
	defer s.Unlock()

	if _, ok := s.data[key]; !ok {
		return ErrNotFound
	}

	s.data[key] = value

	return nil
}

func (s *inMemoryStorage[V]) List(_ context.Context, offset, limit uint64) (result []V, total uint64, err error) {
	s.Lock()
	defer s.Unlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	// Stable order keeps pagination consistent across calls.
	sort.Strings(keys)

	total = uint64(len(keys))
	if offset >= total {
		return nil, total, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	result = make([]V, end-offset)
	for i := offset; i < end; i++ {
		result[i-offset] = s.data[keys[i]]
	}

	return result, total, nil
}

func (s *inMemoryStorage[V]) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.Lock()
	defer s.Unlock()

	delete(s.data, key)

	return nil
}
