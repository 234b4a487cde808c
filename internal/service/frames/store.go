package frames

import (
	"context"
	"errors"
	"fmt"
	"time"

	drepo "PulseBoard/internal/domain/repository"
	"PulseBoard/pkg/cache"
)

const keyPrefix = "frame"

// Store implements repository.FrameStore on top of a byte cache.
type Store struct {
	cache cache.Service
}

func NewStore(c cache.Service) *Store {
	return &Store{cache: c}
}

func (s *Store) Set(ctx context.Context, name string, png []byte, ttl time.Duration) error {
	if err := s.cache.Set(ctx, cache.GenerateKey(keyPrefix, name), png, ttl); err != nil {
		return fmt.Errorf("store frame %s: %w", name, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	b, err := s.cache.Get(ctx, cache.GenerateKey(keyPrefix, name))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, fmt.Errorf("%w: %s", drepo.ErrFrameNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load frame %s: %w", name, err)
	}
	return b, nil
}

// Close releases the underlying cache.
func (s *Store) Close() error {
	return s.cache.Close()
}
