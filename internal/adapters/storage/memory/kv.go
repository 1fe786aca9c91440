package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"lost-pets/internal/ports/kv"
)

type kvStore struct {
	mu    sync.RWMutex
	slots map[string][]byte

	// quota en bytes sumando claves y valores; 0 = sin límite.
	quota int
}

type Option func(*kvStore)

// WithQuota limita el tamaño total como lo hace el local storage del navegador.
func WithQuota(bytes int) Option {
	return func(s *kvStore) {
		if bytes > 0 {
			s.quota = bytes
		}
	}
}

func NewKV(opts ...Option) kv.Store {
	s := &kvStore{
		slots: make(map[string][]byte),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("kv key required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.slots[key]
	if !ok {
		return nil, false, nil
	}
	// copia para que el caller no mute el estado interno
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("kv key required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quota > 0 {
		used := len(key) + len(value)
		for k, v := range s.slots {
			if k == key {
				continue
			}
			used += len(k) + len(v)
		}
		if used > s.quota {
			return fmt.Errorf("%w: need %d bytes, quota %d", kv.ErrQuotaExceeded, used, s.quota)
		}
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	s.slots[key] = stored
	return nil
}
