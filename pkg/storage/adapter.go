package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/singnet/walletkit-go/pkg/config"
	"go.uber.org/zap"
)

// Adapter is the minimal key -> string persistence contract. GetItem reports
// ok=false for absent keys; RemoveItem on an absent key is not an error.
type Adapter interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// NewAdapter builds the adapter selected by cfg.Driver. cfg is expected to be
// validated (see config.Config.Validate).
func NewAdapter(cfg config.Storage) (Adapter, error) {
	switch cfg.Driver {
	case config.StorageFile, "":
		zap.L().Debug("using file storage", zap.String("path", cfg.Path))
		return NewFileAdapter(cfg.Path), nil
	case config.StorageMemory:
		return NewMemoryAdapter(), nil
	case config.StorageRedis:
		zap.L().Debug("using redis storage", zap.String("addr", cfg.RedisAddr))
		return NewRedisAdapter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// MemoryAdapter keeps items in process memory. Contents are lost on exit.
type MemoryAdapter struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryAdapter returns an empty MemoryAdapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{items: make(map[string]string)}
}

func (m *MemoryAdapter) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryAdapter) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryAdapter) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
