package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/singnet/walletkit-go/pkg/metrics"
	"github.com/singnet/walletkit-go/pkg/model"
	"go.uber.org/zap"
)

// NetworkSource reports the network id currently active in the wallet session.
type NetworkSource interface {
	CurrentNetworkID() (int64, bool)
}

// Service stores JSON metadata under keys namespaced by the active network,
// so that the same logical key holds independent values per chain.
type Service struct {
	adapter Adapter
	network NetworkSource
	metrics *metrics.Metrics
}

// NewService wires an adapter to the network id source. m may be nil.
func NewService(adapter Adapter, network NetworkSource, m *metrics.Metrics) *Service {
	return &Service{adapter: adapter, network: network, metrics: m}
}

// Adapter returns the underlying persistence adapter.
func (s *Service) Adapter() Adapter { return s.adapter }

// CacheKey derives the namespaced key "metadata_{networkId}_{key}".
func (s *Service) CacheKey(key string) (string, error) {
	id, ok := s.network.CurrentNetworkID()
	if !ok {
		return "", fmt.Errorf("derive key for %q: %w", key, model.ErrNoNetworkSelected)
	}
	return fmt.Sprintf("metadata_%d_%s", id, key), nil
}

// StoreMetadata JSON-encodes value and saves it under the namespaced key,
// replacing any previous value.
func (s *Service) StoreMetadata(ctx context.Context, key string, value any) (err error) {
	defer func() { s.metrics.RecordStorageOp("store", err) }()

	cacheKey, err := s.CacheKey(key)
	if err != nil {
		return err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode metadata %q: %w", key, err)
	}
	if err = s.adapter.SetItem(ctx, cacheKey, string(b)); err != nil {
		return fmt.Errorf("store metadata %q: %w", key, err)
	}
	zap.L().Debug("metadata stored", zap.String("key", cacheKey))
	return nil
}

// RetrieveRaw returns the stored JSON text for key. Absent keys yield
// model.ErrNotFound.
func (s *Service) RetrieveRaw(ctx context.Context, key string) (raw json.RawMessage, err error) {
	defer func() { s.metrics.RecordStorageOp("retrieve", err) }()

	cacheKey, err := s.CacheKey(key)
	if err != nil {
		return nil, err
	}
	v, ok, err := s.adapter.GetItem(ctx, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("retrieve metadata %q: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("metadata %q: %w", cacheKey, model.ErrNotFound)
	}
	return json.RawMessage(v), nil
}

// RetrieveMetadata decodes the value stored under key into out.
func (s *Service) RetrieveMetadata(ctx context.Context, key string, out any) error {
	raw, err := s.RetrieveRaw(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode metadata %q: %w", key, err)
	}
	return nil
}

// RemoveMetadata deletes the value stored under key. Removing an absent key
// succeeds.
func (s *Service) RemoveMetadata(ctx context.Context, key string) (err error) {
	defer func() { s.metrics.RecordStorageOp("remove", err) }()

	cacheKey, err := s.CacheKey(key)
	if err != nil {
		return err
	}
	if err = s.adapter.RemoveItem(ctx, cacheKey); err != nil {
		return fmt.Errorf("remove metadata %q: %w", key, err)
	}
	return nil
}

// Close releases the adapter when it holds resources.
func (s *Service) Close() error {
	if c, ok := s.adapter.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
