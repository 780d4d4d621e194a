// Package storage persists per-network application metadata.
//
// Adapters implement a three-method key/value contract (GetItem, SetItem,
// RemoveItem) and are selected by config.Storage.Driver:
//
//   - file (default): a JSON object on disk, rewritten atomically.
//   - memory: process-local map, useful for tests.
//   - redis: go-redis strings with an optional key prefix.
//
// Service layers the network namespace on top of an adapter. Keys take the
// form
//
//	metadata_{networkId}_{key}
//
// where networkId is the chain id of the wallet's active network. Values are
// stored as JSON. Operations that need a key fail with
// model.ErrNoNetworkSelected until the wallet reports a network.
//
// FindContentByKeyAndQuery does a linear, case-insensitive equality scan over a
// stored collection of records. It is intended for small metadata lists such
// as address books or token lists.
package storage
