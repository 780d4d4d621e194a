// Package config defines the runtime configuration for the library: supported
// networks with their contracts, the global ABI mapping, per-network API URLs,
// application metadata, the wallet project id, developer mode, storage backend
// and operation timeouts. It also provides validation, defaulting and loading
// helpers.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/singnet/walletkit-go/pkg/model"
)

// Storage drivers understood by the SDK constructor.
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config holds all settings required to build the wallet, contract and storage services.
// Use Validate to fill implicit defaults and to check for required fields.
type Config struct {
	// ProjectID identifies the application to the wallet connection layer.
	ProjectID string `json:"project_id" yaml:"project_id" env:"WALLETKIT_PROJECT_ID"`
	// DevMode makes testnets visible and selectable.
	DevMode bool `json:"dev_mode" yaml:"dev_mode" env:"WALLETKIT_DEV_MODE"`
	// Debug enables verbose logging.
	Debug bool `json:"debug" yaml:"debug" env:"WALLETKIT_DEBUG"`
	// App is shown by wallets when a session is requested.
	App model.AppMetadata `json:"app" yaml:"app"`
	// Networks lists every supported chain, in display order.
	Networks []model.NetworkConfiguration `json:"networks" yaml:"networks"`
	// ABIs maps an ABI name to its JSON definition.
	ABIs map[string]ABIDefinition `json:"abis" yaml:"abis"`
	// APIURLs maps a chain id to the off-chain APIs available on it.
	APIURLs map[int64]model.APIURLs `json:"api_urls" yaml:"api_urls"`
	// Storage selects the metadata storage backend.
	Storage Storage `json:"storage" yaml:"storage"`
	// Timeouts configures per-operation timeouts. See Timeouts.WithDefaults for defaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
}

// Storage configures the key/value backend behind the storage service.
type Storage struct {
	// Driver is one of "file" (default), "memory" or "redis".
	Driver string `json:"driver" yaml:"driver" env:"WALLETKIT_STORAGE_DRIVER"`
	// Path is the JSON file used by the file driver.
	Path string `json:"path" yaml:"path" env:"WALLETKIT_STORAGE_PATH"`
	// RedisAddr is host:port of the redis server for the redis driver.
	RedisAddr     string `json:"redis_addr" yaml:"redis_addr" env:"WALLETKIT_REDIS_ADDR"`
	RedisPassword string `json:"redis_password" yaml:"redis_password" env:"WALLETKIT_REDIS_PASSWORD"`
	RedisDB       int    `json:"redis_db" yaml:"redis_db" env:"WALLETKIT_REDIS_DB"`
	// RedisPrefix is prepended to every key written to redis.
	RedisPrefix string `json:"redis_prefix" yaml:"redis_prefix" env:"WALLETKIT_REDIS_PREFIX"`
}

// Timeouts controls operation deadlines.
// Zero values will be replaced by sane defaults in WithDefaults.
type Timeouts struct {
	WalletRequest time.Duration `json:"wallet_request" yaml:"wallet_request"` // switch/add chain, accounts
	ChainRead     time.Duration `json:"chain_read" yaml:"chain_read"`         // eth_call
	ChainSubmit   time.Duration `json:"chain_submit" yaml:"chain_submit"`     // estimate + send tx
	ReceiptWait   time.Duration `json:"receipt_wait" yaml:"receipt_wait"`     // wait tx
}

// Validate normalizes the configuration by applying implicit defaults for the
// storage backend and chain names and verifies the network list: at least one
// network, positive and unique chain ids, well-formed contract addresses.
func (c *Config) Validate() error {
	if len(c.Networks) == 0 {
		return errors.New("at least one network is required")
	}

	seen := make(map[int64]struct{}, len(c.Networks))
	for i := range c.Networks {
		n := &c.Networks[i]
		if n.Chain.ID <= 0 {
			return fmt.Errorf("network %d: chain id must be positive", i)
		}
		if _, dup := seen[n.Chain.ID]; dup {
			return fmt.Errorf("network %d: duplicate chain id %d", i, n.Chain.ID)
		}
		seen[n.Chain.ID] = struct{}{}

		if n.Chain.Name == "" {
			n.Chain.Name = fmt.Sprintf("chain-%d", n.Chain.ID)
		}
		if n.Chain.NativeCurrency.Decimals == 0 {
			n.Chain.NativeCurrency.Decimals = 18
		}
		for name, entry := range n.Contracts {
			if entry.Name == "" {
				return fmt.Errorf("network %d: contract %q has no abi name", n.Chain.ID, name)
			}
			if entry.Address != "" && !common.IsHexAddress(entry.Address) {
				return fmt.Errorf("network %d: contract %q has invalid address %q", n.Chain.ID, name, entry.Address)
			}
		}
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageFile
	}
	switch c.Storage.Driver {
	case StorageFile:
		if c.Storage.Path == "" {
			c.Storage.Path = defaultStoragePath()
		}
	case StorageMemory:
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("redis address is required for the redis storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	return nil
}

// Network returns the configuration for chainID.
func (c *Config) Network(chainID int64) (model.NetworkConfiguration, bool) {
	for _, n := range c.Networks {
		if n.Chain.ID == chainID {
			return n, true
		}
	}
	return model.NetworkConfiguration{}, false
}

// Chains returns the chain descriptors of every configured network.
func (c *Config) Chains() []model.Chain {
	out := make([]model.Chain, 0, len(c.Networks))
	for _, n := range c.Networks {
		out = append(out, n.Chain)
	}
	return out
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	WalletRequest: 60s
//	ChainRead:     12s
//	ChainSubmit:   25s
//	ReceiptWait:   90s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.WalletRequest == 0 {
		tt.WalletRequest = 60 * time.Second
	}
	if tt.ChainRead == 0 {
		tt.ChainRead = 12 * time.Second
	}
	if tt.ChainSubmit == 0 {
		tt.ChainSubmit = 25 * time.Second
	}
	if tt.ReceiptWait == 0 {
		tt.ReceiptWait = 90 * time.Second
	}
	return tt
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".walletkit", "storage.json")
	}
	return filepath.Join(dir, "walletkit", "storage.json")
}
