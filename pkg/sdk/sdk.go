package sdk

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/singnet/walletkit-go/pkg/config"
	"github.com/singnet/walletkit-go/pkg/contract"
	"github.com/singnet/walletkit-go/pkg/metrics"
	"github.com/singnet/walletkit-go/pkg/model"
	"github.com/singnet/walletkit-go/pkg/storage"
	"github.com/singnet/walletkit-go/pkg/wallet"
	"go.uber.org/zap"
)

// WalletKit is the application-facing surface. Every method delegates to the
// wallet, contract or storage service.
type WalletKit interface {
	// AvailableNetworks lists selectable networks; testnets only in dev mode.
	AvailableNetworks() []model.NetworkConfiguration
	// SelectNetwork asks the wallet to switch chains. Wait for NETWORK_CHANGED
	// before relying on the new network.
	SelectNetwork(ctx context.Context, chainID int64) error
	// CurrentNetworkID returns the active chain id, if any.
	CurrentNetworkID() (int64, bool)
	// OpenModal starts a wallet session.
	OpenModal(ctx context.Context) error
	// CloseModal ends the wallet session.
	CloseModal(ctx context.Context) error
	// Signer returns a transacting capability for the connected account.
	Signer(ctx context.Context) (*wallet.Signer, error)
	// Subscribe registers a handler for CONNECTED, DISCONNECTED and
	// NETWORK_CHANGED events.
	Subscribe(handler wallet.Handler) wallet.Subscription

	// CacheKey returns the storage key used for key on the active network.
	CacheKey(key string) (string, error)
	// StoreMetadata saves value as JSON under key on the active network.
	StoreMetadata(ctx context.Context, key string, value any) error
	// RetrieveMetadata decodes the value stored under key into out.
	RetrieveMetadata(ctx context.Context, key string, out any) error
	// RemoveMetadata deletes the value stored under key.
	RemoveMetadata(ctx context.Context, key string) error
	// FindContentByKeyAndQuery returns the first record of the collection
	// stored under key with a field equal to query, ignoring case.
	FindContentByKeyAndQuery(ctx context.Context, key, query string) (json.RawMessage, error)

	// SendTransaction signs and submits a contract call.
	SendTransaction(ctx context.Context, ref contract.Ref, method string, opts contract.TxOptions, args ...any) (*types.Transaction, error)
	// ReadCall performs eth_call; static is required for state-changing methods.
	ReadCall(ctx context.Context, ref contract.Ref, method string, static bool, args ...any) ([]any, error)
	// EncodeFunctionData returns ABI-encoded calldata.
	EncodeFunctionData(ref contract.Ref, method string, args ...any) ([]byte, error)
	// WaitMined waits for the receipt of tx.
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)

	// Healthcheck checks the active network's RPC node and API endpoints.
	Healthcheck(ctx context.Context) (*HealthReport, error)

	// Close releases storage connections.
	Close() error
}

var logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

// init configures a default global zap logger for the SDK. Applications may
// replace it with zap.ReplaceGlobals(...) if they need custom logging.
func init() {
	c := zap.Config{
		Level:            logLevel,
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

// Option customizes NewSDK.
type Option func(*options)

type options struct {
	adapter storage.Adapter
	metrics *metrics.Metrics
	dialer  contract.Dialer
}

// WithStorage replaces the adapter selected by config.Storage.
func WithStorage(a storage.Adapter) Option {
	return func(o *options) { o.adapter = a }
}

// WithMetrics registers SDK collectors on m instead of a private registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithContractDialer replaces how read-only node connections are opened.
func WithContractDialer(d contract.Dialer) Option {
	return func(o *options) { o.dialer = d }
}

// Core wires the three services together. It holds no state of its own.
type Core struct {
	cfg       *config.Config
	wallet    *wallet.Service
	contracts *contract.Service
	storage   *storage.Service
	metrics   *metrics.Metrics
}

var _ WalletKit = (*Core)(nil)

// NewSDK validates cfg and builds the services around connector. connector
// may be nil for read-only use; wallet operations then fail with
// model.ErrNoProvider.
func NewSDK(cfg *config.Config, connector wallet.Connector, opts ...Option) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		zap.L().Error("Invalid config", zap.Error(err))
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.Timeouts = cfg.Timeouts.WithDefaults()
	if cfg.Debug {
		logLevel.SetLevel(zap.DebugLevel)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = metrics.New()
	}
	if o.adapter == nil {
		a, err := storage.NewAdapter(cfg.Storage)
		if err != nil {
			return nil, err
		}
		o.adapter = a
	}

	walletSvc := wallet.NewService(cfg, connector, o.metrics)

	var contractOpts []contract.Option
	if o.dialer != nil {
		contractOpts = append(contractOpts, contract.WithDialer(o.dialer))
	}
	contractSvc, err := contract.NewService(cfg, walletSvc, o.metrics, contractOpts...)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("sdk initialized",
		zap.Int("networks", len(cfg.Networks)),
		zap.Strings("abis", contractSvc.Registry().Names()),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("devMode", cfg.DevMode))

	return &Core{
		cfg:       cfg,
		wallet:    walletSvc,
		contracts: contractSvc,
		storage:   storage.NewService(o.adapter, walletSvc, o.metrics),
		metrics:   o.metrics,
	}, nil
}

// Config returns the validated configuration.
func (c *Core) Config() *config.Config { return c.cfg }

// Wallet returns the wallet/network service.
func (c *Core) Wallet() *wallet.Service { return c.wallet }

// Contracts returns the contract service.
func (c *Core) Contracts() *contract.Service { return c.contracts }

// Storage returns the metadata storage service.
func (c *Core) Storage() *storage.Service { return c.storage }

// Metrics returns the collectors; expose Metrics().Handler() to scrape them.
func (c *Core) Metrics() *metrics.Metrics { return c.metrics }

func (c *Core) AvailableNetworks() []model.NetworkConfiguration {
	return c.wallet.AvailableNetworks()
}

func (c *Core) SelectNetwork(ctx context.Context, chainID int64) error {
	return c.wallet.SelectNetwork(ctx, chainID)
}

func (c *Core) CurrentNetworkID() (int64, bool) {
	return c.wallet.CurrentNetworkID()
}

func (c *Core) OpenModal(ctx context.Context) error {
	return c.wallet.OpenModal(ctx)
}

func (c *Core) CloseModal(ctx context.Context) error {
	return c.wallet.CloseModal(ctx)
}

func (c *Core) Signer(ctx context.Context) (*wallet.Signer, error) {
	return c.wallet.Signer(ctx)
}

func (c *Core) Subscribe(handler wallet.Handler) wallet.Subscription {
	return c.wallet.Subscribe(handler)
}

func (c *Core) CacheKey(key string) (string, error) {
	return c.storage.CacheKey(key)
}

func (c *Core) StoreMetadata(ctx context.Context, key string, value any) error {
	return c.storage.StoreMetadata(ctx, key, value)
}

func (c *Core) RetrieveMetadata(ctx context.Context, key string, out any) error {
	return c.storage.RetrieveMetadata(ctx, key, out)
}

func (c *Core) RemoveMetadata(ctx context.Context, key string) error {
	return c.storage.RemoveMetadata(ctx, key)
}

func (c *Core) FindContentByKeyAndQuery(ctx context.Context, key, query string) (json.RawMessage, error) {
	return c.storage.FindContentByKeyAndQuery(ctx, key, query)
}

func (c *Core) SendTransaction(ctx context.Context, ref contract.Ref, method string, opts contract.TxOptions, args ...any) (*types.Transaction, error) {
	return c.contracts.SendTransaction(ctx, ref, method, opts, args...)
}

func (c *Core) ReadCall(ctx context.Context, ref contract.Ref, method string, static bool, args ...any) ([]any, error) {
	return c.contracts.ReadCall(ctx, ref, method, static, args...)
}

func (c *Core) EncodeFunctionData(ref contract.Ref, method string, args ...any) ([]byte, error) {
	return c.contracts.EncodeFunctionData(ref, method, args...)
}

func (c *Core) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return c.contracts.WaitMined(ctx, tx)
}

// Close shuts down the storage backend.
func (c *Core) Close() error {
	return c.storage.Close()
}
