package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/singnet/walletkit-go/pkg/config"
	"github.com/singnet/walletkit-go/pkg/metrics"
	"github.com/singnet/walletkit-go/pkg/model"
	"go.uber.org/zap"
)

// Handler receives canonical events. A returned error is logged and does not
// affect delivery to other handlers.
type Handler func(event model.Event) error

// Subscription identifies a registered handler.
type Subscription struct {
	ID uuid.UUID
}

type subscriber struct {
	id      uuid.UUID
	handler Handler
}

// Service tracks the wallet session and the active network. It is the only
// writer of the current network id; storage keys and contract resolution read
// it through CurrentNetworkID.
type Service struct {
	cfg       *config.Config
	connector Connector
	metrics   *metrics.Metrics
	timeouts  config.Timeouts

	mu          sync.RWMutex
	networkID   int64
	hasNetwork  bool
	account     common.Address
	hasAccount  bool
	subscribers []subscriber
}

// NewService subscribes to the connector's raw events. cfg must be validated.
// connector may be nil, in which case every wallet operation fails with
// model.ErrNoProvider.
func NewService(cfg *config.Config, connector Connector, m *metrics.Metrics) *Service {
	s := &Service{
		cfg:       cfg,
		connector: connector,
		metrics:   m,
		timeouts:  cfg.Timeouts.WithDefaults(),
	}
	if connector != nil {
		connector.Subscribe(s.handleRawEvent)
	}
	return s
}

// AvailableNetworks returns the configured networks in configuration order.
// Testnets are included only in developer mode.
func (s *Service) AvailableNetworks() []model.NetworkConfiguration {
	out := make([]model.NetworkConfiguration, 0, len(s.cfg.Networks))
	for _, n := range s.cfg.Networks {
		if n.Chain.Testnet && !s.cfg.DevMode {
			continue
		}
		out = append(out, n)
	}
	return out
}

// CurrentNetworkID returns the chain id of the last network reported by the
// wallet. ok is false until the first network change.
func (s *Service) CurrentNetworkID() (id int64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.networkID, s.hasNetwork
}

// Account returns the address carried by the last CONNECTED event. ok is
// false before the first connection and after a disconnect.
func (s *Service) Account() (addr common.Address, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account, s.hasAccount
}

// CurrentNetwork returns the configuration of the active network.
func (s *Service) CurrentNetwork() (model.NetworkConfiguration, error) {
	id, ok := s.CurrentNetworkID()
	if !ok {
		return model.NetworkConfiguration{}, model.ErrNoNetworkSelected
	}
	n, ok := s.cfg.Network(id)
	if !ok {
		return model.NetworkConfiguration{}, fmt.Errorf("network %d: %w", id, model.ErrNotFound)
	}
	return n, nil
}

// APIURLs returns a copy of the API endpoints configured for chainID; an empty
// mapping when there are none.
func (s *Service) APIURLs(chainID int64) model.APIURLs {
	return s.cfg.APIURLs[chainID].Clone()
}

// Provider returns the connected wallet's provider or nil.
func (s *Service) Provider() Provider {
	if s.connector == nil {
		return nil
	}
	return s.connector.Provider()
}

// Signer returns a signer for the connected account.
func (s *Service) Signer(ctx context.Context) (*Signer, error) {
	p := s.Provider()
	if p == nil {
		return nil, model.ErrNoProvider
	}
	signer, err := p.Signer(ctx)
	if err != nil {
		return nil, fmt.Errorf("get signer: %w", err)
	}
	return signer, nil
}

// OpenModal asks the connector to start a wallet session.
func (s *Service) OpenModal(ctx context.Context) error {
	if s.connector == nil {
		return model.ErrNoProvider
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.WalletRequest)
	defer cancel()
	if err := s.connector.Open(ctx); err != nil {
		return fmt.Errorf("open wallet session: %w", err)
	}
	return nil
}

// CloseModal asks the connector to end the wallet session.
func (s *Service) CloseModal(ctx context.Context) error {
	if s.connector == nil {
		return model.ErrNoProvider
	}
	if err := s.connector.Close(ctx); err != nil {
		return fmt.Errorf("close wallet session: %w", err)
	}
	return nil
}

// Subscribe registers handler for canonical events. Handlers are called
// synchronously in registration order. There is no unsubscribe.
func (s *Service) Subscribe(handler Handler) Subscription {
	sub := subscriber{id: uuid.New(), handler: handler}
	s.mu.Lock()
	s.subscribers = append(s.subscribers, sub)
	s.mu.Unlock()
	zap.L().Debug("subscriber registered", zap.String("subscription", sub.id.String()))
	return Subscription{ID: sub.id}
}
