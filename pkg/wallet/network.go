package wallet

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/singnet/walletkit-go/pkg/model"
	"go.uber.org/zap"
)

// Network switch outcomes reported to metrics.
const (
	switchOK      = "ok"
	switchAdded   = "added"
	switchFailed  = "error"
	switchRefused = "refused"
)

// SwitchChainParams is the parameter object of wallet_switchEthereumChain.
type SwitchChainParams struct {
	ChainID string `json:"chainId"`
}

// AddChainParams is the EIP-3085 parameter object of wallet_addEthereumChain.
type AddChainParams struct {
	ChainID           string           `json:"chainId"`
	ChainName         string           `json:"chainName"`
	NativeCurrency    AddChainCurrency `json:"nativeCurrency"`
	RPCURLs           []string         `json:"rpcUrls"`
	BlockExplorerURLs []string         `json:"blockExplorerUrls,omitempty"`
	IconURLs          []string         `json:"iconUrls,omitempty"`
}

// AddChainCurrency describes the native currency in AddChainParams.
type AddChainCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

// NewAddChainParams builds wallet_addEthereumChain parameters for c.
func NewAddChainParams(c model.Chain) AddChainParams {
	p := AddChainParams{
		ChainID:   c.ChainIDHex(),
		ChainName: c.Name,
		NativeCurrency: AddChainCurrency{
			Name:     c.NativeCurrency.Name,
			Symbol:   c.NativeCurrency.Symbol,
			Decimals: c.NativeCurrency.Decimals,
		},
		RPCURLs: append([]string(nil), c.RPCURLs...),
	}
	if c.ExplorerURL != "" {
		p.BlockExplorerURLs = []string{c.ExplorerURL}
	}
	return p
}

// SelectNetwork asks the wallet to switch to chainID, registering the chain
// with the wallet first if it does not know it.
//
// Unknown ids fail with model.ErrNotFound and testnets outside developer mode
// with model.ErrPolicy, both before the wallet is contacted. A nil error means
// the wallet accepted the request; the active network changes only when the
// wallet reports it, which is observable as a NETWORK_CHANGED event.
func (s *Service) SelectNetwork(ctx context.Context, chainID int64) error {
	n, ok := s.cfg.Network(chainID)
	if !ok {
		return fmt.Errorf("network %d: %w", chainID, model.ErrNotFound)
	}
	if n.Chain.Testnet && !s.cfg.DevMode {
		s.metrics.NetworkSwitch(switchRefused)
		return fmt.Errorf("testnet %d outside developer mode: %w", chainID, model.ErrPolicy)
	}
	p := s.Provider()
	if p == nil {
		return model.ErrNoProvider
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeouts.WalletRequest)
	defer cancel()

	err := switchChain(ctx, p, chainID)
	if err == nil {
		s.metrics.NetworkSwitch(switchOK)
		return nil
	}
	if !IsUnrecognizedChain(err) {
		s.metrics.NetworkSwitch(switchFailed)
		return fmt.Errorf("switch to chain %d: %w", chainID, err)
	}

	zap.L().Info("wallet does not know chain, adding it", zap.Int64("chainId", chainID))
	if err := p.Request(ctx, nil, "wallet_addEthereumChain", NewAddChainParams(n.Chain)); err != nil {
		s.metrics.NetworkSwitch(switchFailed)
		return fmt.Errorf("add chain %d: %w", chainID, err)
	}
	if err := switchChain(ctx, p, chainID); err != nil {
		s.metrics.NetworkSwitch(switchFailed)
		return fmt.Errorf("switch to chain %d after adding it: %w", chainID, err)
	}
	s.metrics.NetworkSwitch(switchAdded)
	return nil
}

func switchChain(ctx context.Context, p Provider, chainID int64) error {
	return p.Request(ctx, nil, "wallet_switchEthereumChain",
		SwitchChainParams{ChainID: hexutil.EncodeUint64(uint64(chainID))})
}

func (s *Service) walletContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeouts.WalletRequest)
}
