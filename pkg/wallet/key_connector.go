package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/singnet/walletkit-go/pkg/blockchain"
	"github.com/singnet/walletkit-go/pkg/model"
	"go.uber.org/zap"
)

// CodeUnsupportedMethod is the EIP-1193 code for methods a provider does not implement.
const CodeUnsupportedMethod = 4200

// DialFunc opens a contract backend on an RPC URL.
type DialFunc func(ctx context.Context, rpcURL string) (bind.ContractBackend, error)

// DialEthClient is the default DialFunc: an ethclient over blockchain.Dial.
func DialEthClient(ctx context.Context, rpcURL string) (bind.ContractBackend, error) {
	evm, err := blockchain.Dial(ctx, rpcURL, nil)
	if err != nil {
		return nil, err
	}
	return evm.Client, nil
}

// KeyOption configures a KeyConnector.
type KeyOption func(*KeyConnector)

// WithDialer replaces the function used to reach chain nodes.
func WithDialer(d DialFunc) KeyOption {
	return func(k *KeyConnector) { k.dial = d }
}

// KeyConnector is a wallet held in process: an ECDSA key plus the chains it
// has been told about. It behaves like an injected browser wallet, including
// the "unrecognized chain" error for chains that were never added.
type KeyConnector struct {
	emitter

	key     *ecdsa.PrivateKey
	address common.Address
	dial    DialFunc

	mu      sync.Mutex
	chains  map[int64]model.Chain
	active  int64
	open    bool
	backend bind.ContractBackend
}

// NewKeyConnector parses privateKey (hex, optional 0x) and makes chains known
// to the wallet. The first chain is active initially.
func NewKeyConnector(privateKey string, chains []model.Chain, opts ...KeyOption) (*KeyConnector, error) {
	if len(chains) == 0 {
		return nil, errors.New("key connector needs at least one chain")
	}
	addr, pk, err := blockchain.ParsePrivateKeyECDSA(privateKey)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	k := &KeyConnector{
		key:     pk,
		address: addr,
		dial:    DialEthClient,
		chains:  make(map[int64]model.Chain, len(chains)),
		active:  chains[0].ID,
	}
	for _, c := range chains {
		k.chains[c.ID] = c
	}
	for _, o := range opts {
		o(k)
	}
	return k, nil
}

// Address returns the account controlled by the key.
func (k *KeyConnector) Address() common.Address { return k.address }

// ActiveChainID returns the chain the wallet is currently on.
func (k *KeyConnector) ActiveChainID() int64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.active
}

// Open connects the wallet and reports the account and its active chain.
func (k *KeyConnector) Open(_ context.Context) error {
	k.mu.Lock()
	k.open = true
	active := k.active
	k.mu.Unlock()

	zap.L().Debug("key wallet connected", zap.String("address", k.address.Hex()))
	k.emit(model.RawEvent{Type: model.RawConnectSuccess, Address: k.address.Hex()})
	k.emit(model.RawEvent{Type: model.RawSwitchNetwork, Network: FormatNetworkID(active)})
	return nil
}

// Close disconnects the wallet.
func (k *KeyConnector) Close(_ context.Context) error {
	k.mu.Lock()
	wasOpen := k.open
	k.open = false
	k.dropBackendLocked()
	k.mu.Unlock()

	if wasOpen {
		k.emit(model.RawEvent{Type: model.RawDisconnectSuccess})
	}
	return nil
}

// Provider returns the wallet while connected, nil otherwise.
func (k *KeyConnector) Provider() Provider {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.open {
		return nil
	}
	return k
}

// Request implements the EIP-1193 methods a key wallet can answer locally.
// Every method fails with CodeUnauthorized while the wallet is closed.
func (k *KeyConnector) Request(_ context.Context, result any, method string, params ...any) error {
	k.mu.Lock()
	open := k.open
	k.mu.Unlock()
	if !open {
		return &RequestError{Code: CodeUnauthorized, Message: "wallet is not connected"}
	}

	switch method {
	case "eth_requestAccounts", "eth_accounts":
		return assignResult(result, []string{k.address.Hex()})

	case "eth_chainId":
		k.mu.Lock()
		c := k.chains[k.active]
		k.mu.Unlock()
		return assignResult(result, c.ChainIDHex())

	case "wallet_switchEthereumChain":
		id, err := switchTarget(params)
		if err != nil {
			return &RequestError{Code: -32602, Message: err.Error()}
		}
		k.mu.Lock()
		if _, ok := k.chains[id]; !ok {
			k.mu.Unlock()
			return &RequestError{
				Code:    CodeUnrecognizedChain,
				Message: fmt.Sprintf("Unrecognized chain ID %q. Try adding the chain using wallet_addEthereumChain first.", FormatNetworkID(id)),
			}
		}
		changed := k.active != id
		k.active = id
		if changed {
			k.dropBackendLocked()
		}
		k.mu.Unlock()
		if changed {
			k.emit(model.RawEvent{Type: model.RawSwitchNetwork, Network: FormatNetworkID(id)})
		}
		return assignResult(result, nil)

	case "wallet_addEthereumChain":
		var p AddChainParams
		if err := decodeParam(params, &p); err != nil {
			return &RequestError{Code: -32602, Message: err.Error()}
		}
		id, err := ParseNetworkID(p.ChainID)
		if err != nil {
			return &RequestError{Code: -32602, Message: err.Error()}
		}
		c := model.Chain{
			ID:   id,
			Name: p.ChainName,
			NativeCurrency: model.NativeCurrency{
				Name:     p.NativeCurrency.Name,
				Symbol:   p.NativeCurrency.Symbol,
				Decimals: p.NativeCurrency.Decimals,
			},
			RPCURLs: p.RPCURLs,
		}
		if len(p.BlockExplorerURLs) > 0 {
			c.ExplorerURL = p.BlockExplorerURLs[0]
		}
		k.mu.Lock()
		k.chains[id] = c
		k.mu.Unlock()
		zap.L().Debug("chain added to key wallet", zap.Int64("chainId", id))
		return assignResult(result, nil)

	default:
		return &RequestError{Code: CodeUnsupportedMethod, Message: fmt.Sprintf("method %s is not supported", method)}
	}
}

// Signer returns a keyed transactor for the active chain, backed by a client
// dialled on the chain's first RPC URL.
func (k *KeyConnector) Signer(ctx context.Context) (*Signer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	c := k.chains[k.active]
	if k.backend == nil {
		url, err := c.PrimaryRPCURL()
		if err != nil {
			return nil, err
		}
		backend, err := k.dial(ctx, url)
		if err != nil {
			return nil, err
		}
		k.backend = backend
	}
	opts, err := blockchain.GetTransactOpts(c.BigChainID(), k.key)
	if err != nil {
		return nil, err
	}
	return &Signer{
		Address: k.address,
		ChainID: c.BigChainID(),
		Backend: k.backend,
		Opts:    opts,
	}, nil
}

func (k *KeyConnector) dropBackendLocked() {
	if c, ok := k.backend.(interface{ Close() }); ok {
		c.Close()
	}
	k.backend = nil
}
