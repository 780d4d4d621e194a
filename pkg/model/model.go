package model

import (
	"fmt"
	"math/big"
	"net"
	"net/url"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// NativeCurrency describes the gas token of a chain.
type NativeCurrency struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals int32  `json:"decimals" yaml:"decimals"`
}

// Chain is the descriptor registered with the wallet for one supported network.
type Chain struct {
	ID             int64          `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	NativeCurrency NativeCurrency `json:"native_currency" yaml:"native_currency"`
	RPCURLs        []string       `json:"rpc_urls" yaml:"rpc_urls"`
	ExplorerURL    string         `json:"explorer_url,omitempty" yaml:"explorer_url,omitempty"`
	Testnet        bool           `json:"testnet,omitempty" yaml:"testnet,omitempty"`
}

// ChainIDHex returns the chain id as a 0x-prefixed quantity, the form used by
// wallet_switchEthereumChain and wallet_addEthereumChain.
func (c Chain) ChainIDHex() string {
	return hexutil.EncodeUint64(uint64(c.ID))
}

// BigChainID returns the chain id as *big.Int for EIP-155 signing.
func (c Chain) BigChainID() *big.Int {
	return big.NewInt(c.ID)
}

// PrimaryRPCURL returns the first configured RPC URL or an error when none is set.
func (c Chain) PrimaryRPCURL() (string, error) {
	if len(c.RPCURLs) == 0 || c.RPCURLs[0] == "" {
		return "", fmt.Errorf("%w: no rpc url configured for chain %d", ErrNotFound, c.ID)
	}
	return c.RPCURLs[0], nil
}

// ContractEntry maps a logical contract name to the ABI it implements and,
// optionally, its deployed address on one network.
type ContractEntry struct {
	// Name is the ABI name in the global ABI mapping; it doubles as display name.
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// HasAddress reports whether the entry carries a usable address.
func (e ContractEntry) HasAddress() bool {
	return e.Address != "" && common.IsHexAddress(e.Address)
}

// NetworkConfiguration is one supported chain together with its contracts and
// free-form metadata. Created from static configuration and never mutated.
type NetworkConfiguration struct {
	Chain     Chain                    `json:"chain" yaml:"chain"`
	Contracts map[string]ContractEntry `json:"contracts,omitempty" yaml:"contracts,omitempty"`
	Metadata  map[string]any           `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// APIEndpoint is a named off-chain API reachable for a network.
type APIEndpoint struct {
	URL  string `json:"url" yaml:"url"`
	Port *int   `json:"port,omitempty" yaml:"port,omitempty"`
}

// Address returns URL with its host port replaced by Port when one is
// configured. Path, query and fragment are kept.
func (a APIEndpoint) Address() string {
	if a.Port == nil {
		return a.URL
	}
	u, err := url.Parse(a.URL)
	if err != nil || u.Host == "" {
		return fmt.Sprintf("%s:%d", a.URL, *a.Port)
	}
	u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(*a.Port))
	return u.String()
}

// APIURLs maps an API name to its endpoint.
type APIURLs map[string]APIEndpoint

// Clone returns an independent copy; nil becomes an empty, non-nil map.
func (u APIURLs) Clone() APIURLs {
	out := make(APIURLs, len(u))
	for k, v := range u {
		if v.Port != nil {
			p := *v.Port
			v.Port = &p
		}
		out[k] = v
	}
	return out
}

// AppMetadata identifies the host application to the wallet.
type AppMetadata struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	URL         string   `json:"url" yaml:"url"`
	Icons       []string `json:"icons,omitempty" yaml:"icons,omitempty"`
}
