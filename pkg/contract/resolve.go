package contract

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/singnet/walletkit-go/pkg/model"
)

// Ref identifies a contract either by its configured name on the active
// network or by a raw address plus the name of its ABI.
type Ref struct {
	Name    string
	Address string
	ABIName string
}

// Named refers to a contract configured on the active network.
func Named(name string) Ref { return Ref{Name: name} }

// At refers to the contract deployed at address, implementing abiName.
func At(address, abiName string) Ref { return Ref{Address: address, ABIName: abiName} }

func (r Ref) String() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ABIName + "@" + r.Address
}

// Resolved is a contract reference bound to an address and ABI on a network.
type Resolved struct {
	Address common.Address
	ABIName string
	ABI     *abi.ABI
	Network model.NetworkConfiguration
}

// Resolve binds ref to the active network.
func (s *Service) Resolve(ref Ref) (Resolved, error) {
	network, err := s.wallet.CurrentNetwork()
	if err != nil {
		return Resolved{}, fmt.Errorf("resolve %s: %w", ref, err)
	}

	var (
		address common.Address
		abiName string
	)
	switch {
	case ref.Name != "":
		if len(network.Contracts) == 0 {
			return Resolved{}, fmt.Errorf("network %d has no contracts: %w", network.Chain.ID, model.ErrNotFound)
		}
		entry, ok := network.Contracts[ref.Name]
		if !ok {
			return Resolved{}, fmt.Errorf("contract %q on network %d: %w", ref.Name, network.Chain.ID, model.ErrNotFound)
		}
		if !entry.HasAddress() {
			return Resolved{}, fmt.Errorf("contract %q has no address on network %d: %w", ref.Name, network.Chain.ID, model.ErrNotFound)
		}
		address = common.HexToAddress(entry.Address)
		abiName = entry.Name
	case ref.Address != "":
		if !common.IsHexAddress(ref.Address) {
			return Resolved{}, fmt.Errorf("invalid contract address %q", ref.Address)
		}
		if ref.ABIName == "" {
			return Resolved{}, errors.New("abi name is required with a raw address")
		}
		address = common.HexToAddress(ref.Address)
		abiName = ref.ABIName
	default:
		return Resolved{}, errors.New("empty contract reference")
	}

	parsed, err := s.registry.Get(abiName)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Address: address, ABIName: abiName, ABI: parsed, Network: network}, nil
}

func (r Resolved) method(name string) (abi.Method, error) {
	m, ok := r.ABI.Methods[name]
	if !ok {
		return abi.Method{}, fmt.Errorf("method %q in abi %q: %w", name, r.ABIName, model.ErrNotFound)
	}
	return m, nil
}
