package contract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/singnet/walletkit-go/pkg/config"
	"github.com/singnet/walletkit-go/pkg/model"
)

// Registry holds parsed ABIs by name.
type Registry struct {
	abis map[string]*abi.ABI
}

// NewRegistry parses every definition. The first invalid ABI fails the whole
// registry.
func NewRegistry(defs map[string]config.ABIDefinition) (*Registry, error) {
	r := &Registry{abis: make(map[string]*abi.ABI, len(defs))}
	for name, def := range defs {
		parsed, err := abi.JSON(strings.NewReader(string(def)))
		if err != nil {
			return nil, fmt.Errorf("parse abi %q: %w", name, err)
		}
		r.abis[name] = &parsed
	}
	return r, nil
}

// Get returns the ABI registered under name.
func (r *Registry) Get(name string) (*abi.ABI, error) {
	a, ok := r.abis[name]
	if !ok {
		return nil, fmt.Errorf("abi %q: %w", name, model.ErrNotFound)
	}
	return a, nil
}

// Names lists registered ABI names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.abis))
	for n := range r.abis {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
