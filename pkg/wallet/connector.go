package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/singnet/walletkit-go/pkg/model"
)

// Connector is the wallet-connection layer: it manages the wallet session and
// reports lifecycle changes as raw events.
type Connector interface {
	// Subscribe registers a handler for raw events. Handlers are called in
	// registration order, possibly from a connector-owned goroutine.
	Subscribe(handler func(model.RawEvent))
	// Provider returns the EIP-1193 provider of the connected wallet, or nil
	// when no wallet is attached.
	Provider() Provider
	// Open starts a session (the "modal" of browser wallets).
	Open(ctx context.Context) error
	// Close ends the session.
	Close(ctx context.Context) error
}

// Provider is an EIP-1193 request interface bound to a connected wallet.
type Provider interface {
	// Request sends a JSON-RPC request and decodes the result into result
	// (which may be nil to discard it).
	Request(ctx context.Context, result any, method string, params ...any) error
	// Signer returns a transacting capability for the connected account.
	Signer(ctx context.Context) (*Signer, error)
}

// Signer is bound to the connected account on the wallet's current chain.
type Signer struct {
	Address common.Address
	ChainID *big.Int
	// Backend talks to a node of the wallet's current chain.
	Backend bind.ContractBackend
	// Opts signs with the wallet. It is shared; copy before modifying.
	Opts *bind.TransactOpts
}

// EIP-1193 provider error codes.
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnrecognizedChain = 4902
)

// RequestError is a provider error carrying an EIP-1193 code. It satisfies
// rpc.Error so both locally raised and remote errors are classified the same way.
type RequestError struct {
	Code    int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("wallet error %d: %s", e.Code, e.Message)
}

func (e *RequestError) ErrorCode() int { return e.Code }

var _ rpc.Error = (*RequestError)(nil)

// IsUnrecognizedChain reports whether err is the wallet telling that it does
// not know the requested chain. Some wallets wrap code 4902 in a generic
// internal error, so the message is checked as well.
func IsUnrecognizedChain(err error) bool {
	if err == nil {
		return false
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == CodeUnrecognizedChain {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unrecognized chain")
}

// emitter fans raw events out to connector subscribers.
type emitter struct {
	mu       sync.RWMutex
	handlers []func(model.RawEvent)
}

func (e *emitter) Subscribe(handler func(model.RawEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

func (e *emitter) emit(ev model.RawEvent) {
	e.mu.RLock()
	hs := make([]func(model.RawEvent), len(e.handlers))
	copy(hs, e.handlers)
	e.mu.RUnlock()
	for _, h := range hs {
		h(ev)
	}
}
