// Package fakechain provides an in-memory contract backend for tests. It
// answers eth_call from a callback, returns a fixed gas estimate and records
// every submitted transaction with a successful receipt.
package fakechain

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
)

// Backend implements bind.ContractBackend and a receipt reader.
type Backend struct {
	// CallResult answers CallContract. Nil returns empty output.
	CallResult func(msg ethereum.CallMsg) ([]byte, error)
	// Gas is returned by EstimateGas unless EstimateErr is set.
	Gas         uint64
	EstimateErr error
	GasPrice    *big.Int

	mu       sync.Mutex
	calls    []ethereum.CallMsg
	estimate []ethereum.CallMsg
	sent     []*types.Transaction
	receipts map[common.Hash]*types.Receipt
	nonce    uint64
	closed   bool
}

// New returns a backend with a 1 gwei gas price and a 21000 gas estimate.
func New() *Backend {
	return &Backend{
		Gas:      21000,
		GasPrice: big.NewInt(1_000_000_000),
		receipts: make(map[common.Hash]*types.Receipt),
	}
}

func (b *Backend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60, 0x80}, nil
}

func (b *Backend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.mu.Lock()
	b.calls = append(b.calls, msg)
	fn := b.CallResult
	b.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(msg)
}

func (b *Backend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1)}, nil
}

func (b *Backend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return b.CodeAt(ctx, account, nil)
}

func (b *Backend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nonce, nil
}

func (b *Backend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return new(big.Int).Set(b.GasPrice), nil
}

func (b *Backend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (b *Backend) EstimateGas(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.estimate = append(b.estimate, msg)
	if b.EstimateErr != nil {
		return 0, b.EstimateErr
	}
	return b.Gas, nil
}

func (b *Backend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, tx)
	b.nonce++
	b.receipts[tx.Hash()] = &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      tx.Hash(),
		GasUsed:     tx.Gas(),
		BlockNumber: big.NewInt(int64(len(b.sent))),
	}
	return nil
}

func (b *Backend) FilterLogs(context.Context, ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (b *Backend) SubscribeFilterLogs(context.Context, ethereum.FilterQuery, chan<- types.Log) (ethereum.Subscription, error) {
	return event.NewSubscription(func(quit <-chan struct{}) error {
		<-quit
		return nil
	}), nil
}

func (b *Backend) TransactionReceipt(_ context.Context, h common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.receipts[h]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

// SetReceipt overrides the receipt stored for h.
func (b *Backend) SetReceipt(h common.Hash, r *types.Receipt) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.receipts[h] = r
}

// Close marks the backend closed. Calls keep working.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// Closed reports whether Close was called.
func (b *Backend) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Calls returns the eth_call messages seen so far.
func (b *Backend) Calls() []ethereum.CallMsg {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]ethereum.CallMsg(nil), b.calls...)
}

// Estimates returns the gas estimation requests seen so far.
func (b *Backend) Estimates() []ethereum.CallMsg {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]ethereum.CallMsg(nil), b.estimate...)
}

// Sent returns the submitted transactions.
func (b *Backend) Sent() []*types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*types.Transaction(nil), b.sent...)
}

// ErrExecutionReverted mimics the node error for a reverting call.
var ErrExecutionReverted = errors.New("execution reverted")
