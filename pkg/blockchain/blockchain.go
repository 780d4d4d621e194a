package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// EVMClient holds a JSON-RPC connection to an EVM node together with the
// ethclient view of the same connection.
type EVMClient struct {
	Client   *ethclient.Client
	RPC      *rpc.Client
	Endpoint string
}

// Dial connects to an HTTP, WebSocket or IPC endpoint. Every request carries
// the given HTTP headers (ignored by non-HTTP transports).
func Dial(ctx context.Context, endpoint string, headers map[string]string) (*EVMClient, error) {
	opts := make([]rpc.ClientOption, 0, len(headers))
	for k, v := range headers {
		opts = append(opts, rpc.WithHeader(k, v))
	}
	c, err := rpc.DialOptions(ctx, endpoint, opts...)
	if err != nil {
		zap.L().Error("Failed to dial rpc endpoint", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	return &EVMClient{Client: ethclient.NewClient(c), RPC: c, Endpoint: endpoint}, nil
}

// Close shuts down the underlying connection.
func (evm *EVMClient) Close() {
	if evm != nil && evm.Client != nil {
		evm.Client.Close()
	}
}

// ChainID asks the node which chain it serves.
func (evm *EVMClient) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := evm.Client.ChainID(ctx)
	if err != nil {
		zap.L().Error("failed to get chain ID", zap.Error(err))
		return nil, err
	}
	return id, nil
}

// GetCurrentBlockNumberCtx returns the latest block number.
func (evm *EVMClient) GetCurrentBlockNumberCtx(ctx context.Context) (*big.Int, error) {
	n, err := evm.Client.BlockNumber(ctx)
	if err != nil {
		zap.L().Error("failed to get last block number", zap.Error(err))
		return nil, err
	}
	return new(big.Int).SetUint64(n), nil
}

// ReceiptReader is the subset of a node client needed to await receipts.
type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// ErrReverted is returned by WaitForReceipt for transactions mined with a
// failed status.
var ErrReverted = errors.New("tx reverted")

// WaitForReceipt polls for a transaction receipt with exponential backoff,
// until receipt is available, context is done, or an error occurs. If maxBackoff
// is non-zero, backoff will not exceed it. It returns ErrReverted if the tx is
// reverted; the receipt is returned alongside.
func WaitForReceipt(ctx context.Context, r ReceiptReader, txHash common.Hash, maxBackoff time.Duration) (*types.Receipt, error) {
	backoff := time.Second
	for {
		receipt, err := r.TransactionReceipt(ctx, txHash)
		switch {
		case err == nil:
			if receipt.Status == types.ReceiptStatusFailed {
				return receipt, fmt.Errorf("%w: %s", ErrReverted, txHash)
			}
			return receipt, nil
		case errors.Is(err, ethereum.NotFound):
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			if maxBackoff == 0 || backoff < maxBackoff {
				backoff *= 2
			}
			if maxBackoff > 0 && backoff > maxBackoff {
				backoff = maxBackoff
			}
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			return nil, fmt.Errorf("receipt error: %w", err)
		}
	}
}
