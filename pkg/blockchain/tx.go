package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// GetTransactOpts creates a transactor bound to the given chainID and ECDSA key.
// The returned TransactOpts can be used to send transactions to the blockchain.
func GetTransactOpts(chainID *big.Int, pk *ecdsa.PrivateKey) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(pk, chainID)
	if err != nil {
		zap.L().Error("failed to create transactor", zap.Error(err))
		return nil, err
	}
	return opts, nil
}

// EstimateGas asks the node how much gas a call from opts.From to `to` with
// the given calldata and opts.Value would consume.
func EstimateGas(ctx context.Context, est ethereum.GasEstimator, opts *bind.TransactOpts, to common.Address, data []byte) (uint64, error) {
	msg := ethereum.CallMsg{
		From:  opts.From,
		To:    &to,
		Value: opts.Value,
		Data:  data,
	}
	gas, err := est.EstimateGas(ctx, msg)
	if err != nil {
		zap.L().Debug("gas estimation failed", zap.String("to", to.Hex()), zap.Error(err))
		return 0, fmt.Errorf("estimate gas: %w", err)
	}
	return gas, nil
}

// WithGasLimit returns a shallow copy of opts carrying the given gas limit and
// context. The original options are left untouched.
func WithGasLimit(ctx context.Context, opts *bind.TransactOpts, gasLimit uint64) *bind.TransactOpts {
	cp := *opts
	cp.GasLimit = gasLimit
	cp.Context = ctx
	return &cp
}
