package contract

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/singnet/walletkit-go/pkg/blockchain"
	"github.com/singnet/walletkit-go/pkg/config"
	"github.com/singnet/walletkit-go/pkg/metrics"
	"github.com/singnet/walletkit-go/pkg/model"
	"github.com/singnet/walletkit-go/pkg/wallet"
	"go.uber.org/zap"
)

// Wallet is what the contract service needs from the wallet session.
type Wallet interface {
	CurrentNetwork() (model.NetworkConfiguration, error)
	Account() (common.Address, bool)
	Signer(ctx context.Context) (*wallet.Signer, error)
}

// Backend is a read-only node connection.
type Backend interface {
	bind.ContractCaller
	blockchain.ReceiptReader
}

// Dialer opens a read-only connection on an RPC URL.
type Dialer func(ctx context.Context, rpcURL string) (Backend, error)

// DialEthClient is the default Dialer.
func DialEthClient(ctx context.Context, rpcURL string) (Backend, error) {
	evm, err := blockchain.Dial(ctx, rpcURL, nil)
	if err != nil {
		return nil, err
	}
	return evm.Client, nil
}

// Option configures a Service.
type Option func(*Service)

// WithDialer replaces the dialer used for read calls and receipt polling.
func WithDialer(d Dialer) Option {
	return func(s *Service) { s.dial = d }
}

// TxOptions carries per-transaction settings.
type TxOptions struct {
	// Value is the amount of native currency sent with the call, in wei.
	Value *big.Int
}

const receiptMaxBackoff = 8 * time.Second

// Service performs contract calls on the active network.
type Service struct {
	registry *Registry
	wallet   Wallet
	dial     Dialer
	metrics  *metrics.Metrics
	timeouts config.Timeouts
}

// NewService parses cfg.ABIs and binds the service to the wallet session. m may be nil.
func NewService(cfg *config.Config, w Wallet, m *metrics.Metrics, opts ...Option) (*Service, error) {
	reg, err := NewRegistry(cfg.ABIs)
	if err != nil {
		return nil, err
	}
	s := &Service{
		registry: reg,
		wallet:   w,
		dial:     DialEthClient,
		metrics:  m,
		timeouts: cfg.Timeouts.WithDefaults(),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Registry exposes the parsed ABIs.
func (s *Service) Registry() *Registry { return s.registry }

// EncodeFunctionData returns the calldata for method called with args.
func (s *Service) EncodeFunctionData(ref Ref, method string, args ...any) ([]byte, error) {
	res, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}
	if _, err := res.method(method); err != nil {
		return nil, err
	}
	data, err := res.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encode %s.%s: %w", ref, method, err)
	}
	return data, nil
}

// ReadCall executes method with eth_call against a dedicated connection to
// the active network's first RPC URL and returns the decoded outputs.
//
// Methods that are not view or pure change state when mined; they can only
// be simulated, which the caller must request with static=true. Otherwise the
// call fails with model.ErrPolicy.
func (s *Service) ReadCall(ctx context.Context, ref Ref, method string, static bool, args ...any) (out []any, err error) {
	op := "read"
	if static {
		op = "static_call"
	}
	start := time.Now()
	defer func() { s.metrics.RecordContractOp(op, time.Since(start), err) }()

	res, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}
	m, err := res.method(method)
	if err != nil {
		return nil, err
	}
	if !m.IsConstant() && !static {
		return nil, fmt.Errorf("%s.%s is %s, use a static call: %w", ref, method, m.StateMutability, model.ErrPolicy)
	}
	data, err := res.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encode %s.%s: %w", ref, method, err)
	}
	url, err := res.Network.Chain.PrimaryRPCURL()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeouts.ChainRead)
	defer cancel()

	client, err := s.dial(ctx, url)
	if err != nil {
		return nil, err
	}
	defer closeBackend(client)

	msg := ethereum.CallMsg{To: &res.Address, Data: data}
	if from, ok := s.wallet.Account(); ok {
		msg.From = from
	}
	output, err := client.CallContract(ctx, msg, nil)
	if err != nil {
		zap.L().Debug("contract call failed", zap.String("contract", ref.String()), zap.String("method", method), zap.Error(err))
		return nil, fmt.Errorf("call %s.%s: %w", ref, method, err)
	}
	values, err := res.ABI.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("decode %s.%s: %w", ref, method, err)
	}
	return values, nil
}

// SendTransaction signs and submits a call to method through the connected
// wallet. Gas is estimated first and the estimate becomes the gas limit.
func (s *Service) SendTransaction(ctx context.Context, ref Ref, method string, opts TxOptions, args ...any) (tx *types.Transaction, err error) {
	start := time.Now()
	defer func() { s.metrics.RecordContractOp("send", time.Since(start), err) }()

	signer, err := s.wallet.Signer(ctx)
	if err != nil {
		return nil, fmt.Errorf("send %s.%s: %w", ref, method, err)
	}
	res, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}
	if _, err := res.method(method); err != nil {
		return nil, err
	}
	if signer.ChainID != nil && signer.ChainID.Int64() != res.Network.Chain.ID {
		zap.L().Warn("wallet chain differs from active network",
			zap.String("walletChainId", signer.ChainID.String()),
			zap.Int64("chainId", res.Network.Chain.ID))
	}
	data, err := res.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encode %s.%s: %w", ref, method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeouts.ChainSubmit)
	defer cancel()

	txOpts := *signer.Opts
	txOpts.Value = opts.Value
	gas, err := blockchain.EstimateGas(ctx, signer.Backend, &txOpts, res.Address, data)
	if err != nil {
		return nil, fmt.Errorf("send %s.%s: %w", ref, method, err)
	}

	bound := bind.NewBoundContract(res.Address, *res.ABI, signer.Backend, signer.Backend, signer.Backend)
	tx, err = bound.RawTransact(blockchain.WithGasLimit(ctx, &txOpts, gas), data)
	if err != nil {
		return nil, fmt.Errorf("send %s.%s: %w", ref, method, err)
	}
	zap.L().Info("transaction submitted",
		zap.String("contract", ref.String()),
		zap.String("method", method),
		zap.String("tx", tx.Hash().Hex()),
		zap.Uint64("gas", gas))
	return tx, nil
}

// WaitMined polls the active network until tx has a receipt. Reverted
// transactions return the receipt together with blockchain.ErrReverted.
func (s *Service) WaitMined(ctx context.Context, tx *types.Transaction) (receipt *types.Receipt, err error) {
	start := time.Now()
	defer func() { s.metrics.RecordContractOp("wait", time.Since(start), err) }()

	network, err := s.wallet.CurrentNetwork()
	if err != nil {
		return nil, err
	}
	url, err := network.Chain.PrimaryRPCURL()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeouts.ReceiptWait)
	defer cancel()

	client, err := s.dial(ctx, url)
	if err != nil {
		return nil, err
	}
	defer closeBackend(client)

	return blockchain.WaitForReceipt(ctx, client, tx.Hash(), receiptMaxBackoff)
}

func closeBackend(b Backend) {
	if c, ok := b.(interface{ Close() }); ok {
		c.Close()
	}
}
