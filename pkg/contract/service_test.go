package contract

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/singnet/walletkit-go/internal/testutil/fakechain"
	"github.com/singnet/walletkit-go/pkg/blockchain"
	"github.com/singnet/walletkit-go/pkg/config"
	"github.com/singnet/walletkit-go/pkg/model"
	"github.com/singnet/walletkit-go/pkg/wallet"
)

const erc20ABI = `[
	{"type":"function","name":"balanceOf","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"decimals","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable",
	 "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

const (
	tokenAddr = "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"
	testChain = int64(137)
)

var recipient = common.HexToAddress("0x00000000000000000000000000000000000000b0")

type fakeWallet struct {
	network     model.NetworkConfiguration
	noNet       bool
	signer      *wallet.Signer
	signerCalls int
}

func (w *fakeWallet) Account() (common.Address, bool) {
	if w.signer == nil {
		return common.Address{}, false
	}
	return w.signer.Address, true
}

func (w *fakeWallet) CurrentNetwork() (model.NetworkConfiguration, error) {
	if w.noNet {
		return model.NetworkConfiguration{}, model.ErrNoNetworkSelected
	}
	return w.network, nil
}

func (w *fakeWallet) Signer(context.Context) (*wallet.Signer, error) {
	w.signerCalls++
	if w.signer == nil {
		return nil, model.ErrNoProvider
	}
	return w.signer, nil
}

type fixture struct {
	svc     *Service
	wallet  *fakeWallet
	chain   *fakechain.Backend
	dialled []string
}

func testConfig() *config.Config {
	return &config.Config{
		Networks: []model.NetworkConfiguration{{
			Chain: model.Chain{ID: testChain, Name: "Polygon", RPCURLs: []string{"https://polygon.local"}},
			Contracts: map[string]model.ContractEntry{
				"usdc":    {Name: "ERC20", Address: tokenAddr},
				"pending": {Name: "ERC20"},
				"legacy":  {Name: "Missing", Address: tokenAddr},
			},
		}},
		ABIs: map[string]config.ABIDefinition{"ERC20": config.ABIDefinition(erc20ABI)},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testConfig()
	f := &fixture{
		wallet: &fakeWallet{network: cfg.Networks[0]},
		chain:  fakechain.New(),
	}
	svc, err := NewService(cfg, f.wallet, nil, WithDialer(func(_ context.Context, url string) (Backend, error) {
		f.dialled = append(f.dialled, url)
		return f.chain, nil
	}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) connect(t *testing.T) common.Address {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	opts, err := blockchain.GetTransactOpts(big.NewInt(testChain), key)
	if err != nil {
		t.Fatal(err)
	}
	f.wallet.signer = &wallet.Signer{
		Address: opts.From,
		ChainID: big.NewInt(testChain),
		Backend: f.chain,
		Opts:    opts,
	}
	return opts.From
}

func TestNewServiceRejectsBadABI(t *testing.T) {
	cfg := testConfig()
	cfg.ABIs["Broken"] = "{not an abi"
	if _, err := NewService(cfg, &fakeWallet{}, nil); err == nil {
		t.Fatal("expected abi parse error")
	}
}

func TestResolve(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Resolve(Named("usdc"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Address != common.HexToAddress(tokenAddr) || res.ABIName != "ERC20" || res.Network.Chain.ID != testChain {
		t.Fatalf("unexpected resolution %+v", res)
	}

	res, err = f.svc.Resolve(At("0x00000000000000000000000000000000000000aa", "ERC20"))
	if err != nil || res.Address != common.HexToAddress("0x00000000000000000000000000000000000000aa") {
		t.Fatalf("raw resolution = %+v, %v", res.Address, err)
	}

	tests := []struct {
		name string
		ref  Ref
	}{
		{"unknown name", Named("dai")},
		{"no address", Named("pending")},
		{"missing abi", Named("legacy")},
		{"raw with unknown abi", At(tokenAddr, "ERC721")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Resolve(tt.ref); !errors.Is(err, model.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}

	if _, err := f.svc.Resolve(At("nope", "ERC20")); err == nil {
		t.Fatal("expected invalid address error")
	}
	if _, err := f.svc.Resolve(Ref{}); err == nil {
		t.Fatal("expected empty reference error")
	}
}

func TestResolve_NetworkWithoutContracts(t *testing.T) {
	f := newFixture(t)
	f.wallet.network.Contracts = nil
	if _, err := f.svc.Resolve(Named("usdc")); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_NoNetwork(t *testing.T) {
	f := newFixture(t)
	f.wallet.noNet = true
	if _, err := f.svc.Resolve(Named("usdc")); !errors.Is(err, model.ErrNoNetworkSelected) {
		t.Fatalf("expected ErrNoNetworkSelected, got %v", err)
	}
}

func TestEncodeFunctionData(t *testing.T) {
	f := newFixture(t)
	data, err := f.svc.EncodeFunctionData(Named("usdc"), "transfer", recipient, big.NewInt(1000))
	if err != nil {
		t.Fatalf("EncodeFunctionData: %v", err)
	}
	if got := hex.EncodeToString(data[:4]); got != "a9059cbb" {
		t.Fatalf("selector = %s", got)
	}
	if len(data) != 4+64 {
		t.Fatalf("calldata length = %d", len(data))
	}
	if _, err := f.svc.EncodeFunctionData(Named("usdc"), "approve", recipient, big.NewInt(1)); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown method, got %v", err)
	}
	if _, err := f.svc.EncodeFunctionData(Named("usdc"), "transfer", "bad"); err == nil {
		t.Fatal("expected pack error")
	}
}

func TestReadCall(t *testing.T) {
	f := newFixture(t)
	res, _ := f.svc.Resolve(Named("usdc"))
	f.chain.CallResult = func(msg ethereum.CallMsg) ([]byte, error) {
		return res.ABI.Methods["balanceOf"].Outputs.Pack(big.NewInt(2500000))
	}

	out, err := f.svc.ReadCall(context.Background(), Named("usdc"), "balanceOf", false, recipient)
	if err != nil {
		t.Fatalf("ReadCall: %v", err)
	}
	if len(out) != 1 || out[0].(*big.Int).Int64() != 2500000 {
		t.Fatalf("outputs = %v", out)
	}
	if len(f.dialled) != 1 || f.dialled[0] != "https://polygon.local" {
		t.Fatalf("dialled %v", f.dialled)
	}
	if !f.chain.Closed() {
		t.Fatal("read connection not closed")
	}
	calls := f.chain.Calls()
	if len(calls) != 1 || *calls[0].To != common.HexToAddress(tokenAddr) || calls[0].From != (common.Address{}) {
		t.Fatalf("calls = %+v", calls)
	}
}

func TestReadCall_UsesSignerAddress(t *testing.T) {
	f := newFixture(t)
	from := f.connect(t)
	res, _ := f.svc.Resolve(Named("usdc"))
	f.chain.CallResult = func(ethereum.CallMsg) ([]byte, error) {
		return res.ABI.Methods["decimals"].Outputs.Pack(uint8(6))
	}

	out, err := f.svc.ReadCall(context.Background(), Named("usdc"), "decimals", false)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].(uint8) != 6 {
		t.Fatalf("decimals = %v", out[0])
	}
	if f.chain.Calls()[0].From != from {
		t.Fatal("call not sent from the connected account")
	}
	if f.wallet.signerCalls != 0 {
		t.Fatalf("read call requested a signer %d times", f.wallet.signerCalls)
	}
}

func TestReadCall_StaticPolicy(t *testing.T) {
	f := newFixture(t)
	res, _ := f.svc.Resolve(Named("usdc"))
	f.chain.CallResult = func(ethereum.CallMsg) ([]byte, error) {
		return res.ABI.Methods["transfer"].Outputs.Pack(true)
	}

	_, err := f.svc.ReadCall(context.Background(), Named("usdc"), "transfer", false, recipient, big.NewInt(1))
	if !errors.Is(err, model.ErrPolicy) {
		t.Fatalf("expected ErrPolicy, got %v", err)
	}
	if len(f.dialled) != 0 {
		t.Fatal("node contacted for a refused call")
	}

	out, err := f.svc.ReadCall(context.Background(), Named("usdc"), "transfer", true, recipient, big.NewInt(1))
	if err != nil {
		t.Fatalf("static call: %v", err)
	}
	if ok, _ := out[0].(bool); !ok {
		t.Fatalf("outputs = %v", out)
	}
}

func TestReadCall_NodeError(t *testing.T) {
	f := newFixture(t)
	f.chain.CallResult = func(ethereum.CallMsg) ([]byte, error) { return nil, fakechain.ErrExecutionReverted }
	_, err := f.svc.ReadCall(context.Background(), Named("usdc"), "balanceOf", false, recipient)
	if !errors.Is(err, fakechain.ErrExecutionReverted) {
		t.Fatalf("expected revert error, got %v", err)
	}
}

func TestSendTransaction(t *testing.T) {
	f := newFixture(t)
	from := f.connect(t)
	f.chain.Gas = 54321

	tx, err := f.svc.SendTransaction(context.Background(), Named("usdc"), "transfer", TxOptions{}, recipient, big.NewInt(1000))
	if err != nil {
		t.Fatalf("SendTransaction: %v", err)
	}
	if tx.Gas() != 54321 {
		t.Fatalf("gas limit = %d, want estimate 54321", tx.Gas())
	}
	if *tx.To() != common.HexToAddress(tokenAddr) {
		t.Fatalf("to = %s", tx.To().Hex())
	}
	want, _ := f.svc.EncodeFunctionData(Named("usdc"), "transfer", recipient, big.NewInt(1000))
	if !bytes.Equal(tx.Data(), want) {
		t.Fatalf("calldata mismatch")
	}
	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(testChain)), tx)
	if err != nil || sender != from {
		t.Fatalf("sender = %s, %v", sender.Hex(), err)
	}

	est := f.chain.Estimates()
	if len(est) != 1 || est[0].From != from || !bytes.Equal(est[0].Data, want) {
		t.Fatalf("estimates = %+v", est)
	}
	if sent := f.chain.Sent(); len(sent) != 1 || sent[0].Hash() != tx.Hash() {
		t.Fatalf("sent = %v", sent)
	}

	receipt, err := f.svc.WaitMined(context.Background(), tx)
	if err != nil {
		t.Fatalf("WaitMined: %v", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful || receipt.TxHash != tx.Hash() {
		t.Fatalf("receipt = %+v", receipt)
	}
}

func TestSendTransaction_NoWallet(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SendTransaction(context.Background(), Named("usdc"), "transfer", TxOptions{}, recipient, big.NewInt(1))
	if !errors.Is(err, model.ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
}

func TestSendTransaction_EstimateFails(t *testing.T) {
	f := newFixture(t)
	f.connect(t)
	f.chain.EstimateErr = fakechain.ErrExecutionReverted

	_, err := f.svc.SendTransaction(context.Background(), Named("usdc"), "transfer", TxOptions{}, recipient, big.NewInt(1))
	if !errors.Is(err, fakechain.ErrExecutionReverted) {
		t.Fatalf("expected estimate error, got %v", err)
	}
	if len(f.chain.Sent()) != 0 {
		t.Fatal("transaction sent despite failed estimate")
	}
}

func TestWaitMined_Reverted(t *testing.T) {
	f := newFixture(t)
	f.connect(t)
	tx, err := f.svc.SendTransaction(context.Background(), Named("usdc"), "transfer", TxOptions{}, recipient, big.NewInt(1))
	if err != nil {
		t.Fatal(err)
	}
	f.chain.SetReceipt(tx.Hash(), &types.Receipt{Status: types.ReceiptStatusFailed, TxHash: tx.Hash()})

	receipt, err := f.svc.WaitMined(context.Background(), tx)
	if !errors.Is(err, blockchain.ErrReverted) {
		t.Fatalf("expected ErrReverted, got %v", err)
	}
	if receipt == nil || receipt.Status != types.ReceiptStatusFailed {
		t.Fatalf("receipt = %+v", receipt)
	}
}

func TestRegistryNames(t *testing.T) {
	f := newFixture(t)
	if names := f.svc.Registry().Names(); len(names) != 1 || names[0] != "ERC20" {
		t.Fatalf("names = %v", names)
	}
}
