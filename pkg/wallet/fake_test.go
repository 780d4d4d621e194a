package wallet

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/singnet/walletkit-go/pkg/config"
	"github.com/singnet/walletkit-go/pkg/model"
)

type request struct {
	method string
	params []any
}

// fakeProvider records requests; respond decides the answer per method.
type fakeProvider struct {
	mu        sync.Mutex
	requests  []request
	respond   func(method string, params []any) error
	address   common.Address
	signerErr error
}

func (p *fakeProvider) Request(_ context.Context, _ any, method string, params ...any) error {
	p.mu.Lock()
	p.requests = append(p.requests, request{method: method, params: params})
	respond := p.respond
	p.mu.Unlock()
	if respond == nil {
		return nil
	}
	return respond(method, params)
}

func (p *fakeProvider) Signer(context.Context) (*Signer, error) {
	if p.signerErr != nil {
		return nil, p.signerErr
	}
	return &Signer{Address: p.address, ChainID: big.NewInt(1)}, nil
}

func (p *fakeProvider) methods() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.requests))
	for i, r := range p.requests {
		out[i] = r.method
	}
	return out
}

type fakeConnector struct {
	emitter
	provider *fakeProvider
	opened   int
	closed   int
}

func (c *fakeConnector) Provider() Provider {
	if c.provider == nil {
		return nil
	}
	return c.provider
}

func (c *fakeConnector) Open(context.Context) error  { c.opened++; return nil }
func (c *fakeConnector) Close(context.Context) error { c.closed++; return nil }

const (
	chainMainnet = int64(1)
	chainPolygon = int64(137)
	chainSepolia = int64(11155111)
	chainBase    = int64(8453)
)

func testConfig(t *testing.T, devMode bool) *config.Config {
	t.Helper()
	port := 8443
	cfg := &config.Config{
		DevMode: devMode,
		Networks: []model.NetworkConfiguration{
			{Chain: model.Chain{ID: chainMainnet, Name: "Ethereum", RPCURLs: []string{"http://127.0.0.1:8545"}}},
			{Chain: model.Chain{
				ID:             chainPolygon,
				Name:           "Polygon",
				NativeCurrency: model.NativeCurrency{Name: "POL", Symbol: "POL", Decimals: 18},
				RPCURLs:        []string{"https://polygon-rpc.com"},
				ExplorerURL:    "https://polygonscan.com",
			}},
			{Chain: model.Chain{ID: chainSepolia, Name: "Sepolia", Testnet: true, RPCURLs: []string{"https://rpc.sepolia.org"}}},
			{Chain: model.Chain{ID: chainBase, Name: "Base"}},
		},
		APIURLs: map[int64]model.APIURLs{
			chainPolygon: {"indexer": {URL: "https://indexer.example", Port: &port}},
		},
		Storage: config.Storage{Driver: config.StorageMemory},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return cfg
}

type recorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recorder) handle(ev model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) all() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Event(nil), r.events...)
}

var errBoom = errors.New("boom")
