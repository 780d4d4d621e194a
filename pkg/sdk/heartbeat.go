package sdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/singnet/walletkit-go/pkg/blockchain"
	"go.uber.org/zap"
)

// EndpointStatus is the result of checking one endpoint.
type EndpointStatus struct {
	Name    string        `json:"name"`
	URL     string        `json:"url"`
	OK      bool          `json:"ok"`
	Error   string        `json:"error,omitempty"`
	Latency time.Duration `json:"latency"`
}

// HealthReport collects endpoint checks for the active network.
type HealthReport struct {
	ChainID int64 `json:"chain_id"`
	// BlockNumber is the node's latest block, zero when the RPC check failed.
	BlockNumber uint64           `json:"block_number"`
	RPC         EndpointStatus   `json:"rpc"`
	APIs        []EndpointStatus `json:"apis,omitempty"`
}

// Healthy reports whether every checked endpoint answered.
func (r *HealthReport) Healthy() bool {
	if !r.RPC.OK {
		return false
	}
	for _, a := range r.APIs {
		if !a.OK {
			return false
		}
	}
	return true
}

// Healthcheck dials the primary RPC URL of the active network, checks that it
// reports the configured chain id and reads its latest block number. It then
// issues a GET to every API endpoint configured for that chain. API endpoints
// answering with a 5xx status are reported as failing.
func (c *Core) Healthcheck(ctx context.Context) (*HealthReport, error) {
	network, err := c.wallet.CurrentNetwork()
	if err != nil {
		return nil, err
	}
	timeout := c.cfg.Timeouts.ChainRead

	report := &HealthReport{ChainID: network.Chain.ID}

	rpcURL, err := network.Chain.PrimaryRPCURL()
	if err != nil {
		return nil, err
	}
	report.RPC, report.BlockNumber = checkRPC(ctx, rpcURL, network.Chain.ID, timeout)

	urls := c.wallet.APIURLs(network.Chain.ID)
	names := make([]string, 0, len(urls))
	for name := range urls {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		st := checkHTTP(ctx, urls[name].Address(), timeout)
		st.Name = name
		report.APIs = append(report.APIs, st)
	}

	if c.cfg.Debug {
		zap.L().Debug("healthcheck",
			zap.Int64("chainId", report.ChainID),
			zap.Bool("rpc", report.RPC.OK),
			zap.Int("apis", len(report.APIs)),
			zap.Bool("healthy", report.Healthy()))
	}
	return report, nil
}

func checkRPC(ctx context.Context, url string, want int64, timeout time.Duration) (EndpointStatus, uint64) {
	st := EndpointStatus{Name: "rpc", URL: url}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	evm, err := blockchain.Dial(ctx, url, nil)
	if err != nil {
		st.Error = err.Error()
		return st, 0
	}
	defer evm.Close()

	id, err := evm.ChainID(ctx)
	st.Latency = time.Since(start)
	if err != nil {
		st.Error = err.Error()
		return st, 0
	}
	if id.Int64() != want {
		st.Error = fmt.Sprintf("chain id mismatch: got %s, want %d", id, want)
		return st, 0
	}
	block, err := evm.GetCurrentBlockNumberCtx(ctx)
	if err != nil {
		st.Error = err.Error()
		return st, 0
	}
	st.OK = true
	return st, block.Uint64()
}

func checkHTTP(ctx context.Context, url string, timeout time.Duration) EndpointStatus {
	st := EndpointStatus{URL: url}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	st.Latency = time.Since(start)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			zap.L().Error("failed to close healthcheck response", zap.Error(err))
		}
	}(resp.Body)
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		st.Error = fmt.Sprintf("healthcheck failed with: %v", resp.StatusCode)
		return st
	}
	st.OK = true
	return st
}
