package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/singnet/walletkit-go/pkg/blockchain"
	"github.com/singnet/walletkit-go/pkg/config"
	"github.com/singnet/walletkit-go/pkg/model"
	"go.uber.org/zap"
)

const (
	// ProjectIDHeader carries the project id on every request to a remote wallet.
	ProjectIDHeader = "X-Project-Id"
	// AppMetadataHeader carries the JSON encoded model.AppMetadata so the
	// wallet can show who is asking for a session.
	AppMetadataHeader = "X-App-Metadata"
)

// RPCConnector talks to an external wallet over JSON-RPC (HTTP or WebSocket).
// The wallet keeps the keys; transactions are signed with eth_signTransaction
// and submitted through the same connection.
type RPCConnector struct {
	emitter

	url       string
	projectID string
	app       model.AppMetadata

	mu      sync.Mutex
	evm     *blockchain.EVMClient
	account common.Address
	chainID *big.Int
}

// NewRPCConnector prepares a connector for the wallet at url. Nothing is
// dialled until Open.
func NewRPCConnector(url, projectID string) *RPCConnector {
	return &RPCConnector{url: url, projectID: projectID}
}

// NewRPCConnectorFromConfig is NewRPCConnector with the project id and app
// metadata taken from cfg.
func NewRPCConnectorFromConfig(url string, cfg *config.Config) *RPCConnector {
	return &RPCConnector{url: url, projectID: cfg.ProjectID, app: cfg.App}
}

func (c *RPCConnector) headers() (map[string]string, error) {
	headers := make(map[string]string, 2)
	if c.projectID != "" {
		headers[ProjectIDHeader] = c.projectID
	}
	if c.app.Name != "" {
		meta, err := json.Marshal(c.app)
		if err != nil {
			return nil, fmt.Errorf("encode app metadata: %w", err)
		}
		headers[AppMetadataHeader] = string(meta)
	}
	return headers, nil
}

// Open dials the wallet, requests account access and reports the account and
// the wallet's current chain.
func (c *RPCConnector) Open(ctx context.Context) error {
	headers, err := c.headers()
	if err != nil {
		return err
	}
	evm, err := blockchain.Dial(ctx, c.url, headers)
	if err != nil {
		return err
	}

	var accounts []common.Address
	if err := evm.RPC.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		evm.Close()
		return fmt.Errorf("request accounts: %w", err)
	}
	if len(accounts) == 0 {
		evm.Close()
		return errors.New("wallet returned no accounts")
	}
	var chainID hexutil.Big
	if err := evm.RPC.CallContext(ctx, &chainID, "eth_chainId"); err != nil {
		evm.Close()
		return fmt.Errorf("query chain id: %w", err)
	}

	c.mu.Lock()
	if c.evm != nil {
		c.evm.Close()
	}
	c.evm = evm
	c.account = accounts[0]
	c.chainID = chainID.ToInt()
	c.mu.Unlock()

	zap.L().Info("remote wallet connected",
		zap.String("address", accounts[0].Hex()),
		zap.String("chainId", chainID.ToInt().String()))
	c.emit(model.RawEvent{Type: model.RawConnectSuccess, Address: accounts[0].Hex()})
	c.emit(model.RawEvent{Type: model.RawSwitchNetwork, Network: FormatNetworkID(chainID.ToInt().Int64())})
	return nil
}

// Close drops the connection.
func (c *RPCConnector) Close(_ context.Context) error {
	c.mu.Lock()
	evm := c.evm
	c.evm = nil
	c.mu.Unlock()

	if evm == nil {
		return nil
	}
	evm.Close()
	c.emit(model.RawEvent{Type: model.RawDisconnectSuccess})
	return nil
}

// Provider returns the connector while a session is open, nil otherwise.
func (c *RPCConnector) Provider() Provider {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.evm == nil {
		return nil
	}
	return c
}

func (c *RPCConnector) client() (*blockchain.EVMClient, common.Address, *big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.evm == nil {
		return nil, common.Address{}, nil, model.ErrNoProvider
	}
	return c.evm, c.account, new(big.Int).Set(c.chainID), nil
}

// Request forwards an EIP-1193 request to the wallet. A successful chain
// switch is reported as a SWITCH_NETWORK event.
func (c *RPCConnector) Request(ctx context.Context, result any, method string, params ...any) error {
	evm, _, _, err := c.client()
	if err != nil {
		return err
	}
	if err := evm.RPC.CallContext(ctx, result, method, params...); err != nil {
		return err
	}
	if method == "wallet_switchEthereumChain" {
		id, err := switchTarget(params)
		if err != nil {
			zap.L().Warn("cannot read switched chain id", zap.Error(err))
			return nil
		}
		c.mu.Lock()
		c.chainID = big.NewInt(id)
		c.mu.Unlock()
		c.emit(model.RawEvent{Type: model.RawSwitchNetwork, Network: FormatNetworkID(id)})
	}
	return nil
}

// Signer returns transact options that delegate signing to the wallet.
func (c *RPCConnector) Signer(_ context.Context) (*Signer, error) {
	evm, account, chainID, err := c.client()
	if err != nil {
		return nil, err
	}
	opts := &bind.TransactOpts{
		From: account,
		Signer: func(addr common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if addr != account {
				return nil, bind.ErrNotAuthorized
			}
			return signRemote(evm, addr, chainID, tx)
		},
	}
	return &Signer{
		Address: account,
		ChainID: chainID,
		Backend: evm.Client,
		Opts:    opts,
	}, nil
}

func signRemote(evm *blockchain.EVMClient, from common.Address, chainID *big.Int, tx *types.Transaction) (*types.Transaction, error) {
	var res json.RawMessage
	if err := evm.RPC.Call(&res, "eth_signTransaction", txArgs(from, chainID, tx)); err != nil {
		return nil, fmt.Errorf("eth_signTransaction: %w", err)
	}
	raw, err := decodeSignResult(res)
	if err != nil {
		return nil, err
	}
	signed := new(types.Transaction)
	if err := signed.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("decode signed transaction: %w", err)
	}
	return signed, nil
}

// decodeSignResult accepts both a bare hex string and geth's {raw, tx} object.
func decodeSignResult(res json.RawMessage) ([]byte, error) {
	res = bytes.TrimSpace(res)
	if len(res) > 0 && res[0] == '"' {
		var raw hexutil.Bytes
		if err := json.Unmarshal(res, &raw); err != nil {
			return nil, fmt.Errorf("decode signature result: %w", err)
		}
		return raw, nil
	}
	var obj struct {
		Raw hexutil.Bytes `json:"raw"`
	}
	if err := json.Unmarshal(res, &obj); err != nil {
		return nil, fmt.Errorf("decode signature result: %w", err)
	}
	if len(obj.Raw) == 0 {
		return nil, errors.New("wallet returned an empty signed transaction")
	}
	return obj.Raw, nil
}

// txArgs renders tx as eth_signTransaction arguments.
func txArgs(from common.Address, chainID *big.Int, tx *types.Transaction) map[string]any {
	args := map[string]any{
		"from":    from,
		"gas":     hexutil.Uint64(tx.Gas()),
		"value":   (*hexutil.Big)(tx.Value()),
		"nonce":   hexutil.Uint64(tx.Nonce()),
		"data":    hexutil.Bytes(tx.Data()),
		"chainId": (*hexutil.Big)(chainID),
	}
	if tx.To() != nil {
		args["to"] = *tx.To()
	}
	switch tx.Type() {
	case types.LegacyTxType, types.AccessListTxType:
		args["gasPrice"] = (*hexutil.Big)(tx.GasPrice())
	default:
		args["maxFeePerGas"] = (*hexutil.Big)(tx.GasFeeCap())
		args["maxPriorityFeePerGas"] = (*hexutil.Big)(tx.GasTipCap())
	}
	return args
}
