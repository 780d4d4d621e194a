// Package blockchain holds the EVM plumbing shared by the wallet and contract
// services.
//
// It covers four concerns:
//
// Connections. Dial opens a go-ethereum rpc.Client (HTTP, WebSocket or IPC)
// with optional request headers and wraps it in an EVMClient that exposes both
// the raw rpc.Client and the typed ethclient.Client:
//
//	evm, err := blockchain.Dial(ctx, "https://polygon-rpc.com", nil)
//	if err != nil {
//		return err
//	}
//	defer evm.Close()
//
// Keys and transactors. ParsePrivateKeyECDSA accepts hex keys with or without
// a 0x prefix; GetTransactOpts builds an EIP-155 keyed transactor.
//
// Transactions. EstimateGas asks the node for a gas figure and WithGasLimit
// copies TransactOpts with that limit applied. WaitForReceipt polls for a
// receipt with exponential backoff and reports reverted transactions with
// ErrReverted.
//
// Units. ToBaseUnits and FromBaseUnits convert between human amounts and the
// smallest currency unit for any decimals count:
//
//	wei, _ := blockchain.ToBaseUnits("1.5", 18)   // 1500000000000000000
//	usdc, _ := blockchain.FromBaseUnits(2500000, 6) // 2.5
package blockchain
