// Package sdk provides the high-level entry point for wallet-connected EVM applications.
//
// The SDK composes three services behind a single WalletKit value: the wallet
// and network session, contract calls on the active network, and JSON metadata
// storage namespaced by network.
//
// # Quick Start
//
//	import (
//		"github.com/singnet/walletkit-go/pkg/config"
//		"github.com/singnet/walletkit-go/pkg/sdk"
//		"github.com/singnet/walletkit-go/pkg/wallet"
//	)
//
//	func main() {
//		cfg, err := config.Load("walletkit.yaml")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		conn, err := wallet.NewKeyConnector(os.Getenv("PRIVATE_KEY"), cfg.Chains())
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		kit, err := sdk.NewSDK(cfg, conn)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer kit.Close()
//
//		kit.Subscribe(func(e model.Event) error {
//			fmt.Println(e.Type, e.Address, e.ChainID)
//			return nil
//		})
//
//		if err := kit.OpenModal(ctx); err != nil {
//			log.Fatal(err)
//		}
//		out, err := kit.ReadCall(ctx, contract.Named("usdc"), "balanceOf", false, conn.Address())
//	}
//
// # Architecture
//
//   - Wallet: wallet.Service normalizes connector events to CONNECTED,
//     DISCONNECTED and NETWORK_CHANGED and drives chain switching
//   - Contracts: contract.Service resolves named contracts against the active
//     network and performs reads, transactions and receipt waits
//   - Storage: storage.Service keeps JSON values under metadata_{networkId}_{key}
//     in a file, memory or redis adapter
//
// # Connectors
//
// A wallet.Connector supplies the session. wallet.KeyConnector holds a private
// key in process; wallet.RPCConnector forwards to a remote JSON-RPC wallet and
// sends the project id in the X-Project-Id header.
//
// # Network Changes
//
// SelectNetwork only asks the wallet to switch. The active network changes when
// the wallet confirms and NETWORK_CHANGED is delivered; storage keys and
// contract resolution follow from then on.
//
// # Error Handling
//
// Errors wrap the sentinels in package model and can be matched with errors.Is:
//   - model.ErrNotFound: unknown network, contract, ABI, method or storage key
//   - model.ErrPolicy: testnet outside dev mode, static call not requested
//   - model.ErrNoProvider: no wallet connected
//   - model.ErrNoNetworkSelected: no active network yet
//
// # Thread Safety
//
// Core is safe for concurrent use. Subscribers are invoked synchronously, in
// registration order, on the goroutine that delivered the wallet event.
//
// # See Also
//
//   - examples/quick-start: session, events and metadata
//   - examples/contract-call: reading and sending contract transactions
package sdk
