// Package model defines the data structures shared across the library.
//
// # Network Configuration
//
// NetworkConfiguration is one supported chain:
//
//	type NetworkConfiguration struct {
//		Chain     Chain                    // id, name, native currency, RPC URLs, explorer, testnet flag
//		Contracts map[string]ContractEntry // logical name -> {ABI name, optional address}
//		Metadata  map[string]any           // free-form
//	}
//
// The chain id in Chain.ID is the only network identifier; there is no
// secondary "custom" id.
//
// # Events
//
// Wallet connectors report RawEvent values. The wallet service turns them into
// Event values of exactly three kinds:
//
//	CONNECTED       {Address}
//	DISCONNECTED    {Reason}
//	NETWORK_CHANGED {ChainID, APIURLs}
//
// Events are built fresh per notification and never persisted.
//
// # Errors
//
// ErrNotFound, ErrPolicy, ErrNoProvider and ErrNoNetworkSelected are sentinel
// values. Services wrap them with context, so match with errors.Is:
//
//	if errors.Is(err, model.ErrNotFound) { ... }
package model
