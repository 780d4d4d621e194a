// Package wallet owns the wallet session and the active network.
//
// A Connector (KeyConnector for an in-process key, RPCConnector for an
// external JSON-RPC wallet, or any custom implementation) reports raw session
// events. Service translates them into three canonical events:
//
//	CONNECT_SUCCESS, SELECT_WALLET -> CONNECTED{address}
//	DISCONNECT_SUCCESS             -> DISCONNECTED{reason}
//	SWITCH_NETWORK                 -> NETWORK_CHANGED{chainId, apiUrls}
//
// Other raw events are ignored. SWITCH_NETWORK is the only thing that moves
// the current network id, so the id seen by storage and contract resolution
// always matches the last NETWORK_CHANGED delivered.
//
// # Network selection
//
// SelectNetwork checks configuration first (unknown ids fail with
// model.ErrNotFound, testnets outside developer mode with model.ErrPolicy),
// then sends wallet_switchEthereumChain. When the wallet answers that it does
// not know the chain (code 4902), the chain is registered with
// wallet_addEthereumChain and the switch is retried once. A successful call
// only means the wallet accepted the request; wait for NETWORK_CHANGED before
// relying on the new network.
//
// # Subscribers
//
// Handlers run synchronously in registration order. A handler that returns
// an error or panics is logged and counted; the remaining handlers still
// receive the event.
package wallet
