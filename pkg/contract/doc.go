// Package contract resolves contracts on the active network and calls them.
//
// A contract is referenced by its configured name (Named("token")) or by a raw
// address plus ABI name (At("0x...", "ERC20")). Named references are looked
// up in the active network's contract table; either way the ABI comes from the
// registry parsed from config.Config.ABIs at construction.
//
// Reads go through a dedicated connection to the active network's first RPC
// URL and do not need a wallet. Methods that are neither view nor pure must be
// read with static=true, which simulates them with eth_call:
//
//	out, err := svc.ReadCall(ctx, contract.Named("token"), "balanceOf", false, owner)
//	ok, err := svc.ReadCall(ctx, contract.Named("token"), "transfer", true, to, amount)
//
// Transactions are signed by the connected wallet. The gas limit is always
// the node's estimate:
//
//	tx, err := svc.SendTransaction(ctx, contract.Named("token"), "transfer", contract.TxOptions{}, to, amount)
//	receipt, err := svc.WaitMined(ctx, tx)
package contract
