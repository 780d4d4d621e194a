package model

import "errors"

var (
	// ErrNotFound covers missing networks, contracts, ABIs, metadata keys and search matches.
	ErrNotFound = errors.New("not found")
	// ErrPolicy is returned when an operation is refused by configuration (e.g. testnet outside dev mode).
	ErrPolicy = errors.New("not allowed")
	// ErrNoProvider is returned when an operation needs a wallet and none is attached.
	ErrNoProvider = errors.New("no wallet provider attached")
	// ErrNoNetworkSelected is returned by network-scoped operations before any network became active.
	ErrNoNetworkSelected = errors.New("no network selected")
)
