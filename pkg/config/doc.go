// Package config provides configuration management for walletkit.
//
// This package defines the Config structure that controls which networks are
// offered, which contracts and ABIs exist on them, which off-chain APIs are
// announced on network changes, where metadata is stored and how long
// operations may take.
//
// # Basic Configuration
//
// The minimum configuration needs one network:
//
//	cfg := &config.Config{
//		Networks: []model.NetworkConfiguration{
//			{Chain: model.Chain{ID: 137, Name: "polygon", RPCURLs: []string{"https://polygon-rpc.com"}}},
//		},
//	}
//
// # Developer Mode
//
// Networks flagged Testnet are hidden from AvailableNetworks and refused by
// SelectNetwork unless DevMode is set:
//
//	cfg.DevMode = true
//
// # Contracts and ABIs
//
// Each network maps logical contract names to an ABI name and address; ABIs
// are global and keyed by name:
//
//	networks:
//	  - chain: {id: 137, rpc_urls: ["https://polygon-rpc.com"]}
//	    contracts:
//	      usdc: {name: ERC20, address: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359"}
//	abis:
//	  ERC20: '[{"type":"function","name":"balanceOf", ...}]'
//
// An ABI may also be written as a native YAML sequence.
//
// # API URLs
//
// APIURLs maps a chain id to named endpoints. The mapping for the newly active
// chain is attached to every NETWORK_CHANGED event.
//
// # Storage
//
// Storage.Driver selects the metadata backend: "file" (default, a JSON file at
// Storage.Path), "memory" or "redis" (Storage.RedisAddr required).
//
// # Environment
//
// ApplyEnv overlays WALLETKIT_PROJECT_ID, WALLETKIT_DEV_MODE, WALLETKIT_DEBUG,
// WALLETKIT_STORAGE_DRIVER, WALLETKIT_STORAGE_PATH and WALLETKIT_REDIS_* from
// the environment, after loading a .env file when present.
//
// # Configuration Validation
//
// Always call Validate() to apply defaults and check required fields:
//
//	cfg, err := config.LoadFile("walletkit.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid config: %v", err)
//	}
//
// Load does LoadFile, ApplyEnv and Validate in one call.
//
// # Thread Safety
//
// Config instances should be created once and not modified after passing to sdk.NewSDK().
package config
