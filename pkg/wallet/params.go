package wallet

import (
	"encoding/json"
	"fmt"
)

// decodeParam re-decodes the first request parameter into out. Parameters may
// arrive as typed structs or as generic maps.
func decodeParam(params []any, out any) error {
	if len(params) == 0 {
		return fmt.Errorf("missing request parameter")
	}
	b, err := json.Marshal(params[0])
	if err != nil {
		return fmt.Errorf("encode request parameter: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode request parameter: %w", err)
	}
	return nil
}

// assignResult copies value into result the way a JSON-RPC client would.
func assignResult(result, value any) error {
	if result == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, result)
}

// switchTarget extracts the chain id from wallet_switchEthereumChain params.
func switchTarget(params []any) (int64, error) {
	var p SwitchChainParams
	if err := decodeParam(params, &p); err != nil {
		return 0, err
	}
	return ParseNetworkID(p.ChainID)
}
