package wallet

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
)

// eip155Prefix is the CAIP-2 namespace of EVM chains.
const eip155Prefix = "eip155:"

// ParseNetworkID extracts a chain id from a network identifier. Accepted forms
// are CAIP-2 ("eip155:137"), decimal ("137") and hex ("0x89").
func ParseNetworkID(network string) (int64, error) {
	s := strings.TrimSpace(network)
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		if !strings.EqualFold(s[:i+1], eip155Prefix) {
			return 0, fmt.Errorf("unsupported network namespace %q", network)
		}
		s = s[i+1:]
	}

	id, ok := math.ParseUint64(s)
	if !ok {
		return 0, fmt.Errorf("parse network id %q: invalid number", network)
	}
	if int64(id) <= 0 {
		return 0, fmt.Errorf("network id %q is out of range", network)
	}
	return int64(id), nil
}

// FormatNetworkID renders a chain id in CAIP-2 form.
func FormatNetworkID(chainID int64) string {
	return fmt.Sprintf("%s%d", eip155Prefix, chainID)
}
