package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestChainIDHex(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		want string
	}{
		{name: "Mainnet", id: 1, want: "0x1"},
		{name: "Polygon", id: 137, want: "0x89"},
		{name: "Sepolia", id: 11155111, want: "0xaa36a7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Chain{ID: tt.id}).ChainIDHex(); got != tt.want {
				t.Fatalf("ChainIDHex() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrimaryRPCURL(t *testing.T) {
	c := Chain{ID: 1, RPCURLs: []string{"https://rpc-a", "https://rpc-b"}}
	got, err := c.PrimaryRPCURL()
	if err != nil {
		t.Fatalf("PrimaryRPCURL error: %v", err)
	}
	if got != "https://rpc-a" {
		t.Fatalf("unexpected url: %s", got)
	}

	if _, err := (Chain{ID: 2}).PrimaryRPCURL(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContractEntryHasAddress(t *testing.T) {
	if (ContractEntry{Name: "ERC20"}).HasAddress() {
		t.Fatal("entry without address reported as addressable")
	}
	if (ContractEntry{Name: "ERC20", Address: "not-hex"}).HasAddress() {
		t.Fatal("invalid address accepted")
	}
	if !(ContractEntry{Name: "ERC20", Address: "0x1234567890123456789012345678901234567890"}).HasAddress() {
		t.Fatal("valid address rejected")
	}
}

func TestAPIEndpointAddress(t *testing.T) {
	port := 8443
	tests := []struct {
		name string
		ep   APIEndpoint
		want string
	}{
		{"no port", APIEndpoint{URL: "https://api"}, "https://api"},
		{"host only", APIEndpoint{URL: "https://api", Port: &port}, "https://api:8443"},
		{"with path", APIEndpoint{URL: "https://indexer.example/api/v1", Port: &port}, "https://indexer.example:8443/api/v1"},
		{"replaces port", APIEndpoint{URL: "http://localhost:3000/rpc?x=1", Port: &port}, "http://localhost:8443/rpc?x=1"},
		{"ipv6", APIEndpoint{URL: "http://[::1]/v1", Port: &port}, "http://[::1]:8443/v1"},
		{"bare host", APIEndpoint{URL: "indexer", Port: &port}, "indexer:8443"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ep.Address(); got != tt.want {
				t.Fatalf("Address() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNetworkChangedNilURLs(t *testing.T) {
	ev := NetworkChanged(137, nil)
	if ev.Type != EventNetworkChanged || ev.ChainID != 137 {
		t.Fatalf("unexpected event: %#v", ev)
	}
	if ev.APIURLs == nil || len(ev.APIURLs) != 0 {
		t.Fatalf("expected empty non-nil api urls, got %#v", ev.APIURLs)
	}
}

func TestNetworkChangedCopiesURLs(t *testing.T) {
	port := 1
	src := APIURLs{"indexer": {URL: "https://idx", Port: &port}}
	ev := NetworkChanged(1, src)
	*src["indexer"].Port = 2
	src["extra"] = APIEndpoint{URL: "x"}
	if *ev.APIURLs["indexer"].Port != 1 {
		t.Fatal("event port shares memory with configuration")
	}
	if _, ok := ev.APIURLs["extra"]; ok {
		t.Fatal("event map shares memory with configuration")
	}
}

func TestEventJSON(t *testing.T) {
	port := 8443
	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{"connected", Connected("0xabc"), `{"type":"CONNECTED","address":"0xabc"}`},
		{"disconnected", Disconnected(DisconnectReason), `{"type":"DISCONNECTED","reason":"User disconnected"}`},
		{"network without apis", NetworkChanged(5, nil), `{"type":"NETWORK_CHANGED","chainId":5,"apiUrls":{}}`},
		{"network with nil map", Event{Type: EventNetworkChanged, ChainID: 10}, `{"type":"NETWORK_CHANGED","chainId":10,"apiUrls":{}}`},
		{"network with apis", NetworkChanged(137, APIURLs{"indexer": {URL: "https://idx", Port: &port}}),
			`{"type":"NETWORK_CHANGED","chainId":137,"apiUrls":{"indexer":{"url":"https://idx","port":8443}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.ev)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(b) != tt.want {
				t.Fatalf("got %s, want %s", b, tt.want)
			}
		})
	}

	var back Event
	if err := json.Unmarshal([]byte(`{"type":"NETWORK_CHANGED","chainId":5,"apiUrls":{}}`), &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Type != EventNetworkChanged || back.ChainID != 5 || back.APIURLs == nil {
		t.Fatalf("decoded %#v", back)
	}
}
