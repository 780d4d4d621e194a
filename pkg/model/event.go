package model

import "encoding/json"

// EventType is the tag of a canonical wallet event.
type EventType string

const (
	EventConnected      EventType = "CONNECTED"
	EventDisconnected   EventType = "DISCONNECTED"
	EventNetworkChanged EventType = "NETWORK_CHANGED"
)

// DisconnectReason is the reason carried by every DISCONNECTED event.
const DisconnectReason = "User disconnected"

// Event is the tagged union delivered to subscribers. Only the fields of the
// variant named by Type are populated:
//
//	CONNECTED       Address
//	DISCONNECTED    Reason
//	NETWORK_CHANGED ChainID, APIURLs
type Event struct {
	Type    EventType `json:"type"`
	Address string    `json:"address,omitempty"`
	Reason  string    `json:"reason,omitempty"`
	ChainID int64     `json:"chainId,omitempty"`
	APIURLs APIURLs   `json:"apiUrls,omitempty"`
}

// Connected builds a CONNECTED event.
func Connected(address string) Event {
	return Event{Type: EventConnected, Address: address}
}

// Disconnected builds a DISCONNECTED event.
func Disconnected(reason string) Event {
	return Event{Type: EventDisconnected, Reason: reason}
}

// MarshalJSON encodes only the payload of the variant named by Type.
// NETWORK_CHANGED always carries chainId and apiUrls, the latter as {} when
// the chain has no APIs.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case EventConnected:
		return json.Marshal(struct {
			Type    EventType `json:"type"`
			Address string    `json:"address"`
		}{e.Type, e.Address})
	case EventDisconnected:
		return json.Marshal(struct {
			Type   EventType `json:"type"`
			Reason string    `json:"reason,omitempty"`
		}{e.Type, e.Reason})
	case EventNetworkChanged:
		urls := e.APIURLs
		if urls == nil {
			urls = APIURLs{}
		}
		return json.Marshal(struct {
			Type    EventType `json:"type"`
			ChainID int64     `json:"chainId"`
			APIURLs APIURLs   `json:"apiUrls"`
		}{e.Type, e.ChainID, urls})
	default:
		type plain Event
		return json.Marshal(plain(e))
	}
}

// NetworkChanged builds a NETWORK_CHANGED event. A nil mapping is replaced by an empty one.
func NetworkChanged(chainID int64, urls APIURLs) Event {
	return Event{Type: EventNetworkChanged, ChainID: chainID, APIURLs: urls.Clone()}
}

// RawEventType names an event emitted by a wallet connector before normalization.
type RawEventType string

const (
	RawConnectSuccess    RawEventType = "CONNECT_SUCCESS"
	RawSelectWallet      RawEventType = "SELECT_WALLET"
	RawDisconnectSuccess RawEventType = "DISCONNECT_SUCCESS"
	RawSwitchNetwork     RawEventType = "SWITCH_NETWORK"
	RawModalOpen         RawEventType = "MODAL_OPEN"
	RawModalClose        RawEventType = "MODAL_CLOSE"
)

// RawEvent is what a connector reports. Network holds a chain identifier such
// as "eip155:137" for SWITCH_NETWORK; Address is informational.
type RawEvent struct {
	Type    RawEventType `json:"event"`
	Network string       `json:"network,omitempty"`
	Address string       `json:"address,omitempty"`
}
