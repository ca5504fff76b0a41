package domain

import "encoding/json"

type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PlayerState is the client-reported state relayed to other peers.
// Accessory, area and state are opaque to the server and passed through
// verbatim.
type PlayerState struct {
	Position  Vector3         `json:"position"`
	Rotation  Vector3         `json:"rotation"`
	Accessory json.RawMessage `json:"accessory,omitempty"`
	Area      json.RawMessage `json:"area,omitempty"`
	State     json.RawMessage `json:"state,omitempty"`
}
