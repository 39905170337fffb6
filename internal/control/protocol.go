// Package control applies key and tuning messages from remote clients.
package control

import (
	"github.com/frudas24/orbitkeys/internal/host"
	"github.com/frudas24/orbitkeys/internal/session"
)

// Message is a control payload shared by the websocket and the data channel.
type Message struct {
	T       string `json:"t"`
	Code    string `json:"code,omitempty"`
	Pressed bool   `json:"pressed,omitempty"`
	Curve   []int  `json:"curve,omitempty"`
	Angle   *int   `json:"angle,omitempty"`
	Mac     *bool  `json:"mac,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// State is the combined runtime view returned to clients.
type State struct {
	Host    host.State       `json:"host"`
	Session session.Snapshot `json:"session"`
}

// Reply is sent back for state requests and rejected messages.
type Reply struct {
	T     string `json:"t"`
	State *State `json:"state,omitempty"`
	Error string `json:"error,omitempty"`
}
