// Package signaling negotiates the keys data channel over a websocket.
package signaling

import (
	"errors"
	"fmt"

	"github.com/pion/sdp/v3"
	"github.com/pion/webrtc/v3"
)

// Message types exchanged with signaling clients.
const (
	// TypeOffer carries the client's SDP offer.
	TypeOffer = "offer"
	// TypeAnswer carries the server's SDP answer.
	TypeAnswer = "answer"
	// TypeICE carries a trickled candidate in either direction.
	TypeICE = "ice"
	// TypeBye ends the session and releases held input.
	TypeBye = "bye"
	// TypeError reports why the server is closing the session.
	TypeError = "error"
)

// dataChannelFormat is the SDP format of an SCTP data channel section.
const dataChannelFormat = "webrtc-datachannel"

var (
	errEmptyOffer = errors.New("empty offer")
	errNoChannel  = errors.New("offer has no data channel section")
)

// Message is a websocket signaling payload.
type Message struct {
	T         string                   `json:"t"`
	SDP       string                   `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit `json:"candidate,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

// checkOffer rejects offers that cannot carry the keys data channel. The
// channel label travels in-band, so the SDP only shows an application
// section with the data channel format.
func checkOffer(raw string) error {
	if raw == "" {
		return errEmptyOffer
	}
	var desc sdp.SessionDescription
	if err := desc.Unmarshal([]byte(raw)); err != nil {
		return fmt.Errorf("parse offer: %w", err)
	}
	for _, m := range desc.MediaDescriptions {
		if m.MediaName.Media != "application" || m.MediaName.Port.Value == 0 {
			continue
		}
		for _, f := range m.MediaName.Formats {
			if f == dataChannelFormat {
				return nil
			}
		}
	}
	return errNoChannel
}
