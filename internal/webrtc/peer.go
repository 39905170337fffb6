// Package webrtc accepts key messages over a WebRTC data channel.
package webrtc

import (
	"fmt"
	"log"
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v3"
)

// ChannelLabel is the data channel clients must open.
const ChannelLabel = "keys"

// Options configures an Endpoint.
type Options struct {
	// Handle processes one text message and returns an optional reply. An
	// error closes the peer.
	Handle func(data []byte) ([]byte, error)
	// OnClose runs when the keys channel closes.
	OnClose func()
	// IncludeLoopback gathers loopback ICE candidates, for same-host clients.
	IncludeLoopback bool
}

// Endpoint creates peer connections that accept the keys data channel. Only
// one peer is live at a time.
type Endpoint struct {
	mu   sync.Mutex
	api  *webrtc.API
	peer *webrtc.PeerConnection
	opts Options
}

// NewEndpoint initializes the WebRTC API with default codecs and interceptors.
func NewEndpoint(opts Options) (*Endpoint, error) {
	if opts.Handle == nil {
		return nil, fmt.Errorf("webrtc: nil message handler")
	}

	media := &webrtc.MediaEngine{}
	if err := media.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	interceptors := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(media, interceptors); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}

	settings := webrtc.SettingEngine{}
	settings.SetIncludeLoopbackCandidate(opts.IncludeLoopback)

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(media),
		webrtc.WithInterceptorRegistry(interceptors),
		webrtc.WithSettingEngine(settings),
	)

	return &Endpoint{api: api, opts: opts}, nil
}

// NewPeer closes any previous peer and returns a fresh one.
func (e *Endpoint) NewPeer() (*webrtc.PeerConnection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.peer != nil {
		_ = e.peer.Close()
		e.peer = nil
	}

	peer, err := e.api.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return nil, err
	}
	peer.OnDataChannel(func(dc *webrtc.DataChannel) {
		e.attach(peer, dc)
	})
	peer.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		if debugEnabled() {
			log.Printf("webrtc: peer state %s", state)
		}
	})

	e.peer = peer
	return peer, nil
}

// ClosePeer closes the current peer connection.
func (e *Endpoint) ClosePeer() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.peer != nil {
		_ = e.peer.Close()
		e.peer = nil
	}
}

// attach wires the keys channel to the handler and rejects any other label.
func (e *Endpoint) attach(peer *webrtc.PeerConnection, dc *webrtc.DataChannel) {
	if dc.Label() != ChannelLabel {
		log.Printf("webrtc: closing unexpected channel %q", dc.Label())
		_ = dc.Close()
		return
	}

	dc.OnOpen(func() {
		log.Printf("webrtc: channel %q open", dc.Label())
	})
	dc.OnClose(func() {
		log.Printf("webrtc: channel %q closed", dc.Label())
		if e.opts.OnClose != nil {
			e.opts.OnClose()
		}
	})
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		reply, err := e.respond(msg)
		if err != nil {
			log.Printf("webrtc: %v", err)
			_ = peer.Close()
			return
		}
		if reply != nil {
			if err := dc.SendText(string(reply)); err != nil {
				log.Printf("webrtc: send reply: %v", err)
			}
		}
	})
}

// respond runs the handler for a text message. Binary messages are ignored.
func (e *Endpoint) respond(msg webrtc.DataChannelMessage) ([]byte, error) {
	if !msg.IsString {
		return nil, nil
	}
	if debugEnabled() {
		log.Printf("webrtc: recv %s", msg.Data)
	}
	return e.opts.Handle(msg.Data)
}
