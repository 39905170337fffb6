// Package app wires HTTP, signaling, and the host loop together.
package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/frudas24/orbitkeys/internal/config"
	"github.com/frudas24/orbitkeys/internal/control"
	"github.com/frudas24/orbitkeys/internal/host"
	"github.com/frudas24/orbitkeys/internal/session"
	"github.com/frudas24/orbitkeys/internal/signaling"
	"github.com/frudas24/orbitkeys/internal/webrtc"
)

// stopTimeout bounds how long Stop waits for the host loop to release input.
const stopTimeout = 2 * time.Second

// App coordinates the HTTP API, websocket servers, and the host loop.
type App struct {
	cfg       config.Config
	session   *session.Session
	host      *host.Host
	handler   *control.Handler
	control   *control.Server
	endpoint  *webrtc.Endpoint
	signaling *signaling.Server
	debug     bool
}

// New creates a new application with its dependencies wired. The host loop is
// not started until Start.
func New(cfg config.Config, sess *session.Session, h *host.Host, policy signaling.ClientPolicy, debug bool) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if h == nil {
		return nil, errors.New("host is required")
	}

	app := &App{
		cfg:     cfg,
		session: sess,
		host:    h,
		debug:   debug,
	}
	app.handler = control.NewHandler(h, sess, debug)
	app.control = control.NewServer(sess, app.handler)

	endpoint, err := webrtc.NewEndpoint(webrtc.Options{
		Handle:          app.handler.HandleRaw,
		OnClose:         app.releaseInput,
		IncludeLoopback: true,
	})
	if err != nil {
		return nil, err
	}
	app.endpoint = endpoint
	app.signaling = signaling.NewServer(endpoint, signaling.Options{
		Policy:     policy,
		Authorized: sess.IsAuthenticated,
		Release:    app.releaseInput,
	})

	return app, nil
}

// Start runs the host loop and the tuning watcher until ctx is done.
func (a *App) Start(ctx context.Context) {
	go func() {
		if err := a.host.Run(ctx); err != nil {
			log.Printf("host: %v", err)
		}
	}()
	if a.cfg.TuningPath == "" {
		return
	}
	go func() {
		if err := config.WatchTuning(ctx, a.cfg.TuningPath, config.DefaultReloadDebounce, a.ApplyTuning); err != nil {
			log.Printf("config: watch disabled: %v", err)
		}
	}()
}

// ApplyTuning pushes the runtime-adjustable parts of t to the host.
func (a *App) ApplyTuning(t config.Tuning) {
	curve := t.Orbital.SpeedCurve
	if err := a.host.SetSpeedCurve(&curve); err != nil {
		log.Printf("config: apply speed curve: %v", err)
	}
}

// Stop disconnects remote clients and waits for the host loop to release
// held input. The context passed to Start must already be cancelled.
func (a *App) Stop() error {
	a.signaling.Close()
	a.endpoint.ClosePeer()
	select {
	case <-a.host.Done():
		return nil
	case <-time.After(stopTimeout):
		return errors.New("host loop did not stop")
	}
}

// releaseInput lifts everything when a data channel or signaling client goes away.
func (a *App) releaseInput() {
	if err := a.host.Release(); err != nil && !errors.Is(err, host.ErrStopped) {
		log.Printf("app: release: %v", err)
	}
}

// Signaling returns the signaling websocket handler.
func (a *App) Signaling() *signaling.Server {
	return a.signaling
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}
