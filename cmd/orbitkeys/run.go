package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/frudas24/orbitkeys/internal/app"
	"github.com/frudas24/orbitkeys/internal/config"
	"github.com/frudas24/orbitkeys/internal/host"
	"github.com/frudas24/orbitkeys/internal/hostos"
	"github.com/frudas24/orbitkeys/internal/session"
	"github.com/frudas24/orbitkeys/internal/signaling"
	"github.com/frudas24/orbitkeys/internal/webrtc"
	"github.com/frudas24/orbitkeys/internal/wininput"
)

// run wires the application and blocks until shutdown.
func run(debug bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg.LogFile, cfg.LogMaxSizeMB)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	webrtc.SetDebugLogging(debug)
	if debug {
		log.Printf("debug: enabled")
	}
	logStartup(cfg)

	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		return err
	}

	injector, err := wininput.NewInjector()
	if err != nil {
		if !errors.Is(err, wininput.ErrUnsupported) {
			return err
		}
		log.Printf("injector: %v (input is dropped)", err)
	}

	detector := hostos.NewDetector(cfg.HostOS)
	sess := session.New(cfg.UIPassword, detector)
	h := host.New(host.Config{
		Orbital:    tuning.Orbital,
		SelectWord: tuning.SelectWord,
		Debug:      debug,
	}, injector, sess.IsMac)

	appInstance, err := app.New(cfg, sess, h, signaling.ClientReplace, debug)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appInstance.Start(ctx)
	defer func() {
		stop()
		if err := appInstance.Stop(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	mux := http.NewServeMux()
	appInstance.RegisterRoutes(mux, "")
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// logFatal prints and exits for startup failures.
func logFatal(err error) {
	log.Printf("fatal: %v", err)
	os.Exit(1)
}

// logStartup prints startup checks and connection info.
func logStartup(cfg config.Config) {
	log.Printf("orbitkeys starting")
	logEnvStatus(cfg)
	log.Printf("host os: %s", cfg.HostOS)
	log.Printf("tuning: %s", cfg.TuningPath)
	logListenStatus(cfg.ListenAddr)
}

// logEnvStatus reports whether a .env file was found.
func logEnvStatus(cfg config.Config) {
	envPath := filepath.Join(cfg.DataDir, ".env")
	if fileExists(envPath) {
		log.Printf("env check: ok (%s)", envPath)
	} else {
		log.Printf("env check: missing (%s)", envPath)
	}
}

// logListenStatus reports the listen address and a local URL helper.
func logListenStatus(addr string) {
	log.Printf("listen addr: %s", addr)
	name, port, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	if name == "" || name == "0.0.0.0" || name == "::" {
		name = "localhost"
	}
	log.Printf("local url: http://%s", net.JoinHostPort(name, port))
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
