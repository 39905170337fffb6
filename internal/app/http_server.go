package app

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/frudas24/orbitkeys/internal/config"
	"github.com/frudas24/orbitkeys/internal/host"
	"github.com/frudas24/orbitkeys/internal/web"
)

// RegisterRoutes wires API and static handlers onto the mux.
func (a *App) RegisterRoutes(mux *http.ServeMux, staticDir string) {
	if staticDir == "" {
		staticDir = filepath.Join("internal", "web", "static")
	}

	mux.HandleFunc("/login", a.handleLogin)
	mux.HandleFunc("/logout", a.handleLogout)
	mux.HandleFunc("/api/state", a.handleState)
	mux.HandleFunc("/api/speed-curve", a.handleSpeedCurve)
	mux.HandleFunc("/api/angle", a.handleAngle)
	mux.Handle("/ws/signal", a.Signaling())
	mux.Handle("/ws/control", a.Control())
	mux.HandleFunc("/favicon.ico", handleFavicon)

	mux.Handle("/", staticFileServer(staticDir))
}

type loginRequest struct {
	Password string `json:"password"`
}

type speedCurveRequest struct {
	Curve []int `json:"curve"`
}

type angleRequest struct {
	Angle *int `json:"angle"`
}

// handleLogin authenticates the session.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !a.session.Authenticate(req.Password) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeOK(w)
}

// handleLogout clears authentication state.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.session.Logout()
	writeOK(w)
}

// handleState returns the engine, selector and session snapshot.
func (a *App) handleState(w http.ResponseWriter, _ *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	st, err := a.handler.State()
	if err != nil {
		writeHostError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}

// handleSpeedCurve replaces the speed curve on POST and restores the default on DELETE.
func (a *App) handleSpeedCurve(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req speedCurveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		curve, err := config.ParseSpeedCurve(req.Curve)
		if err != nil {
			http.Error(w, "speed curve: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := a.host.SetSpeedCurve(&curve); err != nil {
			writeHostError(w, err)
			return
		}
	case http.MethodDelete:
		if err := a.host.SetSpeedCurve(nil); err != nil {
			writeHostError(w, err)
			return
		}
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeOK(w)
}

// handleAngle sets the orbital heading, wrapping to 64 phases.
func (a *App) handleAngle(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req angleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Angle == nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := a.host.SetAngle(uint8(*req.Angle & 63)); err != nil {
		writeHostError(w, err)
		return
	}
	writeOK(w)
}

// requireAuth returns false and writes an error if the session is not authenticated.
func (a *App) requireAuth(w http.ResponseWriter) bool {
	if !a.session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// writeOK writes the standard success body.
func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// writeHostError maps host loop failures to HTTP statuses.
func writeHostError(w http.ResponseWriter, err error) {
	if errors.Is(err, host.ErrStopped) {
		http.Error(w, "host stopped", http.StatusServiceUnavailable)
		return
	}
	log.Printf("app: %v", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// staticFileServer returns a handler for static assets, preferring disk then embed.
func staticFileServer(staticDir string) http.Handler {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	embedded, err := web.StaticFS()
	if err != nil {
		log.Printf("static assets unavailable: %v", err)
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(embedded))
}

// handleFavicon avoids noisy 404s for the default browser request.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
