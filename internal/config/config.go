// Package config loads environment configuration and the tuning file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/frudas24/orbitkeys/internal/hostos"
)

const (
	defaultListenAddr   = "0.0.0.0:8787"
	defaultDataDir      = "./data"
	defaultTuningFile   = "orbitkeys.yaml"
	defaultLogMaxSizeMB = 10
)

// Config holds runtime configuration values.
type Config struct {
	ListenAddr   string
	UIPassword   string
	DataDir      string
	TuningPath   string
	HostOS       hostos.Mode
	LogFile      string
	LogMaxSizeMB int
}

// Load reads configuration from ./data/.env and environment variables.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:   defaultListenAddr,
		DataDir:      defaultDataDir,
		HostOS:       hostos.Auto,
		LogMaxSizeMB: defaultLogMaxSizeMB,
	}

	if err := loadEnvFile(filepath.Join(cfg.DataDir, ".env")); err != nil {
		return Config{}, err
	}

	cfg.ListenAddr = envString("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DataDir = envString("DATA_DIR", cfg.DataDir)
	cfg.TuningPath = envString("TUNING_PATH", filepath.Join(cfg.DataDir, defaultTuningFile))
	cfg.LogFile = envString("LOG_FILE", "")
	cfg.UIPassword = strings.TrimSpace(os.Getenv("UI_PASSWORD"))

	mode, err := hostos.ParseMode(envString("HOST_OS", string(cfg.HostOS)))
	if err != nil {
		return Config{}, fmt.Errorf("HOST_OS: %w", err)
	}
	cfg.HostOS = mode

	maxSize, err := envInt("LOG_MAX_SIZE_MB", cfg.LogMaxSizeMB)
	if err != nil {
		return Config{}, err
	}
	if maxSize <= 0 {
		return Config{}, fmt.Errorf("LOG_MAX_SIZE_MB must be > 0")
	}
	cfg.LogMaxSizeMB = maxSize

	if cfg.UIPassword == "" {
		return Config{}, errors.New("UI_PASSWORD is required")
	}

	return cfg, nil
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// loadEnvFile loads KEY=VALUE pairs from a .env file.
func loadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// parseEnvLine parses a single .env line into key/value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.Trim(strings.TrimSpace(value), `"'`), true
}
