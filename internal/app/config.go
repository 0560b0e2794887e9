package app

import (
	"errors"
	"fmt"
)

// Context store backends the app can be configured with.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	FlowsPath string // *.flow.hcl file or directory

	LogFormat string
	LogLevel  string
	AdminPort int

	ContextStore string // memory or sqlite
	ContextDB    string // sqlite file path, when ContextStore is sqlite

	// Injects are "flow.node=payload" directives applied after deployment.
	Injects []string

	// DrainTimeoutSeconds bounds how long Run waits for deliveries and
	// teardown. Zero means the default of 30 seconds.
	DrainTimeoutSeconds int
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.FlowsPath == "" {
		return nil, errors.New("FlowsPath is a required configuration field and cannot be empty")
	}

	switch cfg.ContextStore {
	case "":
		cfg.ContextStore = StoreMemory
	case StoreMemory, StoreSQLite:
	default:
		return nil, fmt.Errorf("unknown context store %q: must be %q or %q", cfg.ContextStore, StoreMemory, StoreSQLite)
	}
	if cfg.ContextStore == StoreSQLite && cfg.ContextDB == "" {
		return nil, errors.New("ContextDB is required when the context store is sqlite")
	}

	if cfg.DrainTimeoutSeconds == 0 {
		cfg.DrainTimeoutSeconds = 30
	}

	return &cfg, nil
}
