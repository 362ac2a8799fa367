package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// RunConfig is the optional JSON override file layer on top of flags,
// following the teacher's internal/app.Config shape (a JSON-tagged struct
// loaded with encoding/json) scaled down to what this harness actually uses.
type RunConfig struct {
	WindowScale int     `json:"window_scale"`
	ROM         string  `json:"rom"`
	StartPC     *uint16 `json:"start_pc,omitempty"`
}

// defaultRunConfig mirrors the flag defaults so a partially-specified JSON
// file only overrides the fields it sets.
func defaultRunConfig() RunConfig {
	return RunConfig{WindowScale: 3}
}

// loadRunConfig reads and merges a JSON override file onto the defaults.
// An empty path is not an error: it simply means no override is in effect.
func loadRunConfig(path string) (RunConfig, error) {
	cfg := defaultRunConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.WindowScale <= 0 {
		cfg.WindowScale = 3
	}
	return cfg, nil
}
