package netconfig

import (
	"fmt"
	"os"

	"github.com/paritytech/zombienet-go/internal/output"
	"github.com/paritytech/zombienet-go/internal/zerrors"
	"github.com/pelletier/go-toml/v2"
)

// knownTopLevelKeys lists the recognized top-level TOML sections, used
// to warn (not fail) on typos the way the teacher's config loader does
// for its flat key set.
var knownTopLevelKeys = map[string]bool{
	"settings":      true,
	"relaychain":    true,
	"parachains":    true,
	"hrmp_channels": true,
}

// Load reads and validates a single TOML configuration file. Unlike the
// teacher's multi-source home/explicit-path merge (built for a
// long-lived CLI's persistent settings), the orchestrator takes exactly
// one file named on the command line.
func Load(path string, logger *output.Logger) (*NetworkConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &zerrors.InvalidConfigError{Path: path, Reason: "config file not found"}
		}
		return nil, &zerrors.InvalidConfigError{Path: path, Reason: fmt.Sprintf("failed to read: %v", err)}
	}

	var cfg NetworkConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, &zerrors.InvalidConfigError{Path: path, Reason: fmt.Sprintf("invalid TOML syntax: %v", err)}
	}

	warnUnknownKeys(data, logger)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func warnUnknownKeys(data []byte, logger *output.Logger) {
	if logger == nil {
		return
	}
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return
	}
	for key := range raw {
		if !knownTopLevelKeys[key] {
			logger.Warn("unknown config key: %s", key)
		}
	}
}
