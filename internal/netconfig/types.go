// Package netconfig defines the declarative network configuration (§3,
// §6.1): a relay chain, its parachains, and the HRMP channels between
// them, as loaded from a TOML file.
package netconfig

import (
	"os"
	"strconv"
	"time"
)

// RegistrationStrategy controls how a parachain is introduced to the
// relay chain.
type RegistrationStrategy string

const (
	RegistrationInGenesis      RegistrationStrategy = "in_genesis"
	RegistrationUsingExtrinsic RegistrationStrategy = "using_extrinsic"
	RegistrationManual         RegistrationStrategy = "manual"
)

// Flavor selects a chain-spec-family-specific detail (currently only
// affecting the `aura` keystore prefix's account type, §4.3).
type Flavor string

const (
	FlavorDefault            Flavor = ""
	FlavorAssetHubPolkadot   Flavor = "asset_hub_polkadot"
)

// GlobalSettings carries cross-cutting network options (§3).
type GlobalSettings struct {
	BaseDir               string        `toml:"base_dir"`
	NetworkSpawnTimeout    int           `toml:"network_spawn_timeout"`
	NodeSpawnTimeout       int           `toml:"node_spawn_timeout"`
	ObservabilityEnabled   bool          `toml:"observability_enabled"`
	PrometheusPort         int           `toml:"prometheus_port"`
	GrafanaPort            int           `toml:"grafana_port"`
}

// NetworkSpawnTimeoutDuration returns the configured (or default 3600s)
// network-level spawn timeout as a duration.
func (g GlobalSettings) NetworkSpawnTimeoutDuration() time.Duration {
	if g.NetworkSpawnTimeout <= 0 {
		return 3600 * time.Second
	}
	return time.Duration(g.NetworkSpawnTimeout) * time.Second
}

// NodeSpawnTimeoutDuration returns the configured per-node readiness
// timeout; when unset, ZOMBIE_NODE_SPAWN_TIMEOUT_SECONDS (§6.2) if it
// holds a positive integer, else 600s.
func (g GlobalSettings) NodeSpawnTimeoutDuration() time.Duration {
	if g.NodeSpawnTimeout <= 0 {
		if secs, err := strconv.Atoi(os.Getenv("ZOMBIE_NODE_SPAWN_TIMEOUT_SECONDS")); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
		return 600 * time.Second
	}
	return time.Duration(g.NodeSpawnTimeout) * time.Second
}

// NodeSpec describes a single relay-chain validator or parachain
// collator (§3).
type NodeSpec struct {
	Name            string            `toml:"name"`
	Command         string            `toml:"command"`
	Image           string            `toml:"image"`
	Args            []string          `toml:"args"`
	Env             map[string]string `toml:"env"`
	IsValidator     bool              `toml:"validator"`
	IsBootnode      bool              `toml:"bootnode"`
	IsInvulnerable  bool              `toml:"invulnerable"`
	InitialBalance  string            `toml:"initial_balance"`
	RPCPort         int               `toml:"rpc_port"`
	P2PPort         int               `toml:"p2p_port"`
	PrometheusPort  int               `toml:"prometheus_port"`
	DBSnapshot      string            `toml:"db_snapshot"`
	OverrideEthKey  string            `toml:"override_eth_key"`
}

// HrmpChannel declares a unidirectional message channel between two
// parachains (§3).
type HrmpChannel struct {
	Sender         uint32 `toml:"sender"`
	Recipient      uint32 `toml:"recipient"`
	MaxCapacity    uint32 `toml:"max_capacity"`
	MaxMessageSize uint32 `toml:"max_message_size"`
}

// RelayChainSpec describes the single relay chain of a network (§3).
type RelayChainSpec struct {
	Chain             string            `toml:"chain"`
	DefaultCommand    string            `toml:"default_command"`
	DefaultImage      string            `toml:"default_image"`
	ChainSpecCommand  string            `toml:"chain_spec_command"`
	ChainSpecPath     string            `toml:"chain_spec_path"`
	ChainSpecRuntime  string            `toml:"chain_spec_runtime"`
	RawSpecOverride   map[string]any    `toml:"raw_spec_override"`
	Nodes             []NodeSpec        `toml:"nodes"`
}

// ParachainSpec describes one parachain attached to the relay chain (§3).
type ParachainSpec struct {
	ParaID               uint32               `toml:"id"`
	Chain                string               `toml:"chain"`
	CumulusBased         bool                 `toml:"cumulus_based"`
	EVMBased             bool                 `toml:"evm_based"`
	RegistrationStrategy RegistrationStrategy `toml:"registration_strategy"`
	OnboardAsPara        bool                 `toml:"onboard_as_para"`
	GenesisWASMPath      string               `toml:"genesis_wasm_path"`
	GenesisStatePath     string               `toml:"genesis_state_path"`
	GenesisWASMCommand   string               `toml:"genesis_wasm_command"`
	GenesisStateCommand  string               `toml:"genesis_state_command"`
	WASMOverride         string               `toml:"wasm_override"`
	RawGenesisPatch      map[string]any       `toml:"raw_genesis_patch"`
	Collators            []NodeSpec           `toml:"collators"`

	// UniqueID is assigned by the orchestrator, not read from TOML: the
	// first parachain with a given ParaID gets UniqueID == fmt.Sprint(ParaID);
	// subsequent ones get "<ParaID>-<n>" (§3 invariant).
	UniqueID string `toml:"-"`
}

// NetworkConfig is the full declarative input plan (§3).
type NetworkConfig struct {
	Settings     GlobalSettings  `toml:"settings"`
	RelayChain   RelayChainSpec  `toml:"relaychain"`
	Parachains   []ParachainSpec `toml:"parachains"`
	HrmpChannels []HrmpChannel   `toml:"hrmp_channels"`
}
