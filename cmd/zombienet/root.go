package main

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zombienet",
		Short: "Spawn and manage a local multi-node blockchain testnet",
		Long: `zombienet spawns a relay chain and its parachains from a single
TOML network definition: validator/collator identities, chain specs,
parachain genesis artifacts, and (when requested) on-chain parachain
registration, all running as native processes, Docker containers, or
Kubernetes pods.

Example:
  zombienet spawn network.toml --provider native`,
	}

	cmd.AddCommand(
		NewSpawnCmd(),
		NewAttachCmd(),
		NewKeysCmd(),
	)

	return cmd
}
