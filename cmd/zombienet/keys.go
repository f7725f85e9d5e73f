package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paritytech/zombienet-go/internal/fs"
	"github.com/paritytech/zombienet-go/internal/generator"
	"github.com/paritytech/zombienet-go/internal/output"
)

// zombieRecord mirrors orchestrator's on-disk zombie.json shape just
// enough to recover node names — keys are deterministic from a node's
// name alone (§4.3's seed = "//" + name), so nothing else is needed to
// re-derive them. Parachains are keyed by UniqueID (§3), but this command
// only needs the collator names, not which parachain they belong to.
type zombieRecord struct {
	RelayNode []string `json:"relay_nodes"`
	Parachain map[string]struct {
		Collators []string `json:"collators"`
	} `json:"parachains"`
}

func NewKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys <zombie.json>",
		Short: "Print every node's derived sr/ed/ec account keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(args[0])
		},
	}
	return cmd
}

func runKeys(zombieJSONPath string) error {
	logger := output.NewLogger()
	filesystem := fs.NewOSFilesystem()

	data, err := filesystem.ReadFile(context.Background(), zombieJSONPath)
	if err != nil {
		return fmt.Errorf("keys: read %s: %w", zombieJSONPath, err)
	}

	rec, err := parseZombieRecord(data)
	if err != nil {
		return err
	}

	names := append([]string{}, rec.RelayNode...)
	for _, para := range rec.Parachain {
		names = append(names, para.Collators...)
	}

	for _, name := range names {
		accounts, err := generator.GenerateKeys("//" + name)
		if err != nil {
			logger.Warn("failed to derive keys for %s: %v", name, err)
			continue
		}
		logger.Bold("%s", name)
		logger.Print("  sr: %s  (%s)", accounts.SR.SS58, accounts.SR.PublicHex)
		logger.Print("  ed: %s  (%s)", accounts.ED.SS58, accounts.ED.PublicHex)
		logger.Print("  ec: %s  (%s)", accounts.EC.SS58, accounts.EC.PublicHex)
	}

	return nil
}

func parseZombieRecord(data []byte) (*zombieRecord, error) {
	var rec zombieRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("keys: parse zombie.json: %w", err)
	}
	return &rec, nil
}
