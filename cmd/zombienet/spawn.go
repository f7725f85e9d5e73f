package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paritytech/zombienet-go/internal/devnet"
	"github.com/paritytech/zombienet-go/internal/fs"
	"github.com/paritytech/zombienet-go/internal/netconfig"
	"github.com/paritytech/zombienet-go/internal/orchestrator"
	"github.com/paritytech/zombienet-go/internal/output"
	"github.com/paritytech/zombienet-go/internal/paths"
	"github.com/paritytech/zombienet-go/internal/process"
	"github.com/paritytech/zombienet-go/internal/provider"

	// Registered providers: importing for side effect runs each
	// package's init(), which calls provider.Register.
	_ "github.com/paritytech/zombienet-go/internal/provider/docker"
	_ "github.com/paritytech/zombienet-go/internal/provider/kubernetes"
	_ "github.com/paritytech/zombienet-go/internal/provider/native"
)

// namespaceLockWait bounds how long spawn waits for another spawn or
// attach already holding the namespace directory's lock (§5 "Shared
// state").
const namespaceLockWait = 30 * time.Second

func NewSpawnCmd() *cobra.Command {
	var providerName string

	cmd := &cobra.Command{
		Use:   "spawn <config.toml>",
		Short: "Load, validate, and spawn a network, then block until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpawn(args[0], providerName)
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", provider.DefaultProviderName, "backend to run nodes on: native, docker, or kubernetes")

	return cmd
}

func runSpawn(configPath, providerName string) error {
	logger := output.NewLogger()

	cfg, err := netconfig.Load(configPath, logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	backend, err := provider.Get(providerName)
	if err != nil {
		return err
	}

	signals := devnet.NewSignalHandler()
	defer signals.Stop()

	baseDir := cfg.Settings.BaseDir
	if baseDir == "" {
		baseDir = paths.DefaultBaseDir()
	}
	nsLock, err := devnet.AcquireLock(baseDir, "spawn", namespaceLockWait)
	if err != nil {
		return fmt.Errorf("spawn: acquire namespace lock: %w", err)
	}
	defer nsLock.Release()

	orch := orchestrator.New(backend, fs.NewOSFilesystem(), process.NewOSManager())

	handle, err := orch.Spawn(signals.Context(), *cfg)
	if err != nil {
		return fmt.Errorf("spawn: %w", err)
	}

	signals.OnShutdown(func() {
		logger.Info("tearing down namespace %s", handle.Namespace.Name())
		_ = handle.Destroy(context.Background())
		_ = nsLock.Release()
	})

	logger.Success("network %s is up — press Ctrl-C to tear it down", handle.Namespace.Name())
	<-signals.Done()
	return nil
}
