package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paritytech/zombienet-go/internal/devnet"
	"github.com/paritytech/zombienet-go/internal/fs"
	"github.com/paritytech/zombienet-go/internal/orchestrator"
	"github.com/paritytech/zombienet-go/internal/output"
	"github.com/paritytech/zombienet-go/internal/paths"
	"github.com/paritytech/zombienet-go/internal/provider"

	_ "github.com/paritytech/zombienet-go/internal/provider/docker"
	_ "github.com/paritytech/zombienet-go/internal/provider/kubernetes"
	_ "github.com/paritytech/zombienet-go/internal/provider/native"
)

func NewAttachCmd() *cobra.Command {
	var providerName, baseDir string

	cmd := &cobra.Command{
		Use:   "attach <namespace>",
		Short: "Reattach to a network spawned by an earlier, still-running `spawn`",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttach(args[0], providerName, baseDir)
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", provider.DefaultProviderName, "backend the namespace was spawned on")
	cmd.Flags().StringVar(&baseDir, "base-dir", paths.DefaultBaseDir(), "directory namespaces are created under")

	return cmd
}

func runAttach(namespaceName, providerName, baseDir string) error {
	logger := output.NewLogger()
	filesystem := fs.NewOSFilesystem()

	backend, err := provider.Get(providerName)
	if err != nil {
		return err
	}

	// A namespace only appears here if this same process created it —
	// none of the three providers persist enough state on disk to
	// rediscover a namespace's running nodes from a fresh process
	// (Kubernetes comes closest, since `kubectl get pods` could in
	// principle repopulate it, but internal/provider/kubernetes doesn't
	// implement that rediscovery yet). `attach` is therefore mainly
	// useful for reattaching within a long-lived supervisor that called
	// orchestrator.Spawn directly.
	ns, ok := backend.Namespaces()[namespaceName]
	if !ok {
		return fmt.Errorf("attach: namespace %q is not tracked by a live %q provider in this process", namespaceName, providerName)
	}

	nsLock, err := devnet.AcquireLock(baseDir, "attach", namespaceLockWait)
	if err != nil {
		return fmt.Errorf("attach: acquire namespace lock: %w", err)
	}
	defer nsLock.Release()

	recordBytes, err := filesystem.ReadFile(context.Background(), paths.ZombieJSONPath(baseDir, namespaceName))
	if err != nil {
		return fmt.Errorf("attach: read zombie.json: %w", err)
	}

	handle, err := orchestrator.AttachToLive(ns, recordBytes)
	if err != nil {
		return err
	}

	signals := devnet.NewSignalHandler()
	defer signals.Stop()
	signals.OnShutdown(func() {
		logger.Info("tearing down namespace %s", handle.Namespace.Name())
		_ = handle.Destroy(context.Background())
		_ = nsLock.Release()
	})

	logger.Success("attached to network %s (%d relay node(s)) — press Ctrl-C to tear it down", namespaceName, len(handle.Nodes()))
	<-signals.Done()
	return nil
}
