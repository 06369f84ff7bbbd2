package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cryptonique0/cecd/app"
	"github.com/cryptonique0/cecd/infra/logger"
	"github.com/cryptonique0/cecd/pkg/snapshot"
)

func newServeCmd(o *rootOptions) *cobra.Command {
	var assetsPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and the metrics endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, o, assetsPath)
		},
	}
	cmd.Flags().StringVarP(&assetsPath, "file", "f", "", "snapshot whose assets seed the registry")
	return cmd
}

func runServe(cmd *cobra.Command, o *rootOptions, assetsPath string) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	if assetsPath != "" {
		snap, err := snapshot.Load(assetsPath)
		if err != nil {
			return fmt.Errorf("load assets: %w", err)
		}
		svc.LoadAssets(snap.Assets)
	}
	return svc.Run(ctx)
}
