// Package cmd implements the cecd command line.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cryptonique0/cecd/config"
)

type rootOptions struct {
	cfgPath string
}

// loadConfig reads the configuration file, or returns the defaults when no
// file was given.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.cfgPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// NewRootCmd builds the command tree. Running it without a subcommand
// serves the API.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}
	root := &cobra.Command{
		Use:          "cecd",
		Short:        "Dispatch and readiness coordination engine",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, o, "")
		},
	}
	root.PersistentFlags().StringVarP(&o.cfgPath, "config", "c", "", "configuration file (yaml or json)")
	root.AddCommand(
		newServeCmd(o),
		newSuggestCmd(o),
		newPlaybookCmd(o),
		newReadinessCmd(o),
		newAnomaliesCmd(o),
		newForecastCmd(o),
		newTrustCmd(o),
	)
	return root
}

// Execute runs the CLI.
func Execute() error { return NewRootCmd().Execute() }
