// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Command actionspec encodes action data against a TOML table schema and
// shows the resulting action buffer and resource slots.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.e43.eu/actionspec"
	"go.e43.eu/actionspec/schema"
)

type globalFlags struct {
	schemaPath string
	verbose    bool
}

func (g *globalFlags) load() (*schema.Table, error) {
	if g.schemaPath == "" {
		return nil, fmt.Errorf("--schema is required")
	}
	return schema.Load(g.schemaPath)
}

func (g *globalFlags) setupLogging() error {
	if !g.verbose {
		return nil
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	actionspec.SetLogger(l)
	return nil
}

func newRoot() *cobra.Command {
	var g globalFlags
	cmd := &cobra.Command{
		Use:   filepath.Base(os.Args[0]),
		Short: "Encode match-action table data against a schema",
		Args:  cobra.NoArgs,
		// Errors are printed by main
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setupLogging()
		},
	}
	cmd.PersistentFlags().StringVarP(&g.schemaPath, "schema", "s", "", "TOML table schema")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log record operations to stderr")

	cmd.AddCommand(
		newFields(&g),
		newEncode(&g),
	)
	return cmd
}

func main() {
	cmd := newRoot()
	err := cmd.Execute()
	_ = actionspec.Logger().Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
