// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/schema"
)

func newFields(g *globalFlags) *cobra.Command {
	var action actionVal
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the data fields of the schema, or of one action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := g.load()
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			id, err := action.resolve(t)
			if err != nil {
				return err
			}
			return writeFields(cmd.OutOrStdout(), t, id)
		},
	}
	cmd.Flags().VarP(&action, "action", "a", "action name or id (default: common fields only)")
	return cmd
}

func writeFields(w io.Writer, t *schema.Table, actionID uint32) error {
	var rows [][]string
	for _, id := range t.FieldIDs(actionID) {
		f, err := t.Lookup(id, actionID)
		if err != nil {
			return err
		}
		rows = append(rows, fieldRow(f))
	}

	table := newTable(w)
	table.SetHeader([]string{"ID", "NAME", "ACTION", "BITS", "OFFSET", "TYPE", "TAGS"})
	table.AppendBulk(rows)
	table.Render()
	return nil
}

func fieldRow(f *specinterfaces.FieldDescriptor) []string {
	names := make([]string, 0, f.Tags.Len())
	for _, t := range f.Tags.Tags() {
		names = append(names, t.String())
	}
	return []string{
		strconv.FormatUint(uint64(f.ID), 10),
		f.Name,
		strconv.FormatUint(uint64(f.ActionID), 10),
		strconv.FormatUint(uint64(f.BitSize), 10),
		strconv.FormatUint(uint64(f.ByteOffset), 10),
		f.Type.String(),
		strings.Join(names, ","),
	}
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}
