// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"go.e43.eu/actionspec"
	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/schema"
)

type encodeFlags struct {
	action   actionVal
	idleMode idleModeVal
	indirect bool
	sets     assignmentsVal
}

func newEncode(g *globalFlags) *cobra.Command {
	var flags encodeFlags
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode field values into an action spec",
		Example: `  actionspec encode -s fwd.toml -a forward --set port=3 --set '$COUNTER_SPEC_BYTES=1500'
  actionspec encode -s fwd.toml --indirect --set '$ACTION_MEMBER_ID=7'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := g.load()
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return runEncode(cmd.OutOrStdout(), t, &flags)
		},
	}
	cmd.Flags().VarP(&flags.action, "action", "a", "action name or id")
	cmd.Flags().Var(&flags.idleMode, "idle-mode", "idle time mode of the table: disabled, poll or notify")
	cmd.Flags().BoolVar(&flags.indirect, "indirect", false, "encode an entry of an indirect match table")
	cmd.Flags().VarP(&flags.sets, "set", "f", "field assignment, by field name or id (repeatable)")
	return cmd
}

func runEncode(w io.Writer, t *schema.Table, flags *encodeFlags) error {
	actionID, err := flags.action.resolve(t)
	if err != nil {
		return err
	}

	newRecord := actionspec.NewMatchActionRecord
	if flags.indirect {
		newRecord = actionspec.NewMatchActionIndirectRecord
	}
	rec, err := newRecord(t, t, actionID, actionspec.WithIdleMode(actionspec.IdleMode(flags.idleMode)))
	if err != nil {
		return err
	}

	for _, a := range flags.sets {
		f, err := resolveField(t, a.field, actionID)
		if err != nil {
			return err
		}
		if err := setField(rec, f, a.value); err != nil {
			return fmt.Errorf("%s=%s: %w", a.field, a.value, err)
		}
	}

	return writeActionSpec(w, rec.ActionSpec())
}

func resolveField(t *schema.Table, name string, actionID uint32) (*specinterfaces.FieldDescriptor, error) {
	if f, ok := t.FieldByName(name, actionID); ok {
		return f, nil
	}
	id, err := strconv.ParseUint(name, 0, 32)
	if err != nil {
		return nil, fmt.Errorf("unknown field '%s'", name)
	}
	return t.Lookup(uint32(id), actionID)
}

// setField parses s according to the field's declared type and stores it
func setField(rec *actionspec.MatchActionRecord, f *specinterfaces.FieldDescriptor, s string) error {
	switch f.Type {
	case specinterfaces.TypeUint64:
		v, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return err
		}
		return rec.SetValue(f.ID, v)

	case specinterfaces.TypeBytes:
		b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return err
		}
		return rec.SetValueBytes(f.ID, b)

	case specinterfaces.TypeFloat:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return err
		}
		return rec.SetValueFloat(f.ID, float32(v))

	case specinterfaces.TypeBool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		return rec.SetValueBool(f.ID, v)

	case specinterfaces.TypeString:
		return rec.SetValueString(f.ID, s)

	case specinterfaces.TypeIntArray:
		var ids []uint32
		for _, p := range strings.Split(s, ",") {
			v, err := strconv.ParseUint(strings.TrimSpace(p), 0, 32)
			if err != nil {
				return err
			}
			ids = append(ids, uint32(v))
		}
		return rec.SetValueIntArray(f.ID, ids)

	default:
		return fmt.Errorf("fields of type %s cannot be set from the command line", f.Type)
	}
}

func writeActionSpec(w io.Writer, as *actionspec.ActionSpec) error {
	fmt.Fprintf(w, "type:        %s\n", as.Type)
	fmt.Fprintf(w, "action data: %s (%d bits)\n", formatData(as.Data), as.BitLen)
	fmt.Fprintf(w, "resources:   %d direct, %d indirect\n\n", as.DirectCount, as.IndirectCount)
	if len(as.Resources) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(as.Resources))
	for i := range as.Resources {
		r := &as.Resources[i]
		mode := "indirect"
		if r.Direct {
			mode = "direct"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%#x", r.TableHandle),
			r.Tag.String(),
			mode,
			strconv.FormatUint(uint64(r.Index), 10),
			r.Kind.String(),
			payloadString(r),
		})
	}

	table := newTable(w)
	table.SetHeader([]string{"HANDLE", "TAG", "MODE", "INDEX", "KIND", "PAYLOAD"})
	table.AppendBulk(rows)
	table.Render()
	return nil
}

func formatData(b []byte) string {
	if len(b) == 0 {
		return "-"
	}
	return "0x" + hex.EncodeToString(b)
}

func payloadString(r *actionspec.ResourceSpec) string {
	switch r.Kind {
	case actionspec.KindCounter:
		return fmt.Sprintf("%+v", r.Counter)
	case actionspec.KindMeter:
		return fmt.Sprintf("%+v", r.Meter)
	case actionspec.KindLpf:
		return fmt.Sprintf("%+v", r.Lpf)
	case actionspec.KindWred:
		return fmt.Sprintf("%+v", r.Wred)
	case actionspec.KindRegister:
		return fmt.Sprintf("%+v", r.Register)
	default:
		return ""
	}
}
