// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"go.e43.eu/actionspec"
	"go.e43.eu/actionspec/schema"
)

// actionVal is an action given by name or id
type actionVal string

var _ pflag.Value = (*actionVal)(nil)

func (v *actionVal) Set(val string) error {
	*v = actionVal(val)
	return nil
}

func (v *actionVal) Type() string   { return "action" }
func (v *actionVal) String() string { return string(*v) }

func (v *actionVal) resolve(t *schema.Table) (uint32, error) {
	if *v == "" {
		return 0, nil
	}
	if a, ok := t.ActionByName(string(*v)); ok {
		return a.ID, nil
	}
	id, err := strconv.ParseUint(string(*v), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown action '%s'", string(*v))
	}
	if _, ok := t.Action(uint32(id)); !ok {
		return 0, fmt.Errorf("unknown action %d", id)
	}
	return uint32(id), nil
}

type idleModeVal actionspec.IdleMode

var _ pflag.Value = (*idleModeVal)(nil)

func (v *idleModeVal) Set(val string) error {
	for _, m := range []actionspec.IdleMode{
		actionspec.IdleDisabled,
		actionspec.IdlePoll,
		actionspec.IdleNotify,
	} {
		if m.String() == val {
			*v = idleModeVal(m)
			return nil
		}
	}
	return fmt.Errorf("idle mode must be one of disabled, poll, notify")
}

func (v *idleModeVal) Type() string   { return "idle-mode" }
func (v *idleModeVal) String() string { return actionspec.IdleMode(*v).String() }

// assignment is one field=value pair
type assignment struct {
	field string
	value string
}

// assignmentsVal collects repeated field=value flags in order
type assignmentsVal []assignment

var _ pflag.Value = (*assignmentsVal)(nil)

func (v *assignmentsVal) Set(val string) error {
	field, value, ok := strings.Cut(val, "=")
	if !ok || field == "" {
		return fmt.Errorf("expected field=value, got '%s'", val)
	}
	*v = append(*v, assignment{field: field, value: value})
	return nil
}

func (v *assignmentsVal) Type() string { return "field=value" }

func (v *assignmentsVal) String() string {
	parts := make([]string, 0, len(*v))
	for _, a := range *v {
		parts = append(parts, a.field+"="+a.value)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
