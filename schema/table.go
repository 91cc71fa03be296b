// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package schema provides an in-memory field schema for a match-action table
// and a loader for schemas described in TOML.
//
// A Table implements both specinterfaces.FieldSchema and
// specinterfaces.ResourceHandleMap. It is built up with AddAction, AddField
// and SetResourceHandle and must not be modified once records use it; from
// then on it is safe for concurrent use.
package schema

import (
	"fmt"
	"slices"

	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/errors"
	"go.e43.eu/actionspec/internal/tags"
)

type FieldDescriptor = specinterfaces.FieldDescriptor
type FieldTag = specinterfaces.FieldTag

// Action describes one action of the table
type Action struct {
	ID   uint32
	Name string

	// Declared size of the action's parameter buffer
	DataBytes uint
	DataBits  uint

	fields map[uint32]*FieldDescriptor
}

// Table is the schema of one table
type Table struct {
	Name string

	common  map[uint32]*FieldDescriptor
	actions map[uint32]*Action

	maxBytes, maxBits uint
	maxSet            bool

	handles map[tags.Group]uint32
}

var (
	_ specinterfaces.FieldSchema       = &Table{}
	_ specinterfaces.ResourceHandleMap = &Table{}
)

// New returns an empty table schema
func New(name string) *Table {
	return &Table{
		Name:    name,
		common:  make(map[uint32]*FieldDescriptor),
		actions: make(map[uint32]*Action),
		handles: make(map[tags.Group]uint32),
	}
}

// AddAction declares action id with a parameter buffer of the given size
func (t *Table) AddAction(id uint32, name string, bytes, bits uint) error {
	if id == 0 {
		return fmt.Errorf("action id 0 is reserved")
	}
	if _, ok := t.actions[id]; ok {
		return fmt.Errorf("duplicate action id %d", id)
	}
	if bits > bytes*8 {
		return fmt.Errorf("action %d: %d bits do not fit in %d bytes", id, bits, bytes)
	}
	t.actions[id] = &Action{
		ID:        id,
		Name:      name,
		DataBytes: bytes,
		DataBits:  bits,
		fields:    make(map[uint32]*FieldDescriptor),
	}
	return nil
}

// AddField publishes f. A field with ActionID 0 is common to every action.
func (t *Table) AddField(f FieldDescriptor) error {
	if f.ID == 0 {
		return fmt.Errorf("field id 0 is reserved")
	}
	if err := tags.Validate(f.Tags); err != nil {
		return fmt.Errorf("field %d: %w", f.ID, err)
	}
	f.Choices = slices.Clone(f.Choices)

	fields := t.common
	if f.ActionID != 0 {
		a, ok := t.actions[f.ActionID]
		if !ok {
			return fmt.Errorf("field %d: %w: %d", f.ID, errors.ErrActionNotFound, f.ActionID)
		}
		if f.Tags.Has(specinterfaces.TagActionParam) && f.ByteOffset+f.ByteSize() > a.DataBytes {
			return fmt.Errorf("field %d: bytes [%d, %d) lie outside the %d byte action data of action %d",
				f.ID, f.ByteOffset, f.ByteOffset+f.ByteSize(), a.DataBytes, a.ID)
		}
		fields = a.fields
	}
	if _, ok := fields[f.ID]; ok {
		return fmt.Errorf("duplicate field id %d for action %d", f.ID, f.ActionID)
	}
	fields[f.ID] = &f
	return nil
}

// SetResourceHandle attaches the resource table with handle hdl. tag may be
// any index or spec tag of the resource kind.
func (t *Table) SetResourceHandle(tag FieldTag, hdl uint32) error {
	g := resourceGroup(tag)
	if g == tags.GroupNone {
		return fmt.Errorf("tag %s does not name a resource", tag)
	}
	t.handles[g] = hdl
	return nil
}

// SetMaxActionDataSize overrides the maximum action data size, which
// otherwise is that of the largest action
func (t *Table) SetMaxActionDataSize(bytes, bits uint) {
	t.maxBytes, t.maxBits, t.maxSet = bytes, bits, true
}

func resourceGroup(tag FieldTag) tags.Group {
	if g := tags.IndexGroup(tag); g != tags.GroupNone {
		return g
	}
	if tags.IsResourceSpec(tag) {
		return tags.GroupOf(tag)
	}
	return tags.GroupNone
}

// Action returns the action with the given id
func (t *Table) Action(id uint32) (*Action, bool) {
	a, ok := t.actions[id]
	return a, ok
}

// ActionByName returns the action named name
func (t *Table) ActionByName(name string) (*Action, bool) {
	for _, a := range t.actions {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// ActionIDs returns every action id in ascending order
func (t *Table) ActionIDs() []uint32 {
	ids := make([]uint32, 0, len(t.actions))
	for id := range t.actions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// FieldByName resolves a field name under actionID, falling back to the
// common fields
func (t *Table) FieldByName(name string, actionID uint32) (*FieldDescriptor, bool) {
	if a, ok := t.actions[actionID]; ok {
		for _, f := range a.fields {
			if f.Name == name {
				return f, true
			}
		}
	}
	for _, f := range t.common {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

func (t *Table) Lookup(fieldID, actionID uint32) (*FieldDescriptor, error) {
	if actionID != 0 {
		a, ok := t.actions[actionID]
		if !ok {
			return nil, errors.ErrActionNotFound
		}
		if f, ok := a.fields[fieldID]; ok {
			return f, nil
		}
	}
	if f, ok := t.common[fieldID]; ok {
		return f, nil
	}
	return nil, errors.ErrFieldNotFound
}

func (t *Table) AllowedStringValues(fieldID, actionID uint32) ([]string, error) {
	f, err := t.Lookup(fieldID, actionID)
	if err != nil {
		return nil, err
	}
	if f.Type != specinterfaces.TypeString {
		return nil, errors.ErrIncompatibleRepresentation
	}
	return slices.Clone(f.Choices), nil
}

func (t *Table) FieldIDs(actionID uint32) []uint32 {
	ids := make([]uint32, 0, len(t.common))
	for id := range t.common {
		ids = append(ids, id)
	}
	if a, ok := t.actions[actionID]; ok && actionID != 0 {
		for id := range a.fields {
			if _, dup := t.common[id]; !dup {
				ids = append(ids, id)
			}
		}
	}
	slices.Sort(ids)
	return ids
}

func (t *Table) ActionDataSize(actionID uint32) (bytes, bits uint, err error) {
	a, ok := t.actions[actionID]
	if !ok {
		return 0, 0, errors.ErrActionNotFound
	}
	return a.DataBytes, a.DataBits, nil
}

func (t *Table) MaxActionDataSize() (bytes, bits uint) {
	if t.maxSet {
		return t.maxBytes, t.maxBits
	}
	for _, a := range t.actions {
		bytes = max(bytes, a.DataBytes)
		bits = max(bits, a.DataBits)
	}
	return bytes, bits
}

func (t *Table) ResourceHdlGet(tag FieldTag) (uint32, error) {
	hdl, ok := t.handles[resourceGroup(tag)]
	if !ok {
		return 0, fmt.Errorf("%w: no resource table attached for %s", errors.ErrNotApplicable, tag)
	}
	return hdl, nil
}
