// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package spec

import (
	"go.e43.eu/actionspec/internal/errors"
)

// MaxResourcesPerTable bounds the number of resource slots of an action spec
const MaxResourcesPerTable = 8

// ActionType says what the action data of an entry refers to
type ActionType uint8

const (
	// Inline action parameters
	ActionData ActionType = iota
	// An action profile member
	ActionDataHandle
	// A selector group
	SelectorGroupHandle
)

func (t ActionType) String() string {
	switch t {
	case ActionDataHandle:
		return "action-data-handle"
	case SelectorGroupHandle:
		return "selector-group-handle"
	default:
		return "action-data"
	}
}

// ActionSpec is the binary action specification of one entry: the action
// parameter buffer plus the resources attached to the action
type ActionSpec struct {
	Data   []byte
	BitLen uint

	Resources     []ResourceSpec
	DirectCount   int
	IndirectCount int

	Type ActionType
}

// New allocates a zeroed action spec with a data buffer of size bytes
func New(size, bitLen uint) *ActionSpec {
	return &ActionSpec{
		Data:      make([]byte, size),
		BitLen:    bitLen,
		Resources: make([]ResourceSpec, 0, MaxResourcesPerTable),
	}
}

// Reset zeroes the data buffer in place and drops every resource slot. The
// buffer keeps its allocation.
func (a *ActionSpec) Reset() {
	for i := range a.Data {
		a.Data[i] = 0
	}
	a.Resources = a.Resources[:0]
	a.DirectCount = 0
	a.IndirectCount = 0
	a.Type = ActionData
}

// Find returns the slot for the resource table hdl, or nil if none is
// attached
func (a *ActionSpec) Find(hdl uint32) *ResourceSpec {
	for i := range a.Resources {
		if a.Resources[i].TableHandle == hdl {
			return &a.Resources[i]
		}
	}
	return nil
}

// FindOrAllocate returns the slot for hdl, appending a zeroed one (and
// counting it as direct or indirect) if there is none yet.
//
// The returned pointer is valid until the next allocation.
func (a *ActionSpec) FindOrAllocate(hdl uint32, direct bool) (*ResourceSpec, error) {
	if r := a.Find(hdl); r != nil {
		return r, nil
	}

	if len(a.Resources) >= MaxResourcesPerTable {
		return nil, errors.ErrTooManyResources
	}

	a.Resources = append(a.Resources, ResourceSpec{TableHandle: hdl, Direct: direct})
	if direct {
		a.DirectCount++
	} else {
		a.IndirectCount++
	}
	return &a.Resources[len(a.Resources)-1], nil
}

// Clone returns a deep copy of a
func (a *ActionSpec) Clone() *ActionSpec {
	c := &ActionSpec{}
	a.CopyTo(c)
	return c
}

// CopyTo makes dst a deep copy of a, reusing dst's buffers where they are
// large enough
func (a *ActionSpec) CopyTo(dst *ActionSpec) {
	dst.Data = append(dst.Data[:0], a.Data...)
	if dst.Data == nil {
		dst.Data = []byte{}
	}
	dst.BitLen = a.BitLen

	if cap(dst.Resources) < MaxResourcesPerTable {
		dst.Resources = make([]ResourceSpec, 0, MaxResourcesPerTable)
	}
	dst.Resources = append(dst.Resources[:0], a.Resources...)
	dst.DirectCount = a.DirectCount
	dst.IndirectCount = a.IndirectCount
	dst.Type = a.Type
}
