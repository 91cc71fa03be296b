// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package specinterfaces defines the boundary between the action spec codec
// and its collaborators: the field schema, the resource handle map, and the
// records callers hold.
//
// (This package is primarily separated out in order to permit the implementation to
// be broken down into multiple packages)
package specinterfaces

// interface FieldSchema is the table's data field registry.
//
// Lookups for an action fall back to the table's common fields (those
// published with action id 0), so identity fields such as TTL or
// ACTION_MEMBER_ID resolve for any action.
type FieldSchema interface {
	// Lookup returns the descriptor for fieldID under actionID
	Lookup(fieldID, actionID uint32) (*FieldDescriptor, error)

	// AllowedStringValues returns the permitted values of a string field
	AllowedStringValues(fieldID, actionID uint32) ([]string, error)

	// FieldIDs returns the ids of every field valid for actionID, including
	// the common fields, in ascending order
	FieldIDs(actionID uint32) []uint32

	// ActionDataSize returns the declared action data size of actionID
	ActionDataSize(actionID uint32) (bytes, bits uint, err error)

	// MaxActionDataSize returns the largest action data size of any action
	// of the table
	MaxActionDataSize() (bytes, bits uint)
}

// interface ResourceHandleMap maps a resource tag to the handle of the
// resource table it is attached to
type ResourceHandleMap interface {
	ResourceHdlGet(tag FieldTag) (uint32, error)
}

// IdleMode is the idle-time mode of a match table
type IdleMode uint8

const (
	IdleDisabled IdleMode = iota
	// Hit state is polled; ENTRY_HIT_STATE is accessible
	IdlePoll
	// Expiry is notified; TTL is accessible
	IdleNotify
)

func (m IdleMode) String() string {
	switch m {
	case IdlePoll:
		return "poll"
	case IdleNotify:
		return "notify"
	default:
		return "disabled"
	}
}

// interface Record is the part of the record API shared by every table data
// record kind
type Record interface {
	// SetValue stores a scalar into the field
	SetValue(fieldID uint32, v uint64) error

	// SetValueBytes stores a network order byte array into the field
	SetValueBytes(fieldID uint32, b []byte) error

	// GetValue reads the field as a scalar
	GetValue(fieldID uint32) (uint64, error)

	// GetValueBytes reads the field as a network order byte array of
	// length size
	GetValueBytes(fieldID uint32, size int) ([]byte, error)

	// Reset returns the record to its freshly constructed state
	Reset()
}
