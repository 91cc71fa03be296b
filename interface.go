// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package actionspec packs the data fields of a programmable switch table
// entry into the binary action specification consumed by the programming
// backend, and unpacks them again on read.
//
// An action specification is a byte buffer holding the action's parameters
// at the offsets the schema publishes, plus an array of resource slots, one
// per resource table the action touches:
//
//	ActionSpec
//	  Data      [ param a | param b | ... ]   network order, fixed layout
//	  Resources [ {handle, tag, counter} {handle, tag, meter} ... ]
//
// Each field of the schema carries one or more tags; the tag decides where a
// value goes:
//
//	tag                                 | destination
//	------------------------------------+-------------------------------------
//	ACTION_PARAM                        | Data[offset : offset+ceil(bits/8)]
//	ACTION_PARAM_OPTIMIZED_OUT          | zeros written, caller value ignored
//	*_INDEX                             | indirect slot for the tag's table
//	COUNTER_SPEC_*                      | direct slot: bytes / packets
//	METER_SPEC_*                        | direct slot: CIR/PIR with unit, CBS/PBS
//	LPF_SPEC_*                          | direct slot: type, gain/decay, scale
//	WRED_SPEC_*                         | direct slot: thresholds, probability
//	REGISTER_SPEC[_HI|_LO]              | direct slot: single or dual register
//	ACTION_MEMBER_ID, SELECTOR_GROUP_ID | indirect match entries, exclusive
//	TTL, ENTRY_HIT_STATE                | idle-time state (notify / poll only)
//
// Records are the unit callers work with. MatchActionRecord and
// ActionProfileRecord own an ActionSpec; SelectorRecord holds group
// membership; CounterRecord, MeterRecord, LpfRecord, WredRecord and
// RegisterRecord hold a single bare resource payload for indirect resource
// tables.
//
// Every setter validates the value against the field's declared type and
// width before encoding. Records perform no locking: a record must not be
// used from two goroutines at once, but distinct records share nothing and
// may be used concurrently.
package actionspec

import (
	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/spec"
)

type (
	FieldTag          = specinterfaces.FieldTag
	TagSet            = specinterfaces.TagSet
	FieldDescriptor   = specinterfaces.FieldDescriptor
	FieldSchema       = specinterfaces.FieldSchema
	ResourceHandleMap = specinterfaces.ResourceHandleMap
	IdleMode          = specinterfaces.IdleMode
	Record            = specinterfaces.Record
)

type (
	ActionSpec   = spec.ActionSpec
	ActionType   = spec.ActionType
	ResourceSpec = spec.ResourceSpec
	ResourceKind = spec.ResourceKind
	ResourceTag  = spec.ResourceTag
	CounterSpec  = spec.CounterSpec
	MeterSpec    = spec.MeterSpec
	RateValue    = spec.RateValue
	LpfSpec      = spec.LpfSpec
	WredSpec     = spec.WredSpec
	RegisterSpec = spec.RegisterSpec
)

const (
	ActionData          = spec.ActionData
	ActionDataHandle    = spec.ActionDataHandle
	SelectorGroupHandle = spec.SelectorGroupHandle

	KindNone     = spec.KindNone
	KindCounter  = spec.KindCounter
	KindMeter    = spec.KindMeter
	KindLpf      = spec.KindLpf
	KindWred     = spec.KindWred
	KindRegister = spec.KindRegister

	TagNoChange = spec.TagNoChange
	TagAttached = spec.TagAttached
	TagDetached = spec.TagDetached

	IdleDisabled = specinterfaces.IdleDisabled
	IdlePoll     = specinterfaces.IdlePoll
	IdleNotify   = specinterfaces.IdleNotify

	UnitPPS  = spec.UnitPPS
	UnitKBPS = spec.UnitKBPS

	MaxResourcesPerTable = spec.MaxResourcesPerTable
)
