// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package spec

import (
	"fmt"

	"go.e43.eu/actionspec/internal/errors"
)

// ResourceKind discriminates the payload arms of a ResourceSpec
type ResourceKind uint8

const (
	// Slot allocated but not yet written by any codec
	KindNone ResourceKind = iota
	KindCounter
	KindMeter
	KindLpf
	KindWred
	KindRegister
)

func (k ResourceKind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindMeter:
		return "meter"
	case KindLpf:
		return "lpf"
	case KindWred:
		return "wred"
	case KindRegister:
		return "register"
	default:
		return "none"
	}
}

// ResourceTag tells the programming backend what to do with the resource
// attached to the entry
type ResourceTag uint8

const (
	TagNoChange ResourceTag = iota
	TagAttached
	TagDetached
)

func (t ResourceTag) String() string {
	switch t {
	case TagAttached:
		return "attached"
	case TagDetached:
		return "detached"
	default:
		return "no-change"
	}
}

type CounterSpec struct {
	Bytes   uint64
	Packets uint64
}

// RateUnit qualifies a meter rate
type RateUnit uint8

const (
	UnitPPS RateUnit = iota
	UnitKBPS
)

func (u RateUnit) String() string {
	if u == UnitKBPS {
		return "kbps"
	}
	return "pps"
}

type RateValue struct {
	Unit  RateUnit
	Value uint64
}

// MeterSpec is a two-rate meter. Burst sizes carry no unit of their own:
// they are packets or kilobits according to the rate units.
type MeterSpec struct {
	CIR    RateValue
	PIR    RateValue
	CBurst uint64
	PBurst uint64
}

// LpfSpec is a low pass filter. When GainDecaySeparate is false the hardware
// uses TimeConstant for both gain and decay.
type LpfSpec struct {
	RateEnable            bool
	GainDecaySeparate     bool
	TimeConstant          float32
	GainTimeConstant      float32
	DecayTimeConstant     float32
	OutputScaleDownFactor uint32
}

type WredSpec struct {
	MinThreshold   uint32
	MaxThreshold   uint32
	TimeConstant   float32
	MaxProbability float32
}

// RegisterSpec is one register instance. A single value is held in Lo; a
// dual instance holds both halves. Width 64 is always dual, split into two
// 32-bit halves.
type RegisterSpec struct {
	Width uint8
	Dual  bool
	Lo    uint32
	Hi    uint32
}

// ResourceSpec is one resource slot of an action spec: the table it belongs
// to, what to do with it, and a payload selected by Kind.
//
// Only the arm named by Kind is meaningful. Arms are plain values so that
// copying a ResourceSpec copies its payload.
type ResourceSpec struct {
	TableHandle uint32
	Tag         ResourceTag
	Direct      bool
	// Entry index in an indirect resource table
	Index uint32

	Kind     ResourceKind
	Counter  CounterSpec
	Meter    MeterSpec
	Lpf      LpfSpec
	Wred     WredSpec
	Register RegisterSpec
}

// bind claims the slot for kind k. An unwritten slot takes any kind.
func (r *ResourceSpec) bind(k ResourceKind) error {
	switch r.Kind {
	case k:
		return nil
	case KindNone:
		r.Kind = k
		return nil
	default:
		return fmt.Errorf("%w: slot %#x holds %s, not %s",
			errors.ErrPayloadKindMismatch, r.TableHandle, r.Kind, k)
	}
}

// Check reports whether the slot may be read as kind k. An unwritten slot
// reads as the zero value of any kind.
func (r *ResourceSpec) Check(k ResourceKind) error {
	if r.Kind != k && r.Kind != KindNone {
		return fmt.Errorf("%w: slot %#x holds %s, not %s",
			errors.ErrPayloadKindMismatch, r.TableHandle, r.Kind, k)
	}
	return nil
}

// CounterSpec returns the counter arm, binding an unwritten slot to it
func (r *ResourceSpec) CounterSpec() (*CounterSpec, error) {
	if err := r.bind(KindCounter); err != nil {
		return nil, err
	}
	return &r.Counter, nil
}

// MeterSpec returns the meter arm, binding an unwritten slot to it
func (r *ResourceSpec) MeterSpec() (*MeterSpec, error) {
	if err := r.bind(KindMeter); err != nil {
		return nil, err
	}
	return &r.Meter, nil
}

// LpfSpec returns the LPF arm, binding an unwritten slot to it
func (r *ResourceSpec) LpfSpec() (*LpfSpec, error) {
	if err := r.bind(KindLpf); err != nil {
		return nil, err
	}
	return &r.Lpf, nil
}

// WredSpec returns the WRED arm, binding an unwritten slot to it
func (r *ResourceSpec) WredSpec() (*WredSpec, error) {
	if err := r.bind(KindWred); err != nil {
		return nil, err
	}
	return &r.Wred, nil
}

// RegisterSpec returns the register arm, binding an unwritten slot to it
func (r *ResourceSpec) RegisterSpec() (*RegisterSpec, error) {
	if err := r.bind(KindRegister); err != nil {
		return nil, err
	}
	return &r.Register, nil
}

// ResetPayload zeroes every payload arm and unbinds the slot, keeping its
// handle, tag and index
func (r *ResourceSpec) ResetPayload() {
	r.Kind = KindNone
	r.Counter = CounterSpec{}
	r.Meter = MeterSpec{}
	r.Lpf = LpfSpec{}
	r.Wred = WredSpec{}
	r.Register = RegisterSpec{}
}
