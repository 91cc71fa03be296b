// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package actionspec

import (
	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/coder"
	"go.e43.eu/actionspec/internal/errors"
	"go.e43.eu/actionspec/internal/spec"
	"go.e43.eu/actionspec/internal/tags"
)

// resourceRecord is the data of an entry of an indirect resource table: one
// bare payload of a fixed kind
type resourceRecord struct {
	recordBase
	res   spec.ResourceSpec
	kind  spec.ResourceKind
	group tags.Group
}

func (r *resourceRecord) init(schema FieldSchema, opts []Option, h fieldHandler, kind spec.ResourceKind, group tags.Group) {
	o := buildOptions(opts)
	r.recordBase = newRecordBase(schema, nil, &o, h)
	r.kind = kind
	r.group = group
	r.res.Kind = kind
}

// Reset zeroes the payload
func (r *resourceRecord) Reset() {
	r.res.ResetPayload()
	r.res.Kind = r.kind
}

func (r *resourceRecord) setField(f *specinterfaces.FieldDescriptor, v *fieldValue) error {
	res := r.res
	for _, tag := range f.Tags.Tags() {
		if tags.GroupOf(tag) != r.group {
			return errors.WithFieldError(errors.ErrNotApplicable, f.ID, tag)
		}
		if err := r.coder.Encode(&res, f, tag, v.coderValue()); err != nil {
			return err
		}
	}
	r.res = res
	return nil
}

func (r *resourceRecord) getField(f *specinterfaces.FieldDescriptor, v *fieldValue) error {
	tag := f.Tags.Primary()
	if tags.GroupOf(tag) != r.group {
		return errors.WithFieldError(errors.ErrNotApplicable, f.ID, tag)
	}
	cv, err := r.coder.Decode(&r.res, f, tag)
	if err != nil {
		return err
	}
	v.setCoderValue(cv)
	return nil
}

// CounterRecord is an entry of an indirect counter table
type CounterRecord struct {
	resourceRecord
}

var _ Record = &CounterRecord{}

func NewCounterRecord(schema FieldSchema, opts ...Option) *CounterRecord {
	r := &CounterRecord{}
	r.init(schema, opts, r, spec.KindCounter, tags.GroupCounter)
	return r
}

// CounterSpec returns the encoded counter payload
func (r *CounterRecord) CounterSpec() CounterSpec {
	return r.res.Counter
}

// SetCounterSpec loads a counter payload read back from hardware
func (r *CounterRecord) SetCounterSpec(c CounterSpec) {
	r.res.Counter = c
}

// MeterRecord is an entry of an indirect meter table
type MeterRecord struct {
	resourceRecord
}

var _ Record = &MeterRecord{}

func NewMeterRecord(schema FieldSchema, opts ...Option) *MeterRecord {
	r := &MeterRecord{}
	r.init(schema, opts, r, spec.KindMeter, tags.GroupMeter)
	return r
}

// MeterSpec returns the encoded meter payload
func (r *MeterRecord) MeterSpec() MeterSpec {
	return r.res.Meter
}

// SetMeterDataFromMeterSpec loads a meter payload read back from hardware.
// Both rates must be in the same unit; it panics otherwise.
func (r *MeterRecord) SetMeterDataFromMeterSpec(m MeterSpec) {
	coder.CheckMeterUnits(&m)
	r.res.Meter = m
}

// LpfRecord is an entry of an indirect LPF table
type LpfRecord struct {
	resourceRecord
}

var _ Record = &LpfRecord{}

func NewLpfRecord(schema FieldSchema, opts ...Option) *LpfRecord {
	r := &LpfRecord{}
	r.init(schema, opts, r, spec.KindLpf, tags.GroupLpf)
	return r
}

// LpfSpec returns the encoded LPF payload
func (r *LpfRecord) LpfSpec() LpfSpec {
	return r.res.Lpf
}

// SetLpfSpec loads an LPF payload read back from hardware
func (r *LpfRecord) SetLpfSpec(l LpfSpec) {
	r.res.Lpf = l
}

// WredRecord is an entry of an indirect WRED table
type WredRecord struct {
	resourceRecord
}

var _ Record = &WredRecord{}

func NewWredRecord(schema FieldSchema, opts ...Option) *WredRecord {
	r := &WredRecord{}
	r.init(schema, opts, r, spec.KindWred, tags.GroupWred)
	return r
}

// WredSpec returns the encoded WRED payload
func (r *WredRecord) WredSpec() WredSpec {
	return r.res.Wred
}

// SetWredSpec loads a WRED payload read back from hardware
func (r *WredRecord) SetWredSpec(w WredSpec) {
	r.res.Wred = w
}
