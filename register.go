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

// RegisterRecord is an entry of an indirect register table.
//
// Values read back from hardware carry one instance per pipe and stage
// (AddRegisterToVec). Writes always land on the first instance, and an entry
// add or modify takes exactly one (EncodeSpec).
type RegisterRecord struct {
	recordBase
	data spec.RegisterSpecData
}

var _ Record = &RegisterRecord{}

func NewRegisterRecord(schema FieldSchema, opts ...Option) *RegisterRecord {
	o := buildOptions(opts)
	r := &RegisterRecord{}
	r.recordBase = newRecordBase(schema, nil, &o, r)
	return r
}

// Reset drops every instance
func (r *RegisterRecord) Reset() {
	r.data.Reset()
}

// AddRegisterToVec appends an instance read back from hardware
func (r *RegisterRecord) AddRegisterToVec(reg RegisterSpec) {
	r.data.AddRegisterToVec(reg)
}

// SetFirstRegister replaces the first instance
func (r *RegisterRecord) SetFirstRegister(reg RegisterSpec) {
	r.data.SetFirstRegister(reg)
}

// RegisterSpecs returns a copy of every instance
func (r *RegisterRecord) RegisterSpecs() []RegisterSpec {
	return append([]RegisterSpec(nil), r.data.Specs...)
}

// EncodeSpec returns the single instance to program.
//
// It panics if nothing was ever written, and fails with
// ErrTooManyResourceInstances if read-back instances are still present.
func (r *RegisterRecord) EncodeSpec() (RegisterSpec, error) {
	return r.data.Single()
}

func (r *RegisterRecord) setField(f *specinterfaces.FieldDescriptor, v *fieldValue) error {
	tag := f.Tags.Primary()
	if tags.GroupOf(tag) != tags.GroupRegister {
		return errors.WithFieldError(errors.ErrNotApplicable, f.ID, tag)
	}
	var reg spec.RegisterSpec
	if len(r.data.Specs) != 0 {
		reg = r.data.Specs[0]
	}
	if err := coder.EncodeRegister(&reg, f, tag, v.u64); err != nil {
		return errors.WithFieldError(err, f.ID, tag)
	}
	r.data.SetFirstRegister(reg)
	return nil
}

func (r *RegisterRecord) getField(f *specinterfaces.FieldDescriptor, v *fieldValue) error {
	tag := f.Tags.Primary()
	if tags.GroupOf(tag) != tags.GroupRegister {
		return errors.WithFieldError(errors.ErrNotApplicable, f.ID, tag)
	}

	if v.repr == specinterfaces.ReprScalarArray {
		v.u64s = make([]uint64, 0, len(r.data.Specs))
		for i := range r.data.Specs {
			u, err := coder.DecodeRegister(&r.data.Specs[i], f, tag)
			if err != nil {
				return errors.WithFieldError(err, f.ID, tag)
			}
			v.u64s = append(v.u64s, u)
		}
		return nil
	}

	if len(r.data.Specs) == 0 {
		v.u64 = 0
		return nil
	}
	u, err := coder.DecodeRegister(&r.data.Specs[0], f, tag)
	if err != nil {
		return errors.WithFieldError(err, f.ID, tag)
	}
	v.u64 = u
	return nil
}
