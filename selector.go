// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package actionspec

import (
	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/errors"
)

// SelectorRecord is the data of a selector group: its maximum size and its
// members, each with an enabled status.
type SelectorRecord struct {
	recordBase

	maxGroupSize uint32
	members      []uint32
	memberStatus []bool
}

var _ Record = &SelectorRecord{}

// NewSelectorRecord creates a selector group record.
//
// Unless the max group size field is explicitly listed in WithActiveFields,
// the record starts from the schema's default for it. The default goes
// through the normal set path and so is bounds checked.
func NewSelectorRecord(schema FieldSchema, opts ...Option) (*SelectorRecord, error) {
	o := buildOptions(opts)
	r := &SelectorRecord{}
	r.recordBase = newRecordBase(schema, nil, &o, r)

	f := r.maxGroupSizeField()
	if f == nil {
		return r, nil
	}
	for _, id := range o.active {
		if id == f.ID {
			return r, nil
		}
	}

	err := r.set(f.ID, fieldValue{repr: specinterfaces.ReprScalar, u64: f.Default}, false)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SelectorRecord) maxGroupSizeField() *specinterfaces.FieldDescriptor {
	for _, id := range r.schema.FieldIDs(0) {
		f, err := r.schema.Lookup(id, 0)
		if err == nil && f.Tags.Has(specinterfaces.TagMaxGroupSize) {
			return f
		}
	}
	return nil
}

// Reset clears the group size and the member lists
func (r *SelectorRecord) Reset() {
	r.maxGroupSize = 0
	r.members = r.members[:0]
	r.memberStatus = r.memberStatus[:0]
}

func (r *SelectorRecord) setField(f *specinterfaces.FieldDescriptor, v *fieldValue) error {
	tag := f.Tags.Primary()
	switch tag {
	case specinterfaces.TagMaxGroupSize:
		r.maxGroupSize = uint32(v.u64)
	case specinterfaces.TagSelectorMembers:
		r.members = append(r.members[:0], v.ints...)
	case specinterfaces.TagActionMemberStatus:
		r.memberStatus = append(r.memberStatus[:0], v.bools...)
	default:
		return errors.WithFieldError(errors.ErrNotApplicable, f.ID, tag)
	}
	return nil
}

func (r *SelectorRecord) getField(f *specinterfaces.FieldDescriptor, v *fieldValue) error {
	tag := f.Tags.Primary()
	switch tag {
	case specinterfaces.TagMaxGroupSize:
		v.u64 = uint64(r.maxGroupSize)
	case specinterfaces.TagSelectorMembers:
		v.ints = append([]uint32{}, r.members...)
	case specinterfaces.TagActionMemberStatus:
		v.bools = append([]bool{}, r.memberStatus...)
	default:
		return errors.WithFieldError(errors.ErrNotApplicable, f.ID, tag)
	}
	return nil
}
