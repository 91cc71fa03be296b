// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package actionspec

import (
	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/errors"
)

// ActionProfileRecord is the data of an action profile member: an action
// with its parameters and the indirect resources it uses.
//
// The resource indices set on the member are remembered per tag so that a
// match entry added later against this member can recover them.
type ActionProfileRecord struct {
	actionData
	resourceMap map[FieldTag]uint32
}

var _ Record = &ActionProfileRecord{}

// NewActionProfileRecord creates a member record for actionID
func NewActionProfileRecord(schema FieldSchema, handles ResourceHandleMap, actionID uint32, opts ...Option) (*ActionProfileRecord, error) {
	o := buildOptions(opts)
	r := &ActionProfileRecord{
		resourceMap: make(map[FieldTag]uint32),
	}
	r.recordBase = newRecordBase(schema, handles, &o, r)
	r.onIndex = func(tag FieldTag, idx uint32) {
		r.resourceMap[tag] = idx
	}
	if err := r.resetActionData(actionID); err != nil {
		return nil, err
	}
	return r, nil
}

// ResetAction moves the record onto action id, clearing all data
func (r *ActionProfileRecord) ResetAction(id uint32) error {
	if err := r.resetActionData(id); err != nil {
		return err
	}
	clear(r.resourceMap)
	return nil
}

// Reset clears all data, keeping the record's action
func (r *ActionProfileRecord) Reset() {
	_ = r.resetActionData(r.actionID)
	clear(r.resourceMap)
}

// ResourceIndex returns the indirect resource index set under tag
func (r *ActionProfileRecord) ResourceIndex(tag FieldTag) (uint32, bool) {
	idx, ok := r.resourceMap[tag]
	return idx, ok
}

// ResourceMap returns a copy of every indirect resource index set on the
// member, by resource index tag
func (r *ActionProfileRecord) ResourceMap() map[FieldTag]uint32 {
	m := make(map[FieldTag]uint32, len(r.resourceMap))
	for k, v := range r.resourceMap {
		m[k] = v
	}
	return m
}

func (r *ActionProfileRecord) setField(f *specinterfaces.FieldDescriptor, v *fieldValue) error {
	for _, tag := range f.Tags.Tags() {
		handled, err := r.setActionTag(f, tag, v)
		if !handled {
			err = errors.ErrNotApplicable
		}
		if err != nil {
			return errors.WithFieldError(err, f.ID, tag)
		}
	}
	return nil
}

func (r *ActionProfileRecord) getField(f *specinterfaces.FieldDescriptor, v *fieldValue) error {
	tag := f.Tags.Primary()
	handled, err := r.getActionTag(f, tag, v)
	if !handled {
		err = errors.ErrNotApplicable
	}
	return errors.WithFieldError(err, f.ID, tag)
}
