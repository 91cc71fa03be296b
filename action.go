// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package actionspec

import (
	"math"

	"go.uber.org/zap"

	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/coder"
	"go.e43.eu/actionspec/internal/errors"
	"go.e43.eu/actionspec/internal/spec"
	"go.e43.eu/actionspec/internal/tags"
)

// actionData is the part of a record which owns an action spec: action
// parameters, resource indices and direct resources
type actionData struct {
	recordBase
	spec *spec.ActionSpec

	// called after an indirect resource index is attached
	onIndex func(tag FieldTag, idx uint32)
}

// resetActionData moves the record onto action id.
//
//   - id 0 (no action): a fresh buffer of the table's maximum size
//   - a different action: a fresh buffer of exactly that action's size
//   - the current action: the buffer is kept and zeroed, resources dropped
func (a *actionData) resetActionData(id uint32) error {
	switch {
	case id == 0:
		bytes, bits := a.schema.MaxActionDataSize()
		a.spec = spec.New(bytes, bits)

	case id != a.actionID || a.spec == nil:
		bytes, bits, err := a.schema.ActionDataSize(id)
		if err != nil {
			return err
		}
		a.spec = spec.New(bytes, bits)
		a.log.Debug("Allocated action data", zap.Uint32("action", id), zap.Uint("bytes", bytes))

	default:
		a.spec.Reset()
	}

	a.actionID = id
	return nil
}

// ActionID returns the action the record currently encodes
func (a *actionData) ActionID() uint32 {
	return a.actionID
}

// ActionSpec returns a deep copy of the record's action spec
func (a *actionData) ActionSpec() *ActionSpec {
	return a.spec.Clone()
}

// CopyActionSpec makes dst a deep copy of the record's action spec
func (a *actionData) CopyActionSpec(dst *ActionSpec) {
	a.spec.CopyTo(dst)
}

// LoadActionSpec replaces the record's action spec with a deep copy of src,
// e.g. one read back from hardware
func (a *actionData) LoadActionSpec(src *ActionSpec) {
	src.CopyTo(a.spec)
}

// ActionType returns what the record's action data refers to
func (a *actionData) ActionType() ActionType {
	return a.spec.Type
}

func (a *actionData) resourceHdl(tag FieldTag) (uint32, error) {
	if a.handles == nil {
		return 0, errors.ErrNotApplicable
	}
	return a.handles.ResourceHdlGet(tag)
}

// setActionTag handles the tags served by the action spec. handled is false
// for tags the record kind must deal with itself.
func (a *actionData) setActionTag(f *specinterfaces.FieldDescriptor, tag FieldTag, v *fieldValue) (handled bool, err error) {
	group := tags.GroupOf(tag)
	switch {
	case tag == specinterfaces.TagActionParamOptimizedOut:
		return true, coder.EncodeParamZero(a.spec.Data, f)

	case tag == specinterfaces.TagActionParam:
		if v.repr == specinterfaces.ReprBytes {
			return true, coder.EncodeParamBytes(a.spec.Data, f, v.bytes)
		}
		return true, coder.EncodeParam(a.spec.Data, f, v.u64)

	case group == tags.GroupResourceIndex:
		hdl, err := a.resourceHdl(tag)
		if err != nil {
			return true, err
		}
		if v.u64 > math.MaxUint32 {
			return true, errors.ErrOutOfBounds
		}
		r, err := a.spec.FindOrAllocate(hdl, false)
		if err != nil {
			return true, err
		}
		r.Tag = spec.TagAttached
		r.Index = uint32(v.u64)
		if a.onIndex != nil {
			a.onIndex(tag, r.Index)
		}
		return true, nil

	case tags.IsResourceSpec(tag):
		hdl, err := a.resourceHdl(tag)
		if err != nil {
			return true, err
		}
		// Encode into a copy so a rejected value leaves the spec untouched
		res := spec.ResourceSpec{TableHandle: hdl, Direct: true}
		if r := a.spec.Find(hdl); r != nil {
			res = *r
		}
		res.Tag = spec.TagAttached
		if err := a.coder.Encode(&res, f, tag, v.coderValue()); err != nil {
			return true, err
		}
		r, err := a.spec.FindOrAllocate(hdl, true)
		if err != nil {
			return true, err
		}
		*r = res
		return true, nil

	default:
		return false, nil
	}
}

// getActionTag is the mirror of setActionTag
func (a *actionData) getActionTag(f *specinterfaces.FieldDescriptor, tag FieldTag, v *fieldValue) (handled bool, err error) {
	switch {
	case tag == specinterfaces.TagActionParamOptimizedOut:
		if v.repr == specinterfaces.ReprBytes {
			v.bytes = make([]byte, f.ByteSize())
		}
		v.u64 = 0
		return true, nil

	case tag == specinterfaces.TagActionParam:
		if v.repr == specinterfaces.ReprBytes {
			v.bytes, err = coder.DecodeParamBytes(a.spec.Data, f)
			return true, err
		}
		v.u64, err = coder.DecodeParam(a.spec.Data, f)
		return true, err

	case tags.GroupOf(tag) == tags.GroupResourceIndex:
		hdl, err := a.resourceHdl(tag)
		if err != nil {
			return true, err
		}
		if r := a.spec.Find(hdl); r != nil {
			v.u64 = uint64(r.Index)
		}
		return true, nil

	case tags.IsResourceSpec(tag):
		hdl, err := a.resourceHdl(tag)
		if err != nil {
			return true, err
		}
		r := a.spec.Find(hdl)
		if r == nil {
			// Nothing attached yet: read the zero payload
			r = &spec.ResourceSpec{TableHandle: hdl}
		}
		cv, err := a.coder.Decode(r, f, tag)
		if err != nil {
			return true, err
		}
		v.setCoderValue(cv)
		if v.repr == specinterfaces.ReprScalarArray {
			v.u64s = []uint64{cv.U64}
		}
		return true, nil

	default:
		return false, nil
	}
}
