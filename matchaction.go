// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package actionspec

import (
	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/coder"
	"go.e43.eu/actionspec/internal/errors"
	"go.e43.eu/actionspec/internal/spec"
)

// MatchActionRecord is the data of a match-action table entry.
//
// A direct record carries its action's parameters inline. An indirect record
// (NewMatchActionIndirectRecord) instead points at an action profile member
// or a selector group; ACTION_MEMBER_ID and SELECTOR_GROUP_ID are mutually
// exclusive on it.
type MatchActionRecord struct {
	actionData

	indirect bool
	idleMode IdleMode

	ttl      uint64
	hitState coder.HitState
	memberID uint32
	groupID  uint32
}

var _ Record = &MatchActionRecord{}

// NewMatchActionRecord creates a record for actionID of a direct match table
func NewMatchActionRecord(schema FieldSchema, handles ResourceHandleMap, actionID uint32, opts ...Option) (*MatchActionRecord, error) {
	return newMatchActionRecord(schema, handles, actionID, false, opts)
}

// NewMatchActionIndirectRecord creates a record for a match table whose
// entries refer to action profile members or selector groups
func NewMatchActionIndirectRecord(schema FieldSchema, handles ResourceHandleMap, actionID uint32, opts ...Option) (*MatchActionRecord, error) {
	return newMatchActionRecord(schema, handles, actionID, true, opts)
}

func newMatchActionRecord(schema FieldSchema, handles ResourceHandleMap, actionID uint32, indirect bool, opts []Option) (*MatchActionRecord, error) {
	o := buildOptions(opts)
	r := &MatchActionRecord{
		indirect: indirect,
		idleMode: o.idleMode,
	}
	r.recordBase = newRecordBase(schema, handles, &o, r)
	if err := r.resetActionData(actionID); err != nil {
		return nil, err
	}
	return r, nil
}

// ResetAction moves the record onto action id, clearing all data
func (r *MatchActionRecord) ResetAction(id uint32) error {
	if err := r.resetActionData(id); err != nil {
		return err
	}
	r.clearEntryState()
	return nil
}

// Reset clears all data, keeping the record's action
func (r *MatchActionRecord) Reset() {
	// Cannot fail: the current action's size is already known
	_ = r.resetActionData(r.actionID)
	r.clearEntryState()
}

func (r *MatchActionRecord) clearEntryState() {
	r.ttl = 0
	r.hitState = coder.HitStateIdle
	r.memberID = 0
	r.groupID = 0
}

// IsIndirect reports whether the record belongs to an indirect match table
func (r *MatchActionRecord) IsIndirect() bool {
	return r.indirect
}

func (r *MatchActionRecord) setField(f *specinterfaces.FieldDescriptor, v *fieldValue) error {
	for _, tag := range f.Tags.Tags() {
		handled, err := r.setActionTag(f, tag, v)
		if err != nil {
			return errors.WithFieldError(err, f.ID, tag)
		}
		if handled {
			continue
		}

		if err := r.setEntryTag(tag, v); err != nil {
			return errors.WithFieldError(err, f.ID, tag)
		}
	}
	return nil
}

func (r *MatchActionRecord) setEntryTag(tag FieldTag, v *fieldValue) error {
	switch tag {
	case specinterfaces.TagTTL:
		if r.idleMode != specinterfaces.IdleNotify {
			return errors.ErrUnsupportedInCurrentMode
		}
		r.ttl = v.u64

	case specinterfaces.TagEntryHitState:
		if r.idleMode != specinterfaces.IdlePoll {
			return errors.ErrUnsupportedInCurrentMode
		}
		h, err := coder.ParseHitState(v.str)
		if err != nil {
			return err
		}
		r.hitState = h

	case specinterfaces.TagActionMemberID:
		if !r.indirect {
			return errors.ErrNotApplicable
		}
		if r.spec.Type == spec.SelectorGroupHandle {
			return errors.ErrMutuallyExclusive
		}
		r.spec.Type = spec.ActionDataHandle
		r.memberID = uint32(v.u64)

	case specinterfaces.TagSelectorGroupID:
		if !r.indirect {
			return errors.ErrNotApplicable
		}
		if r.spec.Type == spec.ActionDataHandle {
			return errors.ErrMutuallyExclusive
		}
		r.spec.Type = spec.SelectorGroupHandle
		r.groupID = uint32(v.u64)

	default:
		return errors.ErrNotApplicable
	}
	return nil
}

func (r *MatchActionRecord) getField(f *specinterfaces.FieldDescriptor, v *fieldValue) error {
	tag := f.Tags.Primary()
	handled, err := r.getActionTag(f, tag, v)
	if handled || err != nil {
		return errors.WithFieldError(err, f.ID, tag)
	}

	switch tag {
	case specinterfaces.TagTTL:
		if r.idleMode != specinterfaces.IdleNotify {
			return errors.WithFieldError(errors.ErrUnsupportedInCurrentMode, f.ID, tag)
		}
		v.u64 = r.ttl

	case specinterfaces.TagEntryHitState:
		if r.idleMode != specinterfaces.IdlePoll {
			return errors.WithFieldError(errors.ErrUnsupportedInCurrentMode, f.ID, tag)
		}
		v.str = r.hitState.String()

	case specinterfaces.TagActionMemberID:
		if !r.indirect {
			return errors.WithFieldError(errors.ErrNotApplicable, f.ID, tag)
		}
		v.u64 = uint64(r.memberID)

	case specinterfaces.TagSelectorGroupID:
		if !r.indirect {
			return errors.WithFieldError(errors.ErrNotApplicable, f.ID, tag)
		}
		v.u64 = uint64(r.groupID)

	default:
		return errors.WithFieldError(errors.ErrNotApplicable, f.ID, tag)
	}
	return nil
}
