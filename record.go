// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package actionspec

import (
	"go.uber.org/zap"

	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/coder"
	"go.e43.eu/actionspec/internal/errors"
)

// fieldValue is a value on its way into or out of a record. repr says which
// members the caller supplied or wants; scalar and byte representations of
// integral fields are both filled before a handler sees the value.
type fieldValue struct {
	repr  specinterfaces.Representation
	u64   uint64
	bytes []byte
	f32   float32
	b     bool
	str   string
	ints  []uint32
	bools []bool
	u64s  []uint64
}

func (v *fieldValue) coderValue() coder.Value {
	return coder.Value{U64: v.u64, F32: v.f32, Bool: v.b, Str: v.str}
}

func (v *fieldValue) setCoderValue(cv coder.Value) {
	v.u64, v.f32, v.b, v.str = cv.U64, cv.F32, cv.Bool, cv.Str
}

// fieldHandler is implemented by each record kind: it routes a validated
// value to the storage of the field's tags
type fieldHandler interface {
	setField(f *specinterfaces.FieldDescriptor, v *fieldValue) error
	getField(f *specinterfaces.FieldDescriptor, v *fieldValue) error
}

// recordBase carries what every record kind shares: the schema, field
// lookup and validation, and the typed value API
type recordBase struct {
	schema  specinterfaces.FieldSchema
	handles specinterfaces.ResourceHandleMap
	coder   *coder.Coder
	log     *zap.Logger

	actionID uint32
	// nil means every field is active
	active map[uint32]struct{}

	handler fieldHandler
}

func newRecordBase(schema specinterfaces.FieldSchema, handles specinterfaces.ResourceHandleMap,
	o *options, h fieldHandler) recordBase {
	b := recordBase{
		schema:  schema,
		handles: handles,
		coder:   defaultCoder,
		log:     o.logger,
		handler: h,
	}
	if o.activeSet {
		b.active = make(map[uint32]struct{}, len(o.active))
		for _, id := range o.active {
			b.active[id] = struct{}{}
		}
	}
	return b
}

func (b *recordBase) isActive(id uint32) bool {
	if b.active == nil {
		return true
	}
	_, ok := b.active[id]
	return ok
}

// field resolves id for the record's action and checks that the field may
// be accessed in representation r
func (b *recordBase) field(id uint32, r specinterfaces.Representation, checkActive bool) (*specinterfaces.FieldDescriptor, error) {
	f, err := b.schema.Lookup(id, b.actionID)
	if err != nil {
		return nil, errors.WithFieldError(err, id, nil)
	}
	if checkActive && !b.isActive(id) {
		return nil, errors.WithFieldError(errors.ErrFieldInactive, id, nil)
	}
	if err := f.CheckCompatibility(r); err != nil {
		return nil, errors.WithFieldError(err, id, nil)
	}
	return f, nil
}

// checkValue is the bounds half of input validation
func (b *recordBase) checkValue(f *specinterfaces.FieldDescriptor, v *fieldValue) error {
	switch v.repr {
	case specinterfaces.ReprScalar:
		return f.CheckBounds(v.u64)

	case specinterfaces.ReprBytes:
		if err := f.CheckBytesBounds(v.bytes); err != nil {
			return err
		}
		v.u64 = coder.Uint(v.bytes)
		return nil

	case specinterfaces.ReprString:
		allowed, err := b.schema.AllowedStringValues(f.ID, b.actionID)
		if err != nil {
			return err
		}
		if len(allowed) == 0 {
			return f.CheckChoice(v.str)
		}
		for _, s := range allowed {
			if s == v.str {
				return nil
			}
		}
		return errors.ErrInvalidEnumValue
	}
	return nil
}

func (b *recordBase) set(id uint32, v fieldValue, checkActive bool) error {
	f, err := b.field(id, v.repr, checkActive)
	if err == nil {
		err = errors.WithFieldError(b.checkValue(f, &v), id, nil)
	}
	if err == nil {
		err = errors.WithFieldError(b.handler.setField(f, &v), id, nil)
	}
	if err != nil {
		b.logFailure("Set field failed", id, err)
	}
	return err
}

func (b *recordBase) logFailure(msg string, id uint32, err error) {
	if fe, ok := err.(errors.FieldError); ok {
		b.log.Debug(msg, zap.Uint32("action", b.actionID), zap.Object("error", fe))
		return
	}
	b.log.Debug(msg, zap.Uint32("field", id), zap.Uint32("action", b.actionID), zap.Error(err))
}

func (b *recordBase) get(id uint32, v *fieldValue) error {
	f, err := b.field(id, v.repr, true)
	if err == nil {
		err = errors.WithFieldError(b.handler.getField(f, v), id, nil)
	}
	if err != nil {
		b.logFailure("Get field failed", id, err)
		return err
	}

	if v.repr == specinterfaces.ReprBytes && v.bytes == nil {
		v.bytes = make([]byte, f.ByteSize())
		coder.PutUint(v.bytes, v.u64)
	}
	return nil
}

// SetValue stores a scalar into the field
func (b *recordBase) SetValue(id uint32, v uint64) error {
	return b.set(id, fieldValue{repr: specinterfaces.ReprScalar, u64: v}, true)
}

// SetValueBytes stores a network order byte array into the field. Its
// length must be the field's byte size.
func (b *recordBase) SetValueBytes(id uint32, v []byte) error {
	return b.set(id, fieldValue{repr: specinterfaces.ReprBytes, bytes: v}, true)
}

// SetValueFloat stores a float field
func (b *recordBase) SetValueFloat(id uint32, v float32) error {
	return b.set(id, fieldValue{repr: specinterfaces.ReprFloat, f32: v}, true)
}

// SetValueBool stores a bool field
func (b *recordBase) SetValueBool(id uint32, v bool) error {
	return b.set(id, fieldValue{repr: specinterfaces.ReprBool, b: v}, true)
}

// SetValueString stores an enumerated string field
func (b *recordBase) SetValueString(id uint32, v string) error {
	return b.set(id, fieldValue{repr: specinterfaces.ReprString, str: v}, true)
}

// SetValueIntArray stores an id list field
func (b *recordBase) SetValueIntArray(id uint32, v []uint32) error {
	return b.set(id, fieldValue{repr: specinterfaces.ReprIntArray, ints: v}, true)
}

// SetValueBoolArray stores a bool list field
func (b *recordBase) SetValueBoolArray(id uint32, v []bool) error {
	return b.set(id, fieldValue{repr: specinterfaces.ReprBoolArray, bools: v}, true)
}

// GetValue reads the field as a scalar
func (b *recordBase) GetValue(id uint32) (uint64, error) {
	v := fieldValue{repr: specinterfaces.ReprScalar}
	err := b.get(id, &v)
	return v.u64, err
}

// GetValueBytes reads the field as a network order byte array. size must be
// the field's byte size.
func (b *recordBase) GetValueBytes(id uint32, size int) ([]byte, error) {
	f, err := b.field(id, specinterfaces.ReprBytes, true)
	if err != nil {
		return nil, err
	}
	if size < 0 || uint(size) != f.ByteSize() {
		return nil, errors.WithFieldError(errors.ErrIncompatibleRepresentation, id, nil)
	}

	v := fieldValue{repr: specinterfaces.ReprBytes}
	err = b.get(id, &v)
	return v.bytes, err
}

// GetValueFloat reads a float field
func (b *recordBase) GetValueFloat(id uint32) (float32, error) {
	v := fieldValue{repr: specinterfaces.ReprFloat}
	err := b.get(id, &v)
	return v.f32, err
}

// GetValueBool reads a bool field
func (b *recordBase) GetValueBool(id uint32) (bool, error) {
	v := fieldValue{repr: specinterfaces.ReprBool}
	err := b.get(id, &v)
	return v.b, err
}

// GetValueString reads an enumerated string field
func (b *recordBase) GetValueString(id uint32) (string, error) {
	v := fieldValue{repr: specinterfaces.ReprString}
	err := b.get(id, &v)
	return v.str, err
}

// GetValueIntArray reads an id list field
func (b *recordBase) GetValueIntArray(id uint32) ([]uint32, error) {
	v := fieldValue{repr: specinterfaces.ReprIntArray}
	err := b.get(id, &v)
	return v.ints, err
}

// GetValueBoolArray reads a bool list field
func (b *recordBase) GetValueBoolArray(id uint32) ([]bool, error) {
	v := fieldValue{repr: specinterfaces.ReprBoolArray}
	err := b.get(id, &v)
	return v.bools, err
}

// GetValueU64Array reads every instance of a register field, one value per
// instance read back from hardware
func (b *recordBase) GetValueU64Array(id uint32) ([]uint64, error) {
	v := fieldValue{repr: specinterfaces.ReprScalarArray}
	err := b.get(id, &v)
	return v.u64s, err
}

// IsActive reports whether id is in the record's active field set
func (b *recordBase) IsActive(id uint32) bool {
	return b.isActive(id)
}
