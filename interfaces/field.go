// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package specinterfaces

import (
	"go.e43.eu/actionspec/internal/errors"
)

// DataType is the declared value type of a field
type DataType uint8

const (
	TypeUint64 DataType = iota
	TypeBytes
	TypeFloat
	TypeBool
	TypeString
	TypeIntArray
	TypeBoolArray
)

var dataTypeNames = [...]string{
	TypeUint64:    "uint64",
	TypeBytes:     "bytes",
	TypeFloat:     "float",
	TypeBool:      "bool",
	TypeString:    "string",
	TypeIntArray:  "int_array",
	TypeBoolArray: "bool_array",
}

func (t DataType) String() string {
	if int(t) < len(dataTypeNames) {
		return dataTypeNames[t]
	}
	return "unknown"
}

// ParseDataType is the inverse of DataType.String
func ParseDataType(s string) (DataType, bool) {
	for i, n := range dataTypeNames {
		if n == s {
			return DataType(i), true
		}
	}
	return 0, false
}

// Representation is the Go shape in which a caller passes or requests a value
type Representation uint8

const (
	ReprScalar Representation = iota
	ReprBytes
	ReprFloat
	ReprBool
	ReprString
	ReprIntArray
	ReprBoolArray
	// Per-instance register values on read back
	ReprScalarArray
)

// FieldDescriptor is the schema's description of one data field. It is
// immutable once published.
type FieldDescriptor struct {
	ID       uint32
	Name     string
	ActionID uint32

	BitSize    uint
	ByteOffset uint

	Tags TagSet
	Type DataType

	Default uint64
	// Permitted values of a string field
	Choices []string
}

// ByteSize returns ceil(BitSize/8)
func (f *FieldDescriptor) ByteSize() uint {
	return (f.BitSize + 7) / 8
}

// CheckCompatibility verifies that a value passed as r may be stored in f
func (f *FieldDescriptor) CheckCompatibility(r Representation) error {
	ok := false
	switch r {
	case ReprScalar:
		ok = (f.Type == TypeUint64 || f.Type == TypeBytes) && f.BitSize <= 64
	case ReprBytes:
		ok = f.Type == TypeUint64 || f.Type == TypeBytes
	case ReprScalarArray:
		ok = f.Type == TypeUint64 && f.Tags.HasAny(TagRegisterSpec, TagRegisterSpecHi, TagRegisterSpecLo)
	case ReprFloat:
		ok = f.Type == TypeFloat
	case ReprBool:
		ok = f.Type == TypeBool
	case ReprString:
		ok = f.Type == TypeString
	case ReprIntArray:
		ok = f.Type == TypeIntArray
	case ReprBoolArray:
		ok = f.Type == TypeBoolArray
	}

	if !ok {
		return errors.ErrIncompatibleRepresentation
	}
	return nil
}

// CheckBounds verifies that v fits in the field's bit width
func (f *FieldDescriptor) CheckBounds(v uint64) error {
	if f.BitSize < 64 && v>>f.BitSize != 0 {
		return errors.ErrOutOfBounds
	}
	return nil
}

// CheckBytesBounds verifies that b is exactly ByteSize() long and that no
// bits above BitSize are set in its (network order) leading byte
func (f *FieldDescriptor) CheckBytesBounds(b []byte) error {
	if uint(len(b)) != f.ByteSize() {
		return errors.ErrIncompatibleRepresentation
	}

	if spare := f.ByteSize()*8 - f.BitSize; spare != 0 && len(b) != 0 {
		if b[0]>>(8-spare) != 0 {
			return errors.ErrOutOfBounds
		}
	}
	return nil
}

// CheckChoice verifies that s is one of the field's permitted values. A
// field without a choice list accepts any string.
func (f *FieldDescriptor) CheckChoice(s string) error {
	if len(f.Choices) == 0 {
		return nil
	}
	for _, c := range f.Choices {
		if c == s {
			return nil
		}
	}
	return errors.ErrInvalidEnumValue
}
