// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package errors

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

type xerror string

func (e xerror) Error() string {
	return string(e)
}

const (
	// No field with this id exists for the table, or for the record's action
	ErrFieldNotFound = xerror("actionspec: Field not found")

	// The field exists but is not part of the record's active field set
	ErrFieldInactive = xerror("actionspec: Field not active")

	// No action with this id exists for the table
	ErrActionNotFound = xerror("actionspec: Action not found")

	// The field's tag set does not match the setter or getter invoked
	//
	// This is also returned for a tag which the record kind has no handler
	// for, e.g. a selector group id on an action profile record.
	ErrNotApplicable = xerror("actionspec: Setter or getter not applicable to field")

	// The representation used by the caller (scalar, byte array, float...)
	// is not one the field's declared type and width permit
	ErrIncompatibleRepresentation = xerror("actionspec: Incompatible value representation")

	// Value does not fit in the field's declared bit width
	ErrOutOfBounds = xerror("actionspec: Value out of bounds")

	// String or numeric value has no mapping in an enum table
	ErrInvalidEnumValue = xerror("actionspec: Invalid enum value")

	// Action member id and selector group id are alternatives; only one may
	// be set on a record
	ErrMutuallyExclusive = xerror("actionspec: Mutually exclusive field already set")

	// The field cannot be accessed in the table's current mode (e.g. TTL on
	// an idle table in poll mode)
	ErrUnsupportedInCurrentMode = xerror("actionspec: Not supported in current mode")

	// More resource instances are present than the operation allows
	ErrTooManyResourceInstances = xerror("actionspec: Too many resource instances")

	// Allocating another resource slot would exceed MaxResourcesPerTable
	ErrTooManyResources = xerror("actionspec: Too many resources attached to action")

	// Register fields must be 1, 8, 16, 32 or 64 bits wide
	ErrInvalidRegisterWidth = xerror("actionspec: Invalid register width")

	// The resource slot already holds a payload of a different kind
	ErrPayloadKindMismatch = xerror("actionspec: Resource payload kind mismatch")
)

// FieldError attaches the field (and the tag being processed, when known) to
// an underlying error.
type FieldError struct {
	Underlying error
	Field      uint32
	Tag        fmt.Stringer
}

func (err FieldError) Unwrap() error {
	return err.Underlying
}

func (err FieldError) Error() string {
	if err.Tag == nil {
		return fmt.Sprintf("%s (field %d)", err.Underlying, err.Field)
	}
	return fmt.Sprintf("%s (field %d, %s)", err.Underlying, err.Field, err.Tag)
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (err FieldError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("cause", err.Underlying.Error())
	enc.AddUint32("field", err.Field)
	if err.Tag != nil {
		enc.AddString("tag", err.Tag.String())
	}
	return nil
}

// WithFieldError wraps err with the field id and tag. A nil err stays nil and
// an error which already names its field is returned unchanged.
func WithFieldError(err error, field uint32, tag fmt.Stringer) error {
	if err == nil {
		return nil
	}

	switch err := err.(type) {
	case FieldError:
		if err.Tag == nil {
			err.Tag = tag
		}
		return err
	default:
		return FieldError{Underlying: err, Field: field, Tag: tag}
	}
}
