// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package actionspec

import (
	"go.e43.eu/actionspec/internal/errors"
)

// Errors returned by records. Returned errors wrap these; test with
// errors.Is.
const (
	ErrFieldNotFound              = errors.ErrFieldNotFound
	ErrFieldInactive              = errors.ErrFieldInactive
	ErrActionNotFound             = errors.ErrActionNotFound
	ErrNotApplicable              = errors.ErrNotApplicable
	ErrIncompatibleRepresentation = errors.ErrIncompatibleRepresentation
	ErrOutOfBounds                = errors.ErrOutOfBounds
	ErrInvalidEnumValue           = errors.ErrInvalidEnumValue
	ErrMutuallyExclusive          = errors.ErrMutuallyExclusive
	ErrUnsupportedInCurrentMode   = errors.ErrUnsupportedInCurrentMode
	ErrTooManyResourceInstances   = errors.ErrTooManyResourceInstances
	ErrTooManyResources           = errors.ErrTooManyResources
	ErrInvalidRegisterWidth       = errors.ErrInvalidRegisterWidth
	ErrPayloadKindMismatch        = errors.ErrPayloadKindMismatch
)

// FieldError is the wrapper carrying the field id and tag of a failure
type FieldError = errors.FieldError
