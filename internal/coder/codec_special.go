// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/errors"
	"go.e43.eu/actionspec/internal/spec"
)

// codec embedding a fixed, memoised error (generally
// indicating that a tag has no resource payload)
type errorCodec struct {
	err error
}

var notApplicableCodecI Codec = &errorCodec{errors.ErrNotApplicable}

func (c *errorCodec) Encode(_ *spec.ResourceSpec, _ *specinterfaces.FieldDescriptor, _ FieldTag, _ Value) error {
	return c.err
}

func (c *errorCodec) Decode(_ *spec.ResourceSpec, _ *specinterfaces.FieldDescriptor, _ FieldTag) (Value, error) {
	return Value{}, c.err
}
