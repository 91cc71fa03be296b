// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/errors"
)

// paramBytes returns the window [ByteOffset, ByteOffset+ByteSize) of buf
// which field f occupies
func paramBytes(buf []byte, f *specinterfaces.FieldDescriptor) ([]byte, error) {
	start := f.ByteOffset
	end := start + f.ByteSize()
	if end > uint(len(buf)) {
		return nil, errors.ErrOutOfBounds
	}
	return buf[start:end:end], nil
}

// PutUint writes the low len(b) bytes of v into b, most significant first
func PutUint(b []byte, v uint64) {
	for i := len(b) - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}

// EncodeParam writes the scalar v into field f of the action buffer in
// network order
func EncodeParam(buf []byte, f *specinterfaces.FieldDescriptor, v uint64) error {
	b, err := paramBytes(buf, f)
	if err != nil {
		return err
	}
	PutUint(b, v)
	return nil
}

// EncodeParamBytes copies the network order bytes src into field f of the
// action buffer
func EncodeParamBytes(buf []byte, f *specinterfaces.FieldDescriptor, src []byte) error {
	b, err := paramBytes(buf, f)
	if err != nil {
		return err
	}
	if len(src) != len(b) {
		return errors.ErrIncompatibleRepresentation
	}
	copy(b, src)
	return nil
}

// EncodeParamZero clears field f of the action buffer
func EncodeParamZero(buf []byte, f *specinterfaces.FieldDescriptor) error {
	b, err := paramBytes(buf, f)
	if err != nil {
		return err
	}
	for i := range b {
		b[i] = 0
	}
	return nil
}
