// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	specinterfaces "go.e43.eu/actionspec/interfaces"
)

// Uint reads b as a network order unsigned integer. Bytes beyond the
// eighth-from-last are ignored.
func Uint(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// DecodeParam reads field f of the action buffer as a scalar
func DecodeParam(buf []byte, f *specinterfaces.FieldDescriptor) (uint64, error) {
	b, err := paramBytes(buf, f)
	if err != nil {
		return 0, err
	}
	return Uint(b), nil
}

// DecodeParamBytes returns a copy of field f of the action buffer
func DecodeParamBytes(buf []byte, f *specinterfaces.FieldDescriptor) ([]byte, error) {
	b, err := paramBytes(buf, f)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}
