// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/errors"
	"go.e43.eu/actionspec/internal/spec"
	"go.e43.eu/actionspec/internal/tags"
)

type FieldTag = specinterfaces.FieldTag

// Value carries one field value across the codec boundary. Which member is
// meaningful depends on the tag: integral tags use U64, time constants and
// probabilities use F32, enumerated tags use Str.
type Value struct {
	U64  uint64
	F32  float32
	Bool bool
	Str  string
}

// Codec translates field values to and from one kind of resource payload
type Codec interface {
	// Encodes v (published under tag) into the payload of r
	Encode(r *spec.ResourceSpec, f *specinterfaces.FieldDescriptor, tag FieldTag, v Value) error

	// Decodes the value published under tag from the payload of r
	Decode(r *spec.ResourceSpec, f *specinterfaces.FieldDescriptor, tag FieldTag) (Value, error)
}

// Coder routes resource tags to their codecs. The table is filled once by
// NewCoder and only read afterwards, so a Coder may be shared between
// goroutines.
type Coder struct {
	codecs [specinterfaces.NumTags]Codec
}

func NewCoder() *Coder {
	cr := new(Coder)
	for i := range cr.codecs {
		cr.codecs[i] = buildCodec(FieldTag(i))
	}
	return cr
}

func buildCodec(t FieldTag) Codec {
	switch tags.GroupOf(t) {
	case tags.GroupCounter:
		return counterCodecI
	case tags.GroupMeter:
		return meterCodecI
	case tags.GroupLpf:
		return lpfCodecI
	case tags.GroupWred:
		return wredCodecI
	case tags.GroupRegister:
		return registerCodecI
	default:
		return notApplicableCodecI
	}
}

// Codec returns the codec serving tag
func (cr *Coder) Codec(tag FieldTag) Codec {
	if int(tag) >= len(cr.codecs) {
		return notApplicableCodecI
	}
	return cr.codecs[tag]
}

// Encode routes v to the codec for tag
func (cr *Coder) Encode(r *spec.ResourceSpec, f *specinterfaces.FieldDescriptor, tag FieldTag, v Value) error {
	return errors.WithFieldError(cr.Codec(tag).Encode(r, f, tag, v), f.ID, tag)
}

// Decode routes a read of tag to its codec
func (cr *Coder) Decode(r *spec.ResourceSpec, f *specinterfaces.FieldDescriptor, tag FieldTag) (Value, error) {
	v, err := cr.Codec(tag).Decode(r, f, tag)
	return v, errors.WithFieldError(err, f.ID, tag)
}
