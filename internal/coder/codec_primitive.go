// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/errors"
	"go.e43.eu/actionspec/internal/spec"
)

// counterCodec maps the two counter tags 1:1 onto the counter payload
type counterCodec struct{}

var counterCodecI Codec = counterCodec{}

func (counterCodec) Encode(r *spec.ResourceSpec, _ *specinterfaces.FieldDescriptor, tag FieldTag, v Value) error {
	c, err := r.CounterSpec()
	if err != nil {
		return err
	}

	switch tag {
	case specinterfaces.TagCounterSpecBytes:
		c.Bytes = v.U64
	case specinterfaces.TagCounterSpecPackets:
		c.Packets = v.U64
	default:
		return errors.ErrNotApplicable
	}
	return nil
}

func (counterCodec) Decode(r *spec.ResourceSpec, _ *specinterfaces.FieldDescriptor, tag FieldTag) (Value, error) {
	if err := r.Check(spec.KindCounter); err != nil {
		return Value{}, err
	}

	switch tag {
	case specinterfaces.TagCounterSpecBytes:
		return Value{U64: r.Counter.Bytes}, nil
	case specinterfaces.TagCounterSpecPackets:
		return Value{U64: r.Counter.Packets}, nil
	default:
		return Value{}, errors.ErrNotApplicable
	}
}

// wredCodec maps the four WRED tags 1:1 onto the WRED payload. Thresholds
// are integral; the time constant and drop probability are floats.
type wredCodec struct{}

var wredCodecI Codec = wredCodec{}

func (wredCodec) Encode(r *spec.ResourceSpec, _ *specinterfaces.FieldDescriptor, tag FieldTag, v Value) error {
	w, err := r.WredSpec()
	if err != nil {
		return err
	}

	switch tag {
	case specinterfaces.TagWredSpecMinThreshold:
		w.MinThreshold = uint32(v.U64)
	case specinterfaces.TagWredSpecMaxThreshold:
		w.MaxThreshold = uint32(v.U64)
	case specinterfaces.TagWredSpecTimeConstant:
		w.TimeConstant = v.F32
	case specinterfaces.TagWredSpecMaxProbability:
		w.MaxProbability = v.F32
	default:
		return errors.ErrNotApplicable
	}
	return nil
}

func (wredCodec) Decode(r *spec.ResourceSpec, _ *specinterfaces.FieldDescriptor, tag FieldTag) (Value, error) {
	if err := r.Check(spec.KindWred); err != nil {
		return Value{}, err
	}

	w := &r.Wred
	switch tag {
	case specinterfaces.TagWredSpecMinThreshold:
		return Value{U64: uint64(w.MinThreshold)}, nil
	case specinterfaces.TagWredSpecMaxThreshold:
		return Value{U64: uint64(w.MaxThreshold)}, nil
	case specinterfaces.TagWredSpecTimeConstant:
		return Value{F32: w.TimeConstant}, nil
	case specinterfaces.TagWredSpecMaxProbability:
		return Value{F32: w.MaxProbability}, nil
	default:
		return Value{}, errors.ErrNotApplicable
	}
}
