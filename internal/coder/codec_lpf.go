// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/errors"
	"go.e43.eu/actionspec/internal/spec"
)

// lpfCodec handles the LPF tags.
//
// Every write of a gain or decay time constant recomputes
// GainDecaySeparate; while the two are equal the value is mirrored into the
// shared TimeConstant the hardware reads in that case. Reads of gain and
// decay always return the per-field value.
type lpfCodec struct{}

var lpfCodecI Codec = lpfCodec{}

func (lpfCodec) Encode(r *spec.ResourceSpec, _ *specinterfaces.FieldDescriptor, tag FieldTag, v Value) error {
	l, err := r.LpfSpec()
	if err != nil {
		return err
	}

	switch tag {
	case specinterfaces.TagLpfSpecType:
		t, err := ParseLpfType(v.Str)
		if err != nil {
			return err
		}
		l.RateEnable = t == LpfTypeRate

	case specinterfaces.TagLpfSpecOutputScaleDownFactor:
		l.OutputScaleDownFactor = uint32(v.U64)

	case specinterfaces.TagLpfSpecGainTimeConstant:
		l.GainTimeConstant = v.F32
		syncTimeConstant(l, v.F32)

	case specinterfaces.TagLpfSpecDecayTimeConstant:
		l.DecayTimeConstant = v.F32
		syncTimeConstant(l, v.F32)

	default:
		return errors.ErrNotApplicable
	}
	return nil
}

func syncTimeConstant(l *spec.LpfSpec, written float32) {
	l.GainDecaySeparate = l.GainTimeConstant != l.DecayTimeConstant
	if !l.GainDecaySeparate {
		l.TimeConstant = written
	}
}

func (lpfCodec) Decode(r *spec.ResourceSpec, _ *specinterfaces.FieldDescriptor, tag FieldTag) (Value, error) {
	if err := r.Check(spec.KindLpf); err != nil {
		return Value{}, err
	}

	l := &r.Lpf
	switch tag {
	case specinterfaces.TagLpfSpecType:
		t := LpfTypeSample
		if l.RateEnable {
			t = LpfTypeRate
		}
		return Value{Str: t.String()}, nil
	case specinterfaces.TagLpfSpecOutputScaleDownFactor:
		return Value{U64: uint64(l.OutputScaleDownFactor)}, nil
	case specinterfaces.TagLpfSpecGainTimeConstant:
		return Value{F32: l.GainTimeConstant}, nil
	case specinterfaces.TagLpfSpecDecayTimeConstant:
		return Value{F32: l.DecayTimeConstant}, nil
	default:
		return Value{}, errors.ErrNotApplicable
	}
}
