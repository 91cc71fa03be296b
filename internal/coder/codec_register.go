// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/errors"
	"go.e43.eu/actionspec/internal/spec"
)

// registerCodec handles register fields. The field's width selects the
// storage:
//
//	   1 bit  | Lo bit 0; HI/LO tags rejected
//	8/16/32   | REGISTER_SPEC: Lo, not dual
//	          | REGISTER_SPEC_HI / _LO: Hi / Lo half of a dual instance
//	  64 bit  | always dual: Hi = v>>32, Lo = v&0xffffffff
//
// Any other width is rejected.
type registerCodec struct{}

var registerCodecI Codec = registerCodec{}

func (registerCodec) Encode(r *spec.ResourceSpec, f *specinterfaces.FieldDescriptor, tag FieldTag, v Value) error {
	reg, err := r.RegisterSpec()
	if err != nil {
		return err
	}
	return EncodeRegister(reg, f, tag, v.U64)
}

func (registerCodec) Decode(r *spec.ResourceSpec, f *specinterfaces.FieldDescriptor, tag FieldTag) (Value, error) {
	if err := r.Check(spec.KindRegister); err != nil {
		return Value{}, err
	}
	u, err := DecodeRegister(&r.Register, f, tag)
	return Value{U64: u}, err
}

func registerHalf(tag FieldTag) (hi, lo bool, err error) {
	switch tag {
	case specinterfaces.TagRegisterSpec:
		return false, false, nil
	case specinterfaces.TagRegisterSpecHi:
		return true, false, nil
	case specinterfaces.TagRegisterSpecLo:
		return false, true, nil
	default:
		return false, false, errors.ErrNotApplicable
	}
}

// EncodeRegister stores v, published under tag for field f, into reg
func EncodeRegister(reg *spec.RegisterSpec, f *specinterfaces.FieldDescriptor, tag FieldTag, v uint64) error {
	hi, lo, err := registerHalf(tag)
	if err != nil {
		return err
	}

	switch f.BitSize {
	case 1:
		if hi || lo {
			return errors.ErrInvalidRegisterWidth
		}
		reg.Width, reg.Dual = 1, false
		reg.Lo, reg.Hi = uint32(v&1), 0

	case 8, 16, 32:
		mask := uint64(1)<<f.BitSize - 1
		reg.Width = uint8(f.BitSize)
		switch {
		case hi:
			reg.Dual = true
			reg.Hi = uint32(v & mask)
		case lo:
			reg.Dual = true
			reg.Lo = uint32(v & mask)
		default:
			reg.Dual = false
			reg.Lo, reg.Hi = uint32(v&mask), 0
		}

	case 64:
		if hi || lo {
			return errors.ErrInvalidRegisterWidth
		}
		reg.Width, reg.Dual = 64, true
		reg.Hi = uint32(v >> 32)
		reg.Lo = uint32(v & 0xffffffff)

	default:
		return errors.ErrInvalidRegisterWidth
	}
	return nil
}

// DecodeRegister is the inverse of EncodeRegister
func DecodeRegister(reg *spec.RegisterSpec, f *specinterfaces.FieldDescriptor, tag FieldTag) (uint64, error) {
	hi, lo, err := registerHalf(tag)
	if err != nil {
		return 0, err
	}

	switch f.BitSize {
	case 1:
		if hi || lo {
			return 0, errors.ErrInvalidRegisterWidth
		}
		return uint64(reg.Lo & 1), nil

	case 8, 16, 32:
		if hi {
			return uint64(reg.Hi), nil
		}
		return uint64(reg.Lo), nil

	case 64:
		if hi || lo {
			return 0, errors.ErrInvalidRegisterWidth
		}
		return uint64(reg.Hi)<<32 | uint64(reg.Lo), nil

	default:
		return 0, errors.ErrInvalidRegisterWidth
	}
}
