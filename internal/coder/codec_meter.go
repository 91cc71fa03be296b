// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/errors"
	"go.e43.eu/actionspec/internal/spec"
)

// meterCodec serves all eight meter tags. The rate tags also set the unit of
// the rate they write; burst tags share one storage per burst whichever unit
// they are published in.
type meterCodec struct{}

var meterCodecI Codec = meterCodec{}

func (meterCodec) Encode(r *spec.ResourceSpec, _ *specinterfaces.FieldDescriptor, tag FieldTag, v Value) error {
	m, err := r.MeterSpec()
	if err != nil {
		return err
	}

	switch tag {
	case specinterfaces.TagMeterSpecCIRPPS:
		m.CIR = spec.RateValue{Unit: spec.UnitPPS, Value: v.U64}
	case specinterfaces.TagMeterSpecCIRKbps:
		m.CIR = spec.RateValue{Unit: spec.UnitKBPS, Value: v.U64}
	case specinterfaces.TagMeterSpecPIRPPS:
		m.PIR = spec.RateValue{Unit: spec.UnitPPS, Value: v.U64}
	case specinterfaces.TagMeterSpecPIRKbps:
		m.PIR = spec.RateValue{Unit: spec.UnitKBPS, Value: v.U64}
	case specinterfaces.TagMeterSpecCBSPkts, specinterfaces.TagMeterSpecCBSKbits:
		m.CBurst = v.U64
	case specinterfaces.TagMeterSpecPBSPkts, specinterfaces.TagMeterSpecPBSKbits:
		m.PBurst = v.U64
	default:
		return errors.ErrNotApplicable
	}
	return nil
}

// Decode returns the stored rate whichever unit tag it is read through. No
// conversion between packets and kilobits is made.
func (meterCodec) Decode(r *spec.ResourceSpec, _ *specinterfaces.FieldDescriptor, tag FieldTag) (Value, error) {
	if err := r.Check(spec.KindMeter); err != nil {
		return Value{}, err
	}

	m := &r.Meter
	switch tag {
	case specinterfaces.TagMeterSpecCIRPPS, specinterfaces.TagMeterSpecCIRKbps:
		return Value{U64: m.CIR.Value}, nil
	case specinterfaces.TagMeterSpecPIRPPS, specinterfaces.TagMeterSpecPIRKbps:
		return Value{U64: m.PIR.Value}, nil
	case specinterfaces.TagMeterSpecCBSPkts, specinterfaces.TagMeterSpecCBSKbits:
		return Value{U64: m.CBurst}, nil
	case specinterfaces.TagMeterSpecPBSPkts, specinterfaces.TagMeterSpecPBSKbits:
		return Value{U64: m.PBurst}, nil
	default:
		return Value{}, errors.ErrNotApplicable
	}
}

// CheckMeterUnits panics unless both rates of m use the same unit. Meter
// specs read back from hardware always agree; a mismatch means the backend
// broke its contract.
func CheckMeterUnits(m *spec.MeterSpec) {
	if m.CIR.Unit != m.PIR.Unit {
		panic("meter spec with mixed CIR (" + m.CIR.Unit.String() + ") and PIR (" + m.PIR.Unit.String() + ") units")
	}
}
