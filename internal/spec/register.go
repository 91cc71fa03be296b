// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package spec

import (
	"go.e43.eu/actionspec/internal/errors"
)

// RegisterSpecData holds the instances of one register entry. Reading back
// from hardware yields one instance per pipe and stage; writes always collapse
// onto the first.
type RegisterSpecData struct {
	Specs []RegisterSpec
}

// AddRegisterToVec appends an instance (read back path)
func (d *RegisterSpecData) AddRegisterToVec(r RegisterSpec) {
	d.Specs = append(d.Specs, r)
}

// SetFirstRegister stores r as the first instance, creating it if the list
// is empty
func (d *RegisterSpecData) SetFirstRegister(r RegisterSpec) {
	if len(d.Specs) == 0 {
		d.Specs = append(d.Specs, r)
		return
	}
	d.Specs[0] = r
}

// Single returns the only instance for an entry add or modify.
//
// An empty list means the caller never wrote the register, which breaks the
// contract with the programming backend; Single panics in that case.
func (d *RegisterSpecData) Single() (RegisterSpec, error) {
	switch len(d.Specs) {
	case 0:
		panic("register spec data has no instance to encode")
	case 1:
		return d.Specs[0], nil
	default:
		return RegisterSpec{}, errors.ErrTooManyResourceInstances
	}
}

// Reset drops every instance
func (d *RegisterSpecData) Reset() {
	d.Specs = d.Specs[:0]
}
