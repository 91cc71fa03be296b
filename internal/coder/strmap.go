// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"go.e43.eu/actionspec/internal/errors"
)

// The tables below are built at package initialisation and never written
// afterwards.

// LpfType selects whether an LPF smooths a rate or samples a value
type LpfType uint8

const (
	LpfTypeRate LpfType = iota
	LpfTypeSample
)

var lpfTypeToString = map[LpfType]string{
	LpfTypeRate:   "RATE",
	LpfTypeSample: "SAMPLE",
}

var stringToLpfType = map[string]LpfType{
	"RATE":   LpfTypeRate,
	"SAMPLE": LpfTypeSample,
}

func (t LpfType) String() string {
	if s, ok := lpfTypeToString[t]; ok {
		return s
	}
	return "INVALID"
}

// ParseLpfType maps a string to an LpfType
func ParseLpfType(s string) (LpfType, error) {
	t, ok := stringToLpfType[s]
	if !ok {
		return 0, errors.ErrInvalidEnumValue
	}
	return t, nil
}

// LpfTypeStrings returns the permitted LPF_SPEC_TYPE values
func LpfTypeStrings() []string {
	return []string{lpfTypeToString[LpfTypeRate], lpfTypeToString[LpfTypeSample]}
}

// HitState is the idle-time state of an entry in a poll mode table
type HitState uint8

const (
	HitStateIdle HitState = iota
	HitStateActive
)

var hitStateToString = map[HitState]string{
	HitStateIdle:   "ENTRY_IDLE",
	HitStateActive: "ENTRY_ACTIVE",
}

var stringToHitState = map[string]HitState{
	"ENTRY_IDLE":   HitStateIdle,
	"ENTRY_ACTIVE": HitStateActive,
}

func (h HitState) String() string {
	if s, ok := hitStateToString[h]; ok {
		return s
	}
	return "INVALID"
}

// ParseHitState maps a string to a HitState
func ParseHitState(s string) (HitState, error) {
	h, ok := stringToHitState[s]
	if !ok {
		return 0, errors.ErrInvalidEnumValue
	}
	return h, nil
}
