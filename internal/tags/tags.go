// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package tags

import (
	"fmt"
	"strings"

	specinterfaces "go.e43.eu/actionspec/interfaces"
)

type FieldTag = specinterfaces.FieldTag

// Group identifies which codec (or record level handler) serves a tag
type Group uint8

const (
	GroupNone Group = iota
	GroupActionParam
	GroupResourceIndex
	GroupCounter
	GroupMeter
	GroupLpf
	GroupWred
	GroupRegister
	GroupIdentity
)

var byName map[string]FieldTag

func init() {
	byName = make(map[string]FieldTag, specinterfaces.NumTags)
	for i := 1; i < specinterfaces.NumTags; i++ {
		t := FieldTag(i)
		byName[t.String()] = t
	}
}

// Parse returns the tag named s. Names are matched case insensitively and
// may omit a leading '$' (as published by some schema generators).
func Parse(s string) (FieldTag, error) {
	n := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if t, ok := byName[n]; ok {
		return t, nil
	}
	return specinterfaces.TagNone, fmt.Errorf("unknown field tag '%s'", s)
}

// ParseSet parses every name in names into a TagSet
func ParseSet(names []string) (specinterfaces.TagSet, error) {
	var s specinterfaces.TagSet
	for _, n := range names {
		t, err := Parse(n)
		if err != nil {
			return 0, err
		}
		s = s.With(t)
	}
	return s, nil
}

// GroupOf classifies t
func GroupOf(t FieldTag) Group {
	switch t {
	case specinterfaces.TagActionParam,
		specinterfaces.TagActionParamOptimizedOut:
		return GroupActionParam

	case specinterfaces.TagCounterIndex,
		specinterfaces.TagRegisterIndex,
		specinterfaces.TagMeterIndex,
		specinterfaces.TagLpfIndex,
		specinterfaces.TagWredIndex:
		return GroupResourceIndex

	case specinterfaces.TagCounterSpecBytes,
		specinterfaces.TagCounterSpecPackets:
		return GroupCounter

	case specinterfaces.TagMeterSpecCIRPPS,
		specinterfaces.TagMeterSpecPIRPPS,
		specinterfaces.TagMeterSpecCBSPkts,
		specinterfaces.TagMeterSpecPBSPkts,
		specinterfaces.TagMeterSpecCIRKbps,
		specinterfaces.TagMeterSpecPIRKbps,
		specinterfaces.TagMeterSpecCBSKbits,
		specinterfaces.TagMeterSpecPBSKbits:
		return GroupMeter

	case specinterfaces.TagLpfSpecType,
		specinterfaces.TagLpfSpecGainTimeConstant,
		specinterfaces.TagLpfSpecDecayTimeConstant,
		specinterfaces.TagLpfSpecOutputScaleDownFactor:
		return GroupLpf

	case specinterfaces.TagWredSpecTimeConstant,
		specinterfaces.TagWredSpecMinThreshold,
		specinterfaces.TagWredSpecMaxThreshold,
		specinterfaces.TagWredSpecMaxProbability:
		return GroupWred

	case specinterfaces.TagRegisterSpec,
		specinterfaces.TagRegisterSpecHi,
		specinterfaces.TagRegisterSpecLo:
		return GroupRegister

	case specinterfaces.TagActionMemberID,
		specinterfaces.TagSelectorGroupID,
		specinterfaces.TagEntryHitState,
		specinterfaces.TagTTL,
		specinterfaces.TagSelectorMembers,
		specinterfaces.TagActionMemberStatus,
		specinterfaces.TagMaxGroupSize:
		return GroupIdentity

	default:
		return GroupNone
	}
}

// IsResourceSpec reports whether t writes into a resource payload
func IsResourceSpec(t FieldTag) bool {
	switch GroupOf(t) {
	case GroupCounter, GroupMeter, GroupLpf, GroupWred, GroupRegister:
		return true
	default:
		return false
	}
}

// IndexGroup returns the payload group addressed by a resource index tag
func IndexGroup(t FieldTag) Group {
	switch t {
	case specinterfaces.TagCounterIndex:
		return GroupCounter
	case specinterfaces.TagMeterIndex:
		return GroupMeter
	case specinterfaces.TagLpfIndex:
		return GroupLpf
	case specinterfaces.TagWredIndex:
		return GroupWred
	case specinterfaces.TagRegisterIndex:
		return GroupRegister
	default:
		return GroupNone
	}
}

// IsRegister reports whether s names a register field
func IsRegister(s specinterfaces.TagSet) bool {
	return s.HasAny(specinterfaces.TagRegisterSpec,
		specinterfaces.TagRegisterSpecHi,
		specinterfaces.TagRegisterSpecLo)
}

// Validate checks that a tag set is internally consistent: the register
// half tags are mutually exclusive, as are member id and group id
func Validate(s specinterfaces.TagSet) error {
	n := 0
	for _, t := range []FieldTag{
		specinterfaces.TagRegisterSpec,
		specinterfaces.TagRegisterSpecHi,
		specinterfaces.TagRegisterSpecLo,
	} {
		if s.Has(t) {
			n++
		}
	}
	if n > 1 {
		return fmt.Errorf("register tags are mutually exclusive: %s", s)
	}

	if s.Has(specinterfaces.TagActionMemberID) && s.Has(specinterfaces.TagSelectorGroupID) {
		return fmt.Errorf("member id and group id tags are mutually exclusive: %s", s)
	}
	return nil
}
