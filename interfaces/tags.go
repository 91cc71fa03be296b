// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package specinterfaces

import (
	"math/bits"
	"strconv"
)

// FieldTag is the semantic tag a schema publishes for a data field. It
// decides which codec a value is routed to.
//
// The numeric order is significant: when a field carries more than one tag,
// reads are served by the lowest tag.
type FieldTag uint8

const (
	TagNone FieldTag = iota

	// Action parameters
	TagActionParam
	TagActionParamOptimizedOut

	// Indirect resource indices
	TagCounterIndex
	TagRegisterIndex
	TagMeterIndex
	TagLpfIndex
	TagWredIndex

	// Counter
	TagCounterSpecBytes
	TagCounterSpecPackets

	// Meter
	TagMeterSpecCIRPPS
	TagMeterSpecPIRPPS
	TagMeterSpecCBSPkts
	TagMeterSpecPBSPkts
	TagMeterSpecCIRKbps
	TagMeterSpecPIRKbps
	TagMeterSpecCBSKbits
	TagMeterSpecPBSKbits

	// LPF
	TagLpfSpecType
	TagLpfSpecGainTimeConstant
	TagLpfSpecDecayTimeConstant
	TagLpfSpecOutputScaleDownFactor

	// WRED
	TagWredSpecTimeConstant
	TagWredSpecMinThreshold
	TagWredSpecMaxThreshold
	TagWredSpecMaxProbability

	// Register
	TagRegisterSpec
	TagRegisterSpecHi
	TagRegisterSpecLo

	// Identity and mode
	TagActionMemberID
	TagSelectorGroupID
	TagEntryHitState
	TagTTL
	TagSelectorMembers
	TagActionMemberStatus
	TagMaxGroupSize

	numTags
)

var tagNames = [numTags]string{
	TagNone:                         "NONE",
	TagActionParam:                  "ACTION_PARAM",
	TagActionParamOptimizedOut:      "ACTION_PARAM_OPTIMIZED_OUT",
	TagCounterIndex:                 "COUNTER_INDEX",
	TagRegisterIndex:                "REGISTER_INDEX",
	TagMeterIndex:                   "METER_INDEX",
	TagLpfIndex:                     "LPF_INDEX",
	TagWredIndex:                    "WRED_INDEX",
	TagCounterSpecBytes:             "COUNTER_SPEC_BYTES",
	TagCounterSpecPackets:           "COUNTER_SPEC_PACKETS",
	TagMeterSpecCIRPPS:              "METER_SPEC_CIR_PPS",
	TagMeterSpecPIRPPS:              "METER_SPEC_PIR_PPS",
	TagMeterSpecCBSPkts:             "METER_SPEC_CBS_PKTS",
	TagMeterSpecPBSPkts:             "METER_SPEC_PBS_PKTS",
	TagMeterSpecCIRKbps:             "METER_SPEC_CIR_KBPS",
	TagMeterSpecPIRKbps:             "METER_SPEC_PIR_KBPS",
	TagMeterSpecCBSKbits:            "METER_SPEC_CBS_KBITS",
	TagMeterSpecPBSKbits:            "METER_SPEC_PBS_KBITS",
	TagLpfSpecType:                  "LPF_SPEC_TYPE",
	TagLpfSpecGainTimeConstant:      "LPF_SPEC_GAIN_TIME_CONSTANT",
	TagLpfSpecDecayTimeConstant:     "LPF_SPEC_DECAY_TIME_CONSTANT",
	TagLpfSpecOutputScaleDownFactor: "LPF_SPEC_OUTPUT_SCALE_DOWN_FACTOR",
	TagWredSpecTimeConstant:         "WRED_SPEC_TIME_CONSTANT",
	TagWredSpecMinThreshold:         "WRED_SPEC_MIN_THRESHOLD",
	TagWredSpecMaxThreshold:         "WRED_SPEC_MAX_THRESHOLD",
	TagWredSpecMaxProbability:       "WRED_SPEC_MAX_PROBABILITY",
	TagRegisterSpec:                 "REGISTER_SPEC",
	TagRegisterSpecHi:               "REGISTER_SPEC_HI",
	TagRegisterSpecLo:               "REGISTER_SPEC_LO",
	TagActionMemberID:               "ACTION_MEMBER_ID",
	TagSelectorGroupID:              "SELECTOR_GROUP_ID",
	TagEntryHitState:                "ENTRY_HIT_STATE",
	TagTTL:                          "TTL",
	TagSelectorMembers:              "SELECTOR_MEMBERS",
	TagActionMemberStatus:           "ACTION_MEMBER_STATUS",
	TagMaxGroupSize:                 "MAX_GROUP_SIZE",
}

// NumTags is one more than the largest defined tag
const NumTags = int(numTags)

func (t FieldTag) String() string {
	if t < numTags {
		return tagNames[t]
	}
	return "FieldTag(" + strconv.Itoa(int(t)) + ")"
}

// Valid reports whether t is a defined tag other than TagNone
func (t FieldTag) Valid() bool {
	return t > TagNone && t < numTags
}

// TagSet is the set of tags published for one field
type TagSet uint64

// NewTagSet builds a set from the passed tags
func NewTagSet(tags ...FieldTag) TagSet {
	var s TagSet
	for _, t := range tags {
		s = s.With(t)
	}
	return s
}

// With returns s with t added
func (s TagSet) With(t FieldTag) TagSet {
	return s | 1<<t
}

// Has reports whether t is in s
func (s TagSet) Has(t FieldTag) bool {
	return s&(1<<t) != 0
}

// HasAny reports whether any of tags is in s
func (s TagSet) HasAny(tags ...FieldTag) bool {
	for _, t := range tags {
		if s.Has(t) {
			return true
		}
	}
	return false
}

// Len returns the number of tags in s
func (s TagSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Primary returns the lowest tag in s, or TagNone for an empty set
func (s TagSet) Primary() FieldTag {
	if s == 0 {
		return TagNone
	}
	return FieldTag(bits.TrailingZeros64(uint64(s)))
}

// Tags returns the members of s in ascending order
func (s TagSet) Tags() []FieldTag {
	out := make([]FieldTag, 0, s.Len())
	for rest := uint64(s); rest != 0; rest &= rest - 1 {
		out = append(out, FieldTag(bits.TrailingZeros64(rest)))
	}
	return out
}

func (s TagSet) String() string {
	str := "{"
	for i, t := range s.Tags() {
		if i != 0 {
			str += ","
		}
		str += t.String()
	}
	return str + "}"
}
