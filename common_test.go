// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package actionspec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/schema"
)

type testDirection int

const (
	bothTest testDirection = iota
	encodeTest
	decodeTest
)

// Resource table handles of the test schema
const (
	hdlCounter  = 0x10
	hdlMeter    = 0x20
	hdlLpf      = 0x30
	hdlWred     = 0x40
	hdlRegister = 0x50
)

// Actions of the test schema
const (
	actForward = 1
	actCount   = 2
	actMac     = 3
)

// Action fields. Ids are scoped to their action.
const (
	// forward
	fPort = 1
	fVlan = 2

	// count
	fCounterIdx = 1
	fMeterIdx   = 2
	fPad        = 3

	// mac
	fMac = 1
)

// Common fields
const (
	fCounterBytes   = 100
	fCounterPackets = 101

	fCIRKbps  = 110
	fCIRPPS   = 111
	fPIRKbps  = 112
	fPIRPPS   = 113
	fCBSKbits = 114
	fCBSPkts  = 115
	fPBSKbits = 116
	fPBSPkts  = 117

	fLpfType      = 120
	fLpfGain      = 121
	fLpfDecay     = 122
	fLpfScaleDown = 123
	fLpfWideIdx   = 124

	fWredTimeConstant = 130
	fWredMinThreshold = 131
	fWredMaxThreshold = 132
	fWredMaxProb      = 133

	fRegister   = 140
	fRegisterHi = 141
	fRegisterLo = 142
	fRegisterW3 = 143

	fTTL       = 150
	fHitState  = 151
	fMemberID  = 152
	fGroupID   = 153
	fGroupSize = 160
	fMembers   = 161
	fStatus    = 162
)

const defaultGroupSize = 120

func tagSet(t ...specinterfaces.FieldTag) specinterfaces.TagSet {
	return specinterfaces.NewTagSet(t...)
}

// newTestSchema builds the table every record test runs against
func newTestSchema() *schema.Table {
	check := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	t := schema.New("test")
	check(t.SetResourceHandle(specinterfaces.TagCounterIndex, hdlCounter))
	check(t.SetResourceHandle(specinterfaces.TagMeterIndex, hdlMeter))
	check(t.SetResourceHandle(specinterfaces.TagLpfIndex, hdlLpf))
	check(t.SetResourceHandle(specinterfaces.TagWredIndex, hdlWred))
	check(t.SetResourceHandle(specinterfaces.TagRegisterIndex, hdlRegister))

	check(t.AddAction(actForward, "forward", 4, 32))
	check(t.AddAction(actCount, "count", 8, 64))
	check(t.AddAction(actMac, "mac", 6, 48))

	u64 := specinterfaces.TypeUint64
	fl := specinterfaces.TypeFloat
	fields := []specinterfaces.FieldDescriptor{
		{ID: fPort, Name: "port", ActionID: actForward, BitSize: 9, ByteOffset: 0, Tags: tagSet(specinterfaces.TagActionParam)},
		{ID: fVlan, Name: "vlan", ActionID: actForward, BitSize: 12, ByteOffset: 2, Tags: tagSet(specinterfaces.TagActionParam)},

		{ID: fCounterIdx, Name: "ctr_idx", ActionID: actCount, BitSize: 32, ByteOffset: 0,
			Tags: tagSet(specinterfaces.TagActionParam, specinterfaces.TagCounterIndex)},
		{ID: fMeterIdx, Name: "meter_idx", ActionID: actCount, BitSize: 16, ByteOffset: 4,
			Tags: tagSet(specinterfaces.TagMeterIndex)},
		{ID: fPad, Name: "pad", ActionID: actCount, BitSize: 16, ByteOffset: 6,
			Tags: tagSet(specinterfaces.TagActionParamOptimizedOut)},

		{ID: fMac, Name: "mac", ActionID: actMac, BitSize: 48, Type: specinterfaces.TypeBytes,
			Tags: tagSet(specinterfaces.TagActionParam)},

		{ID: fCounterBytes, Name: "$COUNTER_SPEC_BYTES", BitSize: 64, Type: u64, Tags: tagSet(specinterfaces.TagCounterSpecBytes)},
		{ID: fCounterPackets, Name: "$COUNTER_SPEC_PKTS", BitSize: 64, Type: u64, Tags: tagSet(specinterfaces.TagCounterSpecPackets)},

		{ID: fCIRKbps, Name: "$METER_SPEC_CIR_KBPS", BitSize: 64, Tags: tagSet(specinterfaces.TagMeterSpecCIRKbps)},
		{ID: fCIRPPS, Name: "$METER_SPEC_CIR_PPS", BitSize: 64, Tags: tagSet(specinterfaces.TagMeterSpecCIRPPS)},
		{ID: fPIRKbps, Name: "$METER_SPEC_PIR_KBPS", BitSize: 64, Tags: tagSet(specinterfaces.TagMeterSpecPIRKbps)},
		{ID: fPIRPPS, Name: "$METER_SPEC_PIR_PPS", BitSize: 64, Tags: tagSet(specinterfaces.TagMeterSpecPIRPPS)},
		{ID: fCBSKbits, Name: "$METER_SPEC_CBS_KBITS", BitSize: 64, Tags: tagSet(specinterfaces.TagMeterSpecCBSKbits)},
		{ID: fCBSPkts, Name: "$METER_SPEC_CBS_PKTS", BitSize: 64, Tags: tagSet(specinterfaces.TagMeterSpecCBSPkts)},
		{ID: fPBSKbits, Name: "$METER_SPEC_PBS_KBITS", BitSize: 64, Tags: tagSet(specinterfaces.TagMeterSpecPBSKbits)},
		{ID: fPBSPkts, Name: "$METER_SPEC_PBS_PKTS", BitSize: 64, Tags: tagSet(specinterfaces.TagMeterSpecPBSPkts)},

		{ID: fLpfType, Name: "$LPF_SPEC_TYPE", Type: specinterfaces.TypeString, Tags: tagSet(specinterfaces.TagLpfSpecType)},
		{ID: fLpfGain, Name: "$LPF_SPEC_GAIN_TIME_CONSTANT_NS", Type: fl, Tags: tagSet(specinterfaces.TagLpfSpecGainTimeConstant)},
		{ID: fLpfDecay, Name: "$LPF_SPEC_DECAY_TIME_CONSTANT_NS", Type: fl, Tags: tagSet(specinterfaces.TagLpfSpecDecayTimeConstant)},
		{ID: fLpfScaleDown, Name: "$LPF_SPEC_OUT_SCALE_DOWN_FACTOR", BitSize: 32, Tags: tagSet(specinterfaces.TagLpfSpecOutputScaleDownFactor)},
		{ID: fLpfWideIdx, Name: "lpf_idx", BitSize: 40, Tags: tagSet(specinterfaces.TagLpfIndex)},

		{ID: fWredTimeConstant, Name: "$WRED_SPEC_TIME_CONSTANT_NS", Type: fl, Tags: tagSet(specinterfaces.TagWredSpecTimeConstant)},
		{ID: fWredMinThreshold, Name: "$WRED_SPEC_MIN_THRESHOLD_CELLS", BitSize: 32, Tags: tagSet(specinterfaces.TagWredSpecMinThreshold)},
		{ID: fWredMaxThreshold, Name: "$WRED_SPEC_MAX_THRESHOLD_CELLS", BitSize: 32, Tags: tagSet(specinterfaces.TagWredSpecMaxThreshold)},
		{ID: fWredMaxProb, Name: "$WRED_SPEC_MAX_PROBABILITY", Type: fl, Tags: tagSet(specinterfaces.TagWredSpecMaxProbability)},

		{ID: fRegister, Name: "reg", BitSize: 32, Tags: tagSet(specinterfaces.TagRegisterSpec)},
		{ID: fRegisterHi, Name: "reg.hi", BitSize: 16, Tags: tagSet(specinterfaces.TagRegisterSpecHi)},
		{ID: fRegisterLo, Name: "reg.lo", BitSize: 16, Tags: tagSet(specinterfaces.TagRegisterSpecLo)},
		{ID: fRegisterW3, Name: "reg.w3", BitSize: 3, Tags: tagSet(specinterfaces.TagRegisterSpec)},

		{ID: fTTL, Name: "$ENTRY_TTL", BitSize: 32, Tags: tagSet(specinterfaces.TagTTL)},
		{ID: fHitState, Name: "$ENTRY_HIT_STATE", Type: specinterfaces.TypeString, Tags: tagSet(specinterfaces.TagEntryHitState),
			Choices: []string{"ENTRY_IDLE", "ENTRY_ACTIVE"}},
		{ID: fMemberID, Name: "$ACTION_MEMBER_ID", BitSize: 32, Tags: tagSet(specinterfaces.TagActionMemberID)},
		{ID: fGroupID, Name: "$SELECTOR_GROUP_ID", BitSize: 32, Tags: tagSet(specinterfaces.TagSelectorGroupID)},

		{ID: fGroupSize, Name: "$MAX_GROUP_SIZE", BitSize: 32, Default: defaultGroupSize, Tags: tagSet(specinterfaces.TagMaxGroupSize)},
		{ID: fMembers, Name: "$SELECTOR_MEMBERS", Type: specinterfaces.TypeIntArray, Tags: tagSet(specinterfaces.TagSelectorMembers)},
		{ID: fStatus, Name: "$ACTION_MEMBER_STATUS", Type: specinterfaces.TypeBoolArray, Tags: tagSet(specinterfaces.TagActionMemberStatus)},
	}
	for _, f := range fields {
		check(t.AddField(f))
	}
	return t
}

var testSchema = newTestSchema()

func newTestRecord(t *testing.T, actionID uint32, opts ...Option) *MatchActionRecord {
	t.Helper()
	r, err := NewMatchActionRecord(testSchema, testSchema, actionID, opts...)
	require.NoError(t, err, "NewMatchActionRecord")
	return r
}

// setAny stores v through the setter matching its type
func setAny(r *MatchActionRecord, id uint32, v interface{}) error {
	switch v := v.(type) {
	case uint64:
		return r.SetValue(id, v)
	case []byte:
		return r.SetValueBytes(id, v)
	case float32:
		return r.SetValueFloat(id, v)
	case bool:
		return r.SetValueBool(id, v)
	case string:
		return r.SetValueString(id, v)
	case []uint32:
		return r.SetValueIntArray(id, v)
	case []bool:
		return r.SetValueBoolArray(id, v)
	default:
		panic("setAny: unsupported value type")
	}
}

// getAny reads a value of the same type as like through the matching getter
func getAny(r *MatchActionRecord, id uint32, like interface{}) (interface{}, error) {
	switch like := like.(type) {
	case uint64:
		return r.GetValue(id)
	case []byte:
		return r.GetValueBytes(id, len(like))
	case float32:
		return r.GetValueFloat(id)
	case bool:
		return r.GetValueBool(id)
	case string:
		return r.GetValueString(id)
	case []uint32:
		return r.GetValueIntArray(id)
	case []bool:
		return r.GetValueBoolArray(id)
	default:
		panic("getAny: unsupported value type")
	}
}

type testcase struct {
	// Name of this test case
	Name string

	// Which directions to run this test in (defaults to both)
	Direction testDirection

	// Action the record is created for, and record options
	Action  uint32
	Options []Option

	Field uint32

	// The value to set, or to compare against on get. Its type selects the
	// setter and getter used.
	Value interface{}

	// The action data expected after setting Value. A decode-only test
	// loads it into the record instead.
	Data []byte

	// Error expected on set / get
	EncErrorIs error
	DecErrorIs error

	// Comparator to use (instead of default) after a successful get
	DecodeComparator func(t *testing.T, expt, actual interface{})
}

func RunTestcases(t *testing.T, tcs []testcase) {
	for i := range tcs {
		tc := &tcs[i]
		if tc.DecodeComparator == nil {
			tc.DecodeComparator = func(t *testing.T, l, r interface{}) {
				t.Helper()
				assert.Equal(t, l, r, "get output should match")
			}
		}
	}

	t.Parallel()

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			if tc.Direction != decodeTest {
				t.Run("Encode", func(t *testing.T) {
					t.Parallel()
					r := newTestRecord(t, tc.Action, tc.Options...)

					err := setAny(r, tc.Field, tc.Value)
					if tc.EncErrorIs != nil {
						require.Error(t, err, "Set should have returned an error")
						require.Truef(t, errors.Is(err, tc.EncErrorIs), "Error expected to be %s, but was %s", tc.EncErrorIs, err)
						return
					}
					require.NoError(t, err, "Set should succeed")
					if tc.Data != nil {
						assert.Equal(t, tc.Data, r.ActionSpec().Data, "action data should match")
					}
				})
			}

			if tc.Direction != encodeTest {
				t.Run("Decode", func(t *testing.T) {
					t.Parallel()
					r := newTestRecord(t, tc.Action, tc.Options...)

					if tc.Direction == decodeTest {
						as := r.ActionSpec()
						as.Data = tc.Data
						r.LoadActionSpec(as)
					} else {
						require.NoError(t, setAny(r, tc.Field, tc.Value), "Set should succeed")
					}

					v, err := getAny(r, tc.Field, tc.Value)
					if tc.DecErrorIs != nil {
						if assert.Error(t, err, "Get should have returned an error") {
							assert.Truef(t, errors.Is(err, tc.DecErrorIs), "Error expected to be %s, but was %s", tc.DecErrorIs, err)
						}
						return
					}
					require.NoError(t, err, "Get should succeed")
					tc.DecodeComparator(t, tc.Value, v)
				})
			}
		})
	}
}
