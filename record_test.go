// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package actionspec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	specinterfaces "go.e43.eu/actionspec/interfaces"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDirectCounter(t *testing.T) {
	r := newTestRecord(t, actForward)
	require.NoError(t, r.SetValue(fPort, 5))
	require.NoError(t, r.SetValue(fCounterBytes, 1500))
	require.NoError(t, r.SetValue(fCounterPackets, 10))
	// Writing again must reuse the slot
	require.NoError(t, r.SetValue(fCounterBytes, 1501))

	expected := &ActionSpec{
		Data:   []byte{0x00, 0x05, 0x00, 0x00},
		BitLen: 32,
		Resources: []ResourceSpec{{
			TableHandle: hdlCounter,
			Tag:         TagAttached,
			Direct:      true,
			Kind:        KindCounter,
			Counter:     CounterSpec{Bytes: 1501, Packets: 10},
		}},
		DirectCount: 1,
		Type:        ActionData,
	}
	if diff := cmp.Diff(expected, r.ActionSpec()); diff != "" {
		t.Errorf("action spec mismatch (-want +got):\n%s", diff)
	}
}

func TestIndirectResources(t *testing.T) {
	r := newTestRecord(t, actCount)
	require.NoError(t, r.SetValue(fCounterIdx, 7))
	require.NoError(t, r.SetValue(fMeterIdx, 9))
	require.NoError(t, r.SetValue(fCounterIdx, 8))

	as := r.ActionSpec()
	assert.Equal(t, []byte{0, 0, 0, 8, 0, 0, 0, 0}, as.Data)
	assert.Equal(t, 0, as.DirectCount)
	assert.Equal(t, 2, as.IndirectCount)
	require.Len(t, as.Resources, 2)

	assert.Equal(t, uint32(hdlCounter), as.Resources[0].TableHandle)
	assert.Equal(t, uint32(8), as.Resources[0].Index)
	assert.Equal(t, TagAttached, as.Resources[0].Tag)
	assert.False(t, as.Resources[0].Direct)

	assert.Equal(t, uint32(hdlMeter), as.Resources[1].TableHandle)
	assert.Equal(t, uint32(9), as.Resources[1].Index)

	v, err := r.GetValue(fMeterIdx)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), v)
}

func TestUnattachedResourceReadsZero(t *testing.T) {
	r := newTestRecord(t, actForward)
	v, err := r.GetValue(fCounterBytes)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
	assert.Empty(t, r.ActionSpec().Resources)
}

func TestMemberGroupExclusion(t *testing.T) {
	r, err := NewMatchActionIndirectRecord(testSchema, testSchema, 0)
	require.NoError(t, err)
	assert.True(t, r.IsIndirect())

	require.NoError(t, r.SetValue(fMemberID, 5))
	assert.Equal(t, ActionDataHandle, r.ActionType())
	// Setting the same kind again is fine
	require.NoError(t, r.SetValue(fMemberID, 6))

	err = r.SetValue(fGroupID, 3)
	assert.ErrorIs(t, err, ErrMutuallyExclusive)

	var fe FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, uint32(fGroupID), fe.Field)
	assert.Equal(t, specinterfaces.TagSelectorGroupID.String(), fe.Tag.String())

	r.Reset()
	assert.Equal(t, ActionData, r.ActionType())
	require.NoError(t, r.SetValue(fGroupID, 3))
	assert.Equal(t, SelectorGroupHandle, r.ActionType())
	assert.ErrorIs(t, r.SetValue(fMemberID, 5), ErrMutuallyExclusive)

	v, err := r.GetValue(fGroupID)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)
}

func TestResetAction(t *testing.T) {
	r := newTestRecord(t, actForward)
	require.NoError(t, r.SetValue(fPort, 5))
	require.NoError(t, r.SetValue(fCounterBytes, 1))
	buf := &r.spec.Data[0]

	// Same action: buffer kept and zeroed
	require.NoError(t, r.ResetAction(actForward))
	assert.Same(t, buf, &r.spec.Data[0])
	assert.Equal(t, []byte{0, 0, 0, 0}, r.spec.Data)
	assert.Empty(t, r.spec.Resources)
	assert.Equal(t, 0, r.spec.DirectCount)

	// Different action: sized for it
	require.NoError(t, r.ResetAction(actMac))
	assert.Equal(t, uint32(actMac), r.ActionID())
	assert.Len(t, r.spec.Data, 6)
	assert.Equal(t, uint(48), r.spec.BitLen)

	// No action: sized for the largest
	require.NoError(t, r.ResetAction(0))
	assert.Len(t, r.spec.Data, 8)

	assert.ErrorIs(t, r.ResetAction(99), ErrActionNotFound)

	_, err := NewMatchActionRecord(testSchema, testSchema, 99)
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestLpfGainDecay(t *testing.T) {
	r := newTestRecord(t, actForward)
	lpf := func() LpfSpec {
		as := r.ActionSpec()
		require.Len(t, as.Resources, 1)
		return as.Resources[0].Lpf
	}

	require.NoError(t, r.SetValueString(fLpfType, "RATE"))
	assert.True(t, lpf().RateEnable)

	require.NoError(t, r.SetValueFloat(fLpfGain, 2))
	assert.True(t, lpf().GainDecaySeparate, "gain 2, decay 0")

	require.NoError(t, r.SetValueFloat(fLpfDecay, 2))
	assert.False(t, lpf().GainDecaySeparate, "gain 2, decay 2")
	assert.Equal(t, float32(2), lpf().TimeConstant)

	require.NoError(t, r.SetValueFloat(fLpfDecay, 3))
	assert.True(t, lpf().GainDecaySeparate, "gain 2, decay 3")
	assert.Equal(t, float32(2), lpf().TimeConstant)

	require.NoError(t, r.SetValueFloat(fLpfGain, 3))
	assert.False(t, lpf().GainDecaySeparate, "gain 3, decay 3")
	assert.Equal(t, float32(3), lpf().TimeConstant)

	gain, err := r.GetValueFloat(fLpfGain)
	require.NoError(t, err)
	assert.Equal(t, float32(3), gain)
}

func TestMeterUnits(t *testing.T) {
	r := newTestRecord(t, actForward)
	require.NoError(t, r.SetValue(fCIRKbps, 1000))
	require.NoError(t, r.SetValue(fPIRKbps, 2000))
	require.NoError(t, r.SetValue(fCBSKbits, 16))

	m := r.ActionSpec().Resources[0].Meter
	assert.Equal(t, RateValue{Unit: UnitKBPS, Value: 1000}, m.CIR)
	assert.Equal(t, RateValue{Unit: UnitKBPS, Value: 2000}, m.PIR)
	assert.Equal(t, uint64(16), m.CBurst)

	// Reading through the other unit returns the stored value unconverted
	v, err := r.GetValue(fCIRPPS)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), v)
	v, err = r.GetValue(fCBSPkts)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), v)

	require.NoError(t, r.SetValue(fCIRPPS, 50))
	m = r.ActionSpec().Resources[0].Meter
	assert.Equal(t, RateValue{Unit: UnitPPS, Value: 50}, m.CIR)
}

func TestActionSpecDeepCopy(t *testing.T) {
	r := newTestRecord(t, actForward)
	require.NoError(t, r.SetValue(fPort, 1))
	require.NoError(t, r.SetValue(fCounterBytes, 100))

	c := r.ActionSpec()
	c.Data[1] = 0xff
	c.Resources[0].Counter.Bytes = 999

	v, err := r.GetValue(fPort)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
	v, err = r.GetValue(fCounterBytes)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), v)

	other := newTestRecord(t, actForward)
	r.CopyActionSpec(other.spec)
	if diff := cmp.Diff(r.ActionSpec(), other.ActionSpec()); diff != "" {
		t.Errorf("copied spec differs (-src +dst):\n%s", diff)
	}

	// Hardware read back path
	other.LoadActionSpec(c)
	v, err = other.GetValue(fCounterBytes)
	require.NoError(t, err)
	assert.Equal(t, uint64(999), v)
	c.Resources[0].Counter.Bytes = 1
	v, err = other.GetValue(fCounterBytes)
	require.NoError(t, err)
	assert.Equal(t, uint64(999), v)
}

func TestRegisterOnActionRecord(t *testing.T) {
	r := newTestRecord(t, actForward)
	require.NoError(t, r.SetValue(fRegisterHi, 0x1234))
	require.NoError(t, r.SetValue(fRegisterLo, 0x5678))

	as := r.ActionSpec()
	require.Len(t, as.Resources, 1)
	assert.Equal(t, RegisterSpec{Width: 16, Dual: true, Lo: 0x5678, Hi: 0x1234}, as.Resources[0].Register)

	vs, err := r.GetValueU64Array(fRegisterLo)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0x5678}, vs)

	_, err = r.GetValueU64Array(fPort)
	assert.ErrorIs(t, err, ErrIncompatibleRepresentation)
}

func TestActionProfileRecord(t *testing.T) {
	r, err := NewActionProfileRecord(testSchema, testSchema, actCount)
	require.NoError(t, err)

	require.NoError(t, r.SetValue(fCounterIdx, 7))
	require.NoError(t, r.SetValue(fMeterIdx, 3))

	idx, ok := r.ResourceIndex(specinterfaces.TagCounterIndex)
	assert.True(t, ok)
	assert.Equal(t, uint32(7), idx)
	assert.Equal(t, map[FieldTag]uint32{
		specinterfaces.TagCounterIndex: 7,
		specinterfaces.TagMeterIndex:   3,
	}, r.ResourceMap())

	assert.ErrorIs(t, r.SetValue(fMemberID, 1), ErrNotApplicable)
	assert.ErrorIs(t, r.SetValue(fTTL, 1), ErrNotApplicable)

	require.NoError(t, r.ResetAction(actForward))
	assert.Empty(t, r.ResourceMap())
	_, ok = r.ResourceIndex(specinterfaces.TagCounterIndex)
	assert.False(t, ok)
}

func TestSelectorRecord(t *testing.T) {
	r, err := NewSelectorRecord(testSchema)
	require.NoError(t, err)

	size, err := r.GetValue(fGroupSize)
	require.NoError(t, err)
	assert.Equal(t, uint64(defaultGroupSize), size)

	require.NoError(t, r.SetValueIntArray(fMembers, []uint32{1, 2, 3}))
	require.NoError(t, r.SetValueBoolArray(fStatus, []bool{true, false, true}))

	members, err := r.GetValueIntArray(fMembers)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, members)
	members[0] = 100
	members, err = r.GetValueIntArray(fMembers)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, members, "getter must return a copy")

	status, err := r.GetValueBoolArray(fStatus)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, status)

	assert.ErrorIs(t, r.SetValue(fCounterBytes, 1), ErrNotApplicable)
	assert.ErrorIs(t, r.SetValueIntArray(fGroupSize, []uint32{1}), ErrIncompatibleRepresentation)

	r.Reset()
	members, err = r.GetValueIntArray(fMembers)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestSelectorRecordExplicitGroupSize(t *testing.T) {
	r, err := NewSelectorRecord(testSchema, WithActiveFields(fGroupSize, fMembers))
	require.NoError(t, err)

	size, err := r.GetValue(fGroupSize)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), size)

	assert.ErrorIs(t, r.SetValueBoolArray(fStatus, []bool{true}), ErrFieldInactive)
	assert.True(t, r.IsActive(fMembers))
	assert.False(t, r.IsActive(fStatus))
}

func TestCounterRecord(t *testing.T) {
	r := NewCounterRecord(testSchema)
	require.NoError(t, r.SetValue(fCounterBytes, 64))
	require.NoError(t, r.SetValueBytes(fCounterPackets, []byte{0, 0, 0, 0, 0, 0, 0, 1}))
	assert.Equal(t, CounterSpec{Bytes: 64, Packets: 1}, r.CounterSpec())

	r.SetCounterSpec(CounterSpec{Bytes: 1 << 33, Packets: 2})
	v, err := r.GetValue(fCounterBytes)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<33), v)

	assert.ErrorIs(t, r.SetValue(fCIRKbps, 1), ErrNotApplicable)
	assert.ErrorIs(t, r.SetValue(fPort, 1), ErrFieldNotFound)

	r.Reset()
	assert.Equal(t, CounterSpec{}, r.CounterSpec())
	require.NoError(t, r.SetValue(fCounterBytes, 1))
}

func TestMeterRecord(t *testing.T) {
	r := NewMeterRecord(testSchema)
	require.NoError(t, r.SetValue(fCIRPPS, 10))
	require.NoError(t, r.SetValue(fPIRPPS, 20))
	require.NoError(t, r.SetValue(fPBSPkts, 5))
	assert.Equal(t, MeterSpec{
		CIR:    RateValue{Unit: UnitPPS, Value: 10},
		PIR:    RateValue{Unit: UnitPPS, Value: 20},
		PBurst: 5,
	}, r.MeterSpec())

	r.SetMeterDataFromMeterSpec(MeterSpec{
		CIR: RateValue{Unit: UnitKBPS, Value: 300},
		PIR: RateValue{Unit: UnitKBPS, Value: 400},
	})
	v, err := r.GetValue(fPIRKbps)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), v)

	assert.Panics(t, func() {
		r.SetMeterDataFromMeterSpec(MeterSpec{
			CIR: RateValue{Unit: UnitKBPS, Value: 300},
			PIR: RateValue{Unit: UnitPPS, Value: 400},
		})
	})
}

func TestLpfRecord(t *testing.T) {
	r := NewLpfRecord(testSchema)
	require.NoError(t, r.SetValueString(fLpfType, "SAMPLE"))
	require.NoError(t, r.SetValueFloat(fLpfGain, 1.25))
	require.NoError(t, r.SetValueFloat(fLpfDecay, 1.25))
	require.NoError(t, r.SetValue(fLpfScaleDown, 3))
	assert.Equal(t, LpfSpec{
		TimeConstant:          1.25,
		GainTimeConstant:      1.25,
		DecayTimeConstant:     1.25,
		OutputScaleDownFactor: 3,
	}, r.LpfSpec())

	assert.ErrorIs(t, r.SetValueString(fLpfType, "BOGUS"), ErrInvalidEnumValue)

	r.SetLpfSpec(LpfSpec{RateEnable: true})
	s, err := r.GetValueString(fLpfType)
	require.NoError(t, err)
	assert.Equal(t, "RATE", s)
}

func TestWredRecord(t *testing.T) {
	r := NewWredRecord(testSchema)
	require.NoError(t, r.SetValue(fWredMinThreshold, 10))
	require.NoError(t, r.SetValue(fWredMaxThreshold, 90))
	require.NoError(t, r.SetValueFloat(fWredTimeConstant, 100))
	require.NoError(t, r.SetValueFloat(fWredMaxProb, 0.5))
	assert.Equal(t, WredSpec{MinThreshold: 10, MaxThreshold: 90, TimeConstant: 100, MaxProbability: 0.5}, r.WredSpec())

	r.SetWredSpec(WredSpec{MaxProbability: 0.75})
	p, err := r.GetValueFloat(fWredMaxProb)
	require.NoError(t, err)
	assert.Equal(t, float32(0.75), p)

	assert.ErrorIs(t, r.SetValue(fCounterBytes, 1), ErrNotApplicable)
}

func TestFailureLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newTestRecord(t, actForward, WithLogger(zap.New(core)))

	assert.ErrorIs(t, r.SetValue(fPort, 1<<9), ErrOutOfBounds)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Set field failed", entry.Message)
	assert.Equal(t, map[string]interface{}{
		"action": uint32(actForward),
		"error": map[string]interface{}{
			"cause": ErrOutOfBounds.Error(),
			"field": uint32(fPort),
		},
	}, entry.ContextMap())

	_, err := r.GetValue(9999)
	assert.ErrorIs(t, err, ErrFieldNotFound)
	assert.Equal(t, 1, logs.FilterMessage("Get field failed").Len())
}

func TestRejectedResourceWrite(t *testing.T) {
	r := newTestRecord(t, actForward)

	assert.ErrorIs(t, r.SetValueString(fLpfType, "BOGUS"), ErrInvalidEnumValue)
	assert.ErrorIs(t, r.SetValue(fRegisterW3, 5), ErrInvalidRegisterWidth)
	assert.ErrorIs(t, r.SetValue(fLpfWideIdx, 1<<32), ErrOutOfBounds)

	as := r.ActionSpec()
	assert.Empty(t, as.Resources)
	assert.Equal(t, 0, as.DirectCount)
	assert.Equal(t, 0, as.IndirectCount)

	// A rejected write leaves an attached slot as it was
	require.NoError(t, r.SetValueString(fLpfType, "RATE"))
	require.NoError(t, r.SetValue(fLpfScaleDown, 3))
	before := r.ActionSpec()
	assert.ErrorIs(t, r.SetValueString(fLpfType, "BOGUS"), ErrInvalidEnumValue)
	if diff := cmp.Diff(before, r.ActionSpec()); diff != "" {
		t.Errorf("action spec changed (-before +after):\n%s", diff)
	}

	require.NoError(t, r.SetValue(fLpfWideIdx, 1<<32-1))
	v, err := r.GetValue(fLpfWideIdx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<32-1), v)
}

func TestRejectedResourceRecordWrite(t *testing.T) {
	r := NewLpfRecord(testSchema)
	require.NoError(t, r.SetValue(fLpfScaleDown, 3))
	before := r.LpfSpec()

	assert.ErrorIs(t, r.SetValueString(fLpfType, "BOGUS"), ErrInvalidEnumValue)
	assert.Equal(t, before, r.LpfSpec())
}
