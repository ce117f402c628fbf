package register

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_GetSet(t *testing.T) {
	f := Range("mid", 15, 8)
	assert.Equal(t, uint64(0xff00), f.Mask())
	assert.Equal(t, uint64(0xff), f.Max())
	assert.Equal(t, uint64(0xab), f.Get(0x12ab34))

	w, err := f.Set(0x12ab34, 0xcd)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x12cd34), w, "bits outside the field must be kept")

	_, err = f.Set(0, 0x100)
	var re *RangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "mid", re.Field)
	assert.Equal(t, uint(8), re.Width)
	assert.Equal(t, uint64(0x100), re.Value)
}

func TestField_Flag(t *testing.T) {
	b := Bit("b", 38)
	w := b.SetFlag(0, true)
	assert.Equal(t, uint64(1)<<38, w)
	assert.True(t, b.Flag(w))
	assert.False(t, b.Flag(b.SetFlag(w, false)))
	assert.Equal(t, "b[38]", b.String())
	assert.Equal(t, "tdp[14:0]", tdp.String())
}

func TestPlatformInfo_Decode(t *testing.T) {
	// ratio 0x13, both programmable bits, minimum ratio 0x09
	raw := uint64(0x09)<<40 | 1<<29 | 1<<28 | 0x13<<8
	p := DecodePlatformInfo(raw)
	assert.Equal(t, uint8(0x13), p.MaxNonTurboRatio())
	assert.True(t, p.TurboRatioProgrammable())
	assert.True(t, p.TDCTDPProgrammable())
	assert.Equal(t, uint8(0x09), p.MinimumRatio())
	assert.Equal(t, raw, p.Raw())

	p = DecodePlatformInfo(1 << 28)
	assert.True(t, p.TurboRatioProgrammable())
	assert.False(t, p.TDCTDPProgrammable())
}

func TestMiscEnable_TurboDisable(t *testing.T) {
	m := DecodeMiscEnable(0x850089)
	assert.False(t, m.TurboDisable())
	m.SetTurboDisable(true)
	assert.True(t, m.TurboDisable())
	assert.Equal(t, uint64(0x850089)|1<<38, m.Raw())
}

func TestTemperatureTarget_TJMax(t *testing.T) {
	assert.Equal(t, uint8(105), DecodeTemperatureTarget(105<<16|0xff).TJMax())
}

func TestTurboLimits_Decode(t *testing.T) {
	raw := uint64(1)<<31 | uint64(0x1c0)<<16 | 160
	l := DecodeTurboLimits(raw)
	assert.Equal(t, uint16(160), l.TDP())
	assert.False(t, l.TDPOverride())
	assert.Equal(t, uint16(0x1c0), l.TDC())
	assert.True(t, l.TDCOverride())
}

func TestTurboLimits_RoundTrip(t *testing.T) {
	for _, raw := range []uint64{0, ^uint64(0), 0xdeadbeefcafef00d, 0x8000_0000_0000_00a0, 0x7fff} {
		t.Run(fmt.Sprintf("%#x", raw), func(t *testing.T) {
			assert.Equal(t, raw, DecodeTurboLimits(raw).Raw())
		})
	}
}

func TestTurboLimits_SetKeepsReservedBits(t *testing.T) {
	const reserved = uint64(0xffff_ffff_0000_0000)
	l := DecodeTurboLimits(reserved)

	require.NoError(t, l.SetTDP(35*8))
	l.SetTDPOverride(true)
	require.NoError(t, l.SetTDC(50*8))
	l.SetTDCOverride(true)

	assert.Equal(t, reserved, l.Raw()&reserved)
	assert.Equal(t, uint16(280), l.TDP())
	assert.Equal(t, uint16(400), l.TDC())
	assert.True(t, l.TDPOverride())
	assert.True(t, l.TDCOverride())
}

func TestTurboLimits_SetTDPScale(t *testing.T) {
	for v := uint64(0); v <= 511; v++ {
		var l TurboLimits
		require.NoError(t, l.SetTDP(v*8))
		got := DecodeTurboLimits(l.Raw())
		require.Equal(t, uint16(v*8), got.TDP())
		require.Equal(t, float64(v), float64(got.TDP())/8.0)
	}
}

func TestTurboLimits_SetOverflow(t *testing.T) {
	l := DecodeTurboLimits(0x1234)
	err := l.SetTDP(1 << 15)
	var re *RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "tdp", re.Field)
	assert.Equal(t, uint64(0x1234), l.Raw(), "failed set must not modify the register")

	err = l.SetTDC(0x8000)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "tdc", re.Field)

	assert.NoError(t, l.SetTDC(0x7fff))
	assert.False(t, l.TDCOverride(), "tdc must not spill into the override bit")
}

func TestTurboRatios_Decode(t *testing.T) {
	r := DecodeTurboRatios(0x00_00_1e_19)
	assert.Equal(t, uint8(0x19), r.OneCore())
	assert.Equal(t, uint8(0x1e), r.TwoCores())
	assert.Equal(t, uint8(0), r.ThreeCores())
	assert.Equal(t, uint8(0), r.FourCores())

	r = DecodeTurboRatios(0x10_11_12_13)
	for n, want := range []uint8{0x13, 0x12, 0x11, 0x10} {
		assert.Equal(t, want, r.Ratio(n+1), "n=%d", n+1)
	}
	assert.Equal(t, uint8(0), r.Ratio(0))
	assert.Equal(t, uint8(0), r.Ratio(MaxActiveCores+1))
}
