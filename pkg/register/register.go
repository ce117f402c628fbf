// Package register holds the bit layouts of the Arrandale turbo and thermal
// MSRs. Each layout is a named uint64: decoding is a conversion and Raw
// encodes it back, so reserved bits survive a read-modify-write cycle.
package register

// MSR addresses (Intel SDM vol. 4, table for 06_25H).
const (
	PlatformInfoAddr      uint32 = 0xce
	MiscEnableAddr        uint32 = 0x1a0
	TemperatureTargetAddr uint32 = 0x1a2
	TurboLimitsAddr       uint32 = 0x1ac
	TurboRatiosAddr       uint32 = 0x1ad
)

var (
	maxNonTurboRatio       = Range("max_non_turbo_ratio", 15, 8)
	programmableTurboRatio = Bit("programmable_turbo_ratio", 28)
	programmableTDCTDP     = Bit("programmable_tdc_tdp", 29)
	minimumRatio           = Range("minimum_ratio", 47, 40)

	turboDisable = Bit("turbo_disable", 38)

	tjmax = Range("tjmax", 23, 16)

	tdp         = Range("tdp", 14, 0)
	tdpOverride = Bit("tdp_override", 15)
	tdc         = Range("tdc", 30, 16)
	tdcOverride = Bit("tdc_override", 31)

	oneCore    = Range("one_core", 7, 0)
	twoCores   = Range("two_cores", 15, 8)
	threeCores = Range("three_cores", 23, 16)
	fourCores  = Range("four_cores", 31, 24)
)

// PlatformInfo is MSR_PLATFORM_INFO. Read-only.
type PlatformInfo uint64

func DecodePlatformInfo(raw uint64) PlatformInfo { return PlatformInfo(raw) }

func (p PlatformInfo) Raw() uint64 { return uint64(p) }

func (p PlatformInfo) MaxNonTurboRatio() uint8 { return uint8(maxNonTurboRatio.Get(uint64(p))) }

func (p PlatformInfo) TurboRatioProgrammable() bool {
	return programmableTurboRatio.Flag(uint64(p))
}

// TDCTDPProgrammable reports whether TurboLimits may be written.
func (p PlatformInfo) TDCTDPProgrammable() bool { return programmableTDCTDP.Flag(uint64(p)) }

func (p PlatformInfo) MinimumRatio() uint8 { return uint8(minimumRatio.Get(uint64(p))) }

// MiscEnable is IA32_MISC_ENABLE. Only the turbo disable bit is modelled.
type MiscEnable uint64

func DecodeMiscEnable(raw uint64) MiscEnable { return MiscEnable(raw) }

func (m MiscEnable) Raw() uint64 { return uint64(m) }

func (m MiscEnable) TurboDisable() bool { return turboDisable.Flag(uint64(m)) }

func (m *MiscEnable) SetTurboDisable(on bool) {
	*m = MiscEnable(turboDisable.SetFlag(uint64(*m), on))
}

// TemperatureTarget is MSR_TEMPERATURE_TARGET.
type TemperatureTarget uint64

func DecodeTemperatureTarget(raw uint64) TemperatureTarget { return TemperatureTarget(raw) }

func (t TemperatureTarget) Raw() uint64 { return uint64(t) }

// TJMax is the throttling threshold in degrees Celsius, unscaled.
func (t TemperatureTarget) TJMax() uint8 { return uint8(tjmax.Get(uint64(t))) }

// TurboLimits is MSR_TURBO_POWER_CURRENT_LIMIT. TDP and TDC are 15-bit
// fixed point values in 1/8 W and 1/8 A.
type TurboLimits uint64

func DecodeTurboLimits(raw uint64) TurboLimits { return TurboLimits(raw) }

func (t TurboLimits) Raw() uint64 { return uint64(t) }

func (t TurboLimits) TDP() uint16 { return uint16(tdp.Get(uint64(t))) }

func (t TurboLimits) TDPOverride() bool { return tdpOverride.Flag(uint64(t)) }

func (t TurboLimits) TDC() uint16 { return uint16(tdc.Get(uint64(t))) }

func (t TurboLimits) TDCOverride() bool { return tdcOverride.Flag(uint64(t)) }

// SetTDP stores a raw (1/8 W) TDP value. It fails with *RangeError if the
// value needs more than 15 bits; the register is left unchanged then.
func (t *TurboLimits) SetTDP(raw uint64) error {
	w, err := tdp.Set(uint64(*t), raw)
	if err != nil {
		return err
	}
	*t = TurboLimits(w)
	return nil
}

func (t *TurboLimits) SetTDPOverride(on bool) {
	*t = TurboLimits(tdpOverride.SetFlag(uint64(*t), on))
}

// SetTDC stores a raw (1/8 A) TDC value, see SetTDP.
func (t *TurboLimits) SetTDC(raw uint64) error {
	w, err := tdc.Set(uint64(*t), raw)
	if err != nil {
		return err
	}
	*t = TurboLimits(w)
	return nil
}

func (t *TurboLimits) SetTDCOverride(on bool) {
	*t = TurboLimits(tdcOverride.SetFlag(uint64(*t), on))
}

// TurboRatios is MSR_TURBO_RATIO_LIMIT. A zero ratio means the core count
// is not reported by this part.
type TurboRatios uint64

func DecodeTurboRatios(raw uint64) TurboRatios { return TurboRatios(raw) }

func (t TurboRatios) Raw() uint64 { return uint64(t) }

func (t TurboRatios) OneCore() uint8 { return uint8(oneCore.Get(uint64(t))) }

func (t TurboRatios) TwoCores() uint8 { return uint8(twoCores.Get(uint64(t))) }

func (t TurboRatios) ThreeCores() uint8 { return uint8(threeCores.Get(uint64(t))) }

func (t TurboRatios) FourCores() uint8 { return uint8(fourCores.Get(uint64(t))) }

// Ratio returns the max turbo ratio with n cores active, n in 1..4.
// Out of range n yields 0.
func (t TurboRatios) Ratio(n int) uint8 {
	switch n {
	case 1:
		return t.OneCore()
	case 2:
		return t.TwoCores()
	case 3:
		return t.ThreeCores()
	case 4:
		return t.FourCores()
	default:
		return 0
	}
}

// MaxActiveCores is the number of core-count slots in TurboRatios.
const MaxActiveCores = 4
