package types

import (
	"fmt"
	"strconv"
)

// FixedPointScale is the number of raw units per Watt or Amp in the turbo
// limit fields (1/8 W, 1/8 A).
const FixedPointScale = 8

// MaxLimit is the largest whole Watt/Amp value accepted for a turbo limit.
const MaxLimit = 511

// BaseClockMHz is the Arrandale BCLK used to turn ratios into frequencies.
const BaseClockMHz = 133.33

// Watts is a power value.
type Watts float64

// Amps is a current value.
type Amps float64

// Celsius is a temperature in whole degrees.
type Celsius uint8

// Ratio is a core clock multiplier over the base clock.
type Ratio uint8

// WattsFromFixed converts a raw 1/8 W field value.
func WattsFromFixed(raw uint16) Watts { return Watts(float64(raw) / FixedPointScale) }

// AmpsFromFixed converts a raw 1/8 A field value.
func AmpsFromFixed(raw uint16) Amps { return Amps(float64(raw) / FixedPointScale) }

// ToFixed scales a whole Watt/Amp value to raw field units. Callers check
// the value against MaxLimit first; the product cannot overflow then.
func ToFixed(whole uint64) uint64 { return whole * FixedPointScale }

func (w Watts) String() string { return formatFloat(float64(w)) + " W" }

func (a Amps) String() string { return formatFloat(float64(a)) + " A" }

func (c Celsius) String() string { return fmt.Sprintf("%d celsius", uint8(c)) }

func (r Ratio) String() string { return strconv.Itoa(int(r)) }

// MHz returns the core frequency for this ratio at BaseClockMHz.
func (r Ratio) MHz() float64 { return float64(r) * BaseClockMHz }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
