package turbo

import (
	"fmt"

	"github.com/ja7ad/turboctl/pkg/types"
)

// Request is one invocation's intent. SetTDP and SetTDC are whole Watts and
// Amps; nil means "leave alone".
type Request struct {
	GetTDP          bool
	GetTDC          bool
	GetTJMax        bool
	GetTurboRatios  bool
	GetPlatformInfo bool

	SetTDP *uint64
	SetTDC *uint64

	// DryRun computes the new TurboLimits value without writing it.
	DryRun bool
}

// Uint64 returns a pointer to v, for filling Request.SetTDP/SetTDC.
func Uint64(v uint64) *uint64 { return &v }

// Validate rejects requests that read and write the turbo limits at once.
// It touches no register.
func (r Request) Validate() error {
	if r.wantsGet() && r.wantsSet() {
		return ErrConflictingRequest
	}
	return nil
}

// Empty reports whether the request asks for nothing.
func (r Request) Empty() bool {
	return !r.wantsLimits() && !r.GetTJMax && !r.GetTurboRatios && !r.GetPlatformInfo
}

func (r Request) wantsGet() bool { return r.GetTDP || r.GetTDC }

func (r Request) wantsSet() bool { return r.SetTDP != nil || r.SetTDC != nil }

func (r Request) wantsLimits() bool { return r.wantsGet() || r.wantsSet() }

// Host carries the outcome of the checks made outside the policy: process
// privilege and CPU identification.
type Host struct {
	Privileged        bool
	SupportedPlatform bool
	Platform          string // description used in error messages
}

// Check fails with ErrInsufficientPrivilege or ErrUnsupportedPlatform, in
// that order.
func (h Host) Check() error {
	if !h.Privileged {
		return ErrInsufficientPrivilege
	}
	if !h.SupportedPlatform {
		if h.Platform != "" {
			return fmt.Errorf("%w: found %s", ErrUnsupportedPlatform, h.Platform)
		}
		return ErrUnsupportedPlatform
	}
	return nil
}

// Report holds the values of one run. Sections that were not requested
// are nil/empty.
type Report struct {
	TDP         *PowerLimit      `json:"tdp,omitempty"`
	TDC         *CurrentLimit    `json:"tdc,omitempty"`
	TJMax       *types.Celsius   `json:"tjmax_celsius,omitempty"`
	TurboRatios []CoreRatio      `json:"turbo_ratios,omitempty"`
	Platform    *PlatformSummary `json:"platform,omitempty"`
	Applied     *Applied         `json:"applied,omitempty"`
}

// PowerLimit is the turbo TDP limit.
type PowerLimit struct {
	Limit    types.Watts `json:"watts"`
	Override bool        `json:"override"`
}

// CurrentLimit is the turbo TDC limit.
type CurrentLimit struct {
	Limit    types.Amps `json:"amps"`
	Override bool       `json:"override"`
}

// CoreRatio is the max turbo ratio with ActiveCores cores busy.
type CoreRatio struct {
	ActiveCores int         `json:"active_cores"`
	Name        string      `json:"name"`
	Ratio       types.Ratio `json:"ratio"`
}

// PlatformSummary is the decoded PLATFORM_INFO plus the turbo disable bit
// from IA32_MISC_ENABLE.
type PlatformSummary struct {
	MaxNonTurboRatio       types.Ratio `json:"max_non_turbo_ratio"`
	MinimumRatio           types.Ratio `json:"minimum_ratio"`
	TurboRatioProgrammable bool        `json:"turbo_ratio_programmable"`
	TDCTDPProgrammable     bool        `json:"tdc_tdp_programmable"`
	TurboDisabled          bool        `json:"turbo_disabled"`
}

// Applied describes a TurboLimits update.
type Applied struct {
	TDP     *types.Watts `json:"tdp_watts,omitempty"`
	TDC     *types.Amps  `json:"tdc_amps,omitempty"`
	Before  uint64       `json:"before"`
	After   uint64       `json:"after"`
	Written bool         `json:"written"`
}

var coreCountNames = [...]string{"", "one core", "two cores", "three cores", "four cores"}
