// Package turbo decides which MSR reads and writes a request needs, checks
// that they are allowed, performs them and turns the raw fields into Watts,
// Amps, degrees and ratios.
package turbo

import (
	"fmt"
	"log/slog"

	"github.com/ja7ad/turboctl/pkg/register"
	"github.com/ja7ad/turboctl/pkg/system/msr"
	"github.com/ja7ad/turboctl/pkg/types"
)

// Registers is the register file of one logical core.
type Registers interface {
	Read(addr uint32) (uint64, error)
	Write(addr uint32, val uint64) error
	Target() msr.Target
}

// Controller runs requests against one register file.
type Controller struct {
	regs   Registers
	logger *slog.Logger
}

// New creates a controller over regs. A nil logger uses slog.Default.
func New(regs Registers, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		regs:   regs,
		logger: logger.With("service", "turbo", "core", regs.Target().Core),
	}
}

// Execute validates req and performs it. Every check runs before the
// single TurboLimits write, so a failed check never leaves the register
// half updated. On error no report is returned.
func (c *Controller) Execute(req Request, host Host) (Report, error) {
	if err := host.Check(); err != nil {
		return Report{}, err
	}
	if err := req.Validate(); err != nil {
		return Report{}, err
	}

	var (
		rep      Report
		platform *register.PlatformInfo
	)

	if req.wantsSet() {
		p, err := c.platformInfo()
		if err != nil {
			return Report{}, err
		}
		if !p.TDCTDPProgrammable() {
			return Report{}, ErrUnsupportedOperation
		}
		platform = &p
	}

	if req.wantsLimits() {
		if err := c.limits(req, &rep); err != nil {
			return Report{}, err
		}
	}

	if req.GetTJMax {
		raw, err := c.read(register.TemperatureTargetAddr)
		if err != nil {
			return Report{}, err
		}
		tj := types.Celsius(register.DecodeTemperatureTarget(raw).TJMax())
		rep.TJMax = &tj
	}

	if req.GetTurboRatios {
		raw, err := c.read(register.TurboRatiosAddr)
		if err != nil {
			return Report{}, err
		}
		rep.TurboRatios = activeRatios(register.DecodeTurboRatios(raw))
	}

	if req.GetPlatformInfo {
		if platform == nil {
			p, err := c.platformInfo()
			if err != nil {
				return Report{}, err
			}
			platform = &p
		}
		raw, err := c.read(register.MiscEnableAddr)
		if err != nil {
			return Report{}, err
		}
		rep.Platform = summarize(*platform, register.DecodeMiscEnable(raw))
	}

	return rep, nil
}

// limits reads TurboLimits once, answers the gets and applies the sets
// with one write of the whole word.
func (c *Controller) limits(req Request, rep *Report) error {
	if req.SetTDP != nil && *req.SetTDP > types.MaxLimit {
		return fmt.Errorf("%w: TDP %d W exceeds %d W", ErrOutOfRange, *req.SetTDP, types.MaxLimit)
	}
	if req.SetTDC != nil && *req.SetTDC > types.MaxLimit {
		return fmt.Errorf("%w: TDC %d A exceeds %d A", ErrOutOfRange, *req.SetTDC, types.MaxLimit)
	}

	raw, err := c.read(register.TurboLimitsAddr)
	if err != nil {
		return err
	}
	lim := register.DecodeTurboLimits(raw)

	if req.GetTDP {
		rep.TDP = &PowerLimit{Limit: types.WattsFromFixed(lim.TDP()), Override: lim.TDPOverride()}
	}
	if req.GetTDC {
		rep.TDC = &CurrentLimit{Limit: types.AmpsFromFixed(lim.TDC()), Override: lim.TDCOverride()}
	}
	if !req.wantsSet() {
		return nil
	}

	applied := &Applied{Before: raw}
	if req.SetTDP != nil {
		if err := lim.SetTDP(types.ToFixed(*req.SetTDP)); err != nil {
			return fmt.Errorf("%w: %w", ErrOutOfRange, err)
		}
		lim.SetTDPOverride(true)
		w := types.Watts(*req.SetTDP)
		applied.TDP = &w
	}
	if req.SetTDC != nil {
		if err := lim.SetTDC(types.ToFixed(*req.SetTDC)); err != nil {
			return fmt.Errorf("%w: %w", ErrOutOfRange, err)
		}
		lim.SetTDCOverride(true)
		a := types.Amps(*req.SetTDC)
		applied.TDC = &a
	}
	applied.After = lim.Raw()

	if req.DryRun {
		c.logger.Info("dry run, turbo limits not written",
			"before", fmt.Sprintf("0x%x", applied.Before),
			"after", fmt.Sprintf("0x%x", applied.After))
	} else {
		if err := c.write(register.TurboLimitsAddr, applied.After); err != nil {
			return err
		}
		applied.Written = true
	}
	rep.Applied = applied
	return nil
}

func (c *Controller) platformInfo() (register.PlatformInfo, error) {
	raw, err := c.read(register.PlatformInfoAddr)
	if err != nil {
		return 0, err
	}
	return register.DecodePlatformInfo(raw), nil
}

func (c *Controller) read(addr uint32) (uint64, error) {
	v, err := c.regs.Read(addr)
	if err != nil {
		return 0, &RegisterError{Op: "read", Addr: addr, Core: c.regs.Target().Core, Err: err}
	}
	c.logger.Debug("rdmsr", "addr", fmt.Sprintf("0x%x", addr), "raw", fmt.Sprintf("0x%016x", v))
	return v, nil
}

func (c *Controller) write(addr uint32, val uint64) error {
	if err := c.regs.Write(addr, val); err != nil {
		return &RegisterError{Op: "write", Addr: addr, Core: c.regs.Target().Core, Err: err}
	}
	c.logger.Debug("wrmsr", "addr", fmt.Sprintf("0x%x", addr), "raw", fmt.Sprintf("0x%016x", val))
	return nil
}

// activeRatios lists the reported ratios in core-count order. Zero means the
// part does not report that core count, so it is skipped.
func activeRatios(r register.TurboRatios) []CoreRatio {
	var out []CoreRatio
	for n := 1; n <= register.MaxActiveCores; n++ {
		v := r.Ratio(n)
		if v == 0 {
			continue
		}
		out = append(out, CoreRatio{ActiveCores: n, Name: coreCountNames[n], Ratio: types.Ratio(v)})
	}
	return out
}

func summarize(p register.PlatformInfo, m register.MiscEnable) *PlatformSummary {
	return &PlatformSummary{
		MaxNonTurboRatio:       types.Ratio(p.MaxNonTurboRatio()),
		MinimumRatio:           types.Ratio(p.MinimumRatio()),
		TurboRatioProgrammable: p.TurboRatioProgrammable(),
		TDCTDPProgrammable:     p.TDCTDPProgrammable(),
		TurboDisabled:          m.TurboDisable(),
	}
}
