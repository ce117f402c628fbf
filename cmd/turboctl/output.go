//go:build linux

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ja7ad/turboctl/pkg/system/util"
	"github.com/ja7ad/turboctl/pkg/turbo"
	"github.com/ja7ad/turboctl/pkg/types"
)

func render(w io.Writer, rep turbo.Report, format string) error {
	switch format {
	case "text":
		return renderText(w, rep)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	default:
		return fmt.Errorf("%w: %s", errUnknownFormat, format)
	}
}

func renderText(w io.Writer, rep turbo.Report) error {
	var lines []string
	add := func(format string, a ...any) { lines = append(lines, fmt.Sprintf(format, a...)) }

	if rep.TDP != nil {
		add("Maximum turbo TDP: %s", rep.TDP.Limit)
		add("Turbo TDP override status: %t", rep.TDP.Override)
	}
	if rep.TDC != nil {
		add("Maximum turbo TDC: %s", rep.TDC.Limit)
		add("Turbo TDC override status: %t", rep.TDC.Override)
	}
	if a := rep.Applied; a != nil {
		if a.TDP != nil {
			add("Turbo TDP set to %s", *a.TDP)
		}
		if a.TDC != nil {
			add("Turbo TDC set to %s", *a.TDC)
		}
		state := "written"
		if !a.Written {
			state = "dry run, not written"
		}
		add("Turbo limits register: %s -> %s (%s)", util.Hex(a.Before), util.Hex(a.After), state)
	}
	if rep.TJMax != nil {
		add("TJmax is %s", *rep.TJMax)
	}
	for _, r := range rep.TurboRatios {
		add("Max turbo ratio for %s: %s", r.Name, r.Ratio)
	}
	if p := rep.Platform; p != nil {
		add("Max non-turbo ratio: %s (%s MHz)", p.MaxNonTurboRatio, mhz(p.MaxNonTurboRatio))
		add("Minimum ratio: %s (%s MHz)", p.MinimumRatio, mhz(p.MinimumRatio))
		add("Programmable turbo ratio: %t", p.TurboRatioProgrammable)
		add("Programmable TDP/TDC: %t", p.TDCTDPProgrammable)
		add("Turbo disabled: %t", p.TurboDisabled)
	}

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func mhz(r types.Ratio) string {
	return util.FmtFloat(r.MHz())
}
