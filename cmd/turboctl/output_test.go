//go:build linux

package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/turboctl/pkg/turbo"
	"github.com/ja7ad/turboctl/pkg/types"
)

func TestRenderText_Gets(t *testing.T) {
	tj := types.Celsius(105)
	rep := turbo.Report{
		TDP:   &turbo.PowerLimit{Limit: 20, Override: false},
		TDC:   &turbo.CurrentLimit{Limit: 56.5, Override: true},
		TJMax: &tj,
		TurboRatios: []turbo.CoreRatio{
			{ActiveCores: 2, Name: "two cores", Ratio: 25},
			{ActiveCores: 3, Name: "three cores", Ratio: 30},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, rep, "text"))
	assert.Equal(t, `Maximum turbo TDP: 20 W
Turbo TDP override status: false
Maximum turbo TDC: 56.5 A
Turbo TDC override status: true
TJmax is 105 celsius
Max turbo ratio for two cores: 25
Max turbo ratio for three cores: 30
`, buf.String())
}

func TestRenderText_Applied(t *testing.T) {
	w := types.Watts(35)
	rep := turbo.Report{Applied: &turbo.Applied{TDP: &w, Before: 0x800081c0, After: 0x801c0118, Written: false}}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, rep, "text"))
	assert.Equal(t, "Turbo TDP set to 35 W\nTurbo limits register: 0x800081c0 -> 0x801c0118 (dry run, not written)\n", buf.String())
}

func TestRenderText_Platform(t *testing.T) {
	rep := turbo.Report{Platform: &turbo.PlatformSummary{
		MaxNonTurboRatio:   19,
		MinimumRatio:       9,
		TDCTDPProgrammable: true,
	}}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, rep, "text"))
	assert.Contains(t, buf.String(), "Max non-turbo ratio: 19 (")
	assert.Contains(t, buf.String(), "Programmable TDP/TDC: true\n")
	assert.Contains(t, buf.String(), "Turbo disabled: false\n")
}

func TestRenderText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, turbo.Report{}, "text"))
	assert.Empty(t, buf.String())
}

func TestRenderJSON(t *testing.T) {
	rep := turbo.Report{
		TDP:         &turbo.PowerLimit{Limit: 20.125, Override: true},
		TurboRatios: []turbo.CoreRatio{{ActiveCores: 1, Name: "one core", Ratio: 26}},
	}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, rep, "json"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string]any{"watts": 20.125, "override": true}, got["tdp"])
	assert.NotContains(t, got, "tdc")
	assert.NotContains(t, got, "tjmax_celsius")
	ratios, ok := got["turbo_ratios"].([]any)
	require.True(t, ok)
	assert.Len(t, ratios, 1)
}

func TestRender_UnknownFormat(t *testing.T) {
	err := render(&bytes.Buffer{}, turbo.Report{}, "yaml")
	assert.ErrorIs(t, err, errUnknownFormat)
}
