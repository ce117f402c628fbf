//go:build linux

// Package cpu identifies the running processor and the privileges of the
// current process.
package cpu

import (
	"fmt"

	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/unix"
)

const (
	VendorIntel = "GenuineIntel"

	// Arrandale (Westmere mobile, 32nm): family 6, display model 0x25.
	ArrandaleFamily = 0x6
	ArrandaleModel  = 0x25
)

// Platform is the CPUID signature of a processor.
type Platform struct {
	Vendor   string `json:"vendor"`
	Brand    string `json:"brand,omitempty"`
	Family   int    `json:"family"`
	Model    int    `json:"model"`
	Stepping int    `json:"stepping"`
}

// Detect reads the signature of the processor we run on.
func Detect() Platform {
	return Platform{
		Vendor:   cpuid.CPU.VendorString,
		Brand:    cpuid.CPU.BrandName,
		Family:   cpuid.CPU.Family,
		Model:    cpuid.CPU.Model,
		Stepping: cpuid.CPU.Stepping,
	}
}

// Supported reports whether p is an Arrandale part. Family and model are
// the display values, extended fields already folded in.
func (p Platform) Supported() bool {
	return p.Vendor == VendorIntel && p.Family == ArrandaleFamily && p.Model == ArrandaleModel
}

func (p Platform) String() string {
	return fmt.Sprintf("%s family 0x%x model 0x%x stepping %d", p.Vendor, p.Family, p.Model, p.Stepping)
}

// Privileged reports whether the process runs with effective uid 0.
func Privileged() bool {
	return unix.Geteuid() == 0
}
