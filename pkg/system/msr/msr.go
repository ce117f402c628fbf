//go:build linux

package msr

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/fearful-symmetry/gomsr"
)

// Device is an open MSR handle on a single logical core.
type Device struct {
	target Target
	dev    gomsr.MSRDev
}

// Open opens the msr device for t. A missing device usually means the msr
// kernel module is not loaded; a permission error means we are not root.
func Open(t Target) (*Device, error) {
	if t.Device == "" {
		t.Device = DefaultDevice
	}
	if _, err := os.Stat(t.Path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("msr: %s does not exist (is the msr module loaded?): %w", t.Path(), err)
		}
		return nil, fmt.Errorf("msr: stat %s: %w", t.Path(), err)
	}

	dev, err := gomsr.MSRWithLocation(t.Core, t.Device)
	if err != nil {
		if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) {
			return nil, fmt.Errorf("msr: open %s: permission denied, run as root: %w", t.Path(), err)
		}
		return nil, fmt.Errorf("msr: open %s: %w", t.Path(), err)
	}
	return &Device{target: t, dev: dev}, nil
}

func (d *Device) Target() Target { return d.target }

// Read returns the 64-bit value of the register at addr. The driver answers
// EIO for registers the CPU does not implement.
func (d *Device) Read(addr uint32) (uint64, error) {
	v, err := d.dev.Read(int64(addr))
	if err != nil {
		return 0, fmt.Errorf("msr read 0x%x on %s: %w", addr, d.target, err)
	}
	return v, nil
}

// Write stores val into the register at addr in a single 8-byte write.
func (d *Device) Write(addr uint32, val uint64) error {
	if err := d.dev.Write(int64(addr), val); err != nil {
		return fmt.Errorf("msr write 0x%x on %s: %w", addr, d.target, err)
	}
	return nil
}

func (d *Device) Close() error {
	return d.dev.Close()
}
