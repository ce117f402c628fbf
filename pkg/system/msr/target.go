// Package msr gives access to model specific registers of one logical core
// through the Linux msr driver (/dev/cpu/N/msr).
//
// Accesses are single 8-byte pread/pwrite calls. There is no locking across
// a read and a later write: if another process writes the same register in
// between, the last writer wins. Do not run concurrent writers against the
// same core.
package msr

import "fmt"

// DefaultDevice is the Linux msr driver path template.
const DefaultDevice = "/dev/cpu/%d/msr"

// DefaultCore is the only logical core this tool addresses.
const DefaultCore = 0

// Target names the register file of one logical core.
type Target struct {
	Core   int
	Device string // printf template with one %d for Core
}

// DefaultTarget is core 0 through the stock driver path.
func DefaultTarget() Target { return Target{Core: DefaultCore, Device: DefaultDevice} }

func (t Target) Path() string { return fmt.Sprintf(t.Device, t.Core) }

func (t Target) String() string { return fmt.Sprintf("cpu%d (%s)", t.Core, t.Path()) }
