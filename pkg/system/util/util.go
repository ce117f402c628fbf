//go:build linux

package util

import (
	"runtime"
	"strconv"

	"golang.org/x/sys/unix"
)

// SystemSummary returns host name, kernel release and logical CPU count
// for the report banner. Fields that cannot be read are "unknown".
func SystemSummary() (host, kernel, cpus string) {
	host, kernel = "unknown", "unknown"
	var u unix.Utsname
	if err := unix.Uname(&u); err == nil {
		host = unix.ByteSliceToString(u.Nodename[:])
		kernel = unix.ByteSliceToString(u.Release[:])
	}
	return host, kernel, strconv.Itoa(runtime.NumCPU())
}

// Hex formats a register word the way the SDM prints them.
func Hex(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}

// FmtFloat prints f with the fewest digits that round-trip.
func FmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
