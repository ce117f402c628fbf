package turbo

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientPrivilege indicates the process is not running as root.
	ErrInsufficientPrivilege = errors.New("turbo: insufficient privilege, run as root")

	// ErrUnsupportedPlatform indicates the CPU is not an Intel Arrandale.
	ErrUnsupportedPlatform = errors.New("turbo: unsupported platform, only Arrandale CPUs are supported")

	// ErrConflictingRequest indicates TDP/TDC were asked to be read and
	// written in the same request.
	ErrConflictingRequest = errors.New("turbo: can't set and get TDP or TDC values at the same time")

	// ErrUnsupportedOperation indicates PLATFORM_INFO does not advertise
	// programmable TDP/TDC limits.
	ErrUnsupportedOperation = errors.New("turbo: CPU doesn't support setting TDP and TDC")

	// ErrOutOfRange indicates a requested limit does not fit the register.
	ErrOutOfRange = errors.New("turbo: value out of range")

	// ErrRegisterAccess indicates the register collaborator failed.
	ErrRegisterAccess = errors.New("turbo: register access failed")
)

// RegisterError wraps a failed register read or write.
// errors.Is(err, ErrRegisterAccess) holds for it.
type RegisterError struct {
	Op   string // "read" or "write"
	Addr uint32
	Core int
	Err  error
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("turbo: %s msr 0x%x on cpu%d: %v", e.Op, e.Addr, e.Core, e.Err)
}

func (e *RegisterError) Unwrap() error { return e.Err }

func (e *RegisterError) Is(target error) bool { return target == ErrRegisterAccess }
