package msr

import "fmt"

// Access is one recorded register operation on a Memory.
type Access struct {
	Addr  uint32
	Value uint64
}

// Memory is an in-memory register file with the same method set as Device.
// It records every read and write, which makes it useful as a stand-in for
// hardware in tests.
type Memory struct {
	target   Target
	regs     map[uint32]uint64
	readErr  map[uint32]error
	writeErr map[uint32]error
	reads    []uint32
	writes   []Access
}

// NewMemory returns a register file holding a copy of regs. Reading an
// address not in regs fails the way the driver does for an unknown MSR.
func NewMemory(t Target, regs map[uint32]uint64) *Memory {
	m := &Memory{
		target:   t,
		regs:     make(map[uint32]uint64, len(regs)),
		readErr:  make(map[uint32]error),
		writeErr: make(map[uint32]error),
	}
	for a, v := range regs {
		m.regs[a] = v
	}
	return m
}

func (m *Memory) Target() Target { return m.target }

func (m *Memory) Read(addr uint32) (uint64, error) {
	m.reads = append(m.reads, addr)
	if err := m.readErr[addr]; err != nil {
		return 0, err
	}
	v, ok := m.regs[addr]
	if !ok {
		return 0, fmt.Errorf("msr read 0x%x on %s: input/output error", addr, m.target)
	}
	return v, nil
}

func (m *Memory) Write(addr uint32, val uint64) error {
	if err := m.writeErr[addr]; err != nil {
		return err
	}
	m.writes = append(m.writes, Access{Addr: addr, Value: val})
	m.regs[addr] = val
	return nil
}

func (m *Memory) Close() error { return nil }

// FailRead makes every read of addr return err.
func (m *Memory) FailRead(addr uint32, err error) { m.readErr[addr] = err }

// FailWrite makes every write of addr return err.
func (m *Memory) FailWrite(addr uint32, err error) { m.writeErr[addr] = err }

// Value returns the current content of addr.
func (m *Memory) Value(addr uint32) (uint64, bool) {
	v, ok := m.regs[addr]
	return v, ok
}

// Reads returns the addresses read so far, in order.
func (m *Memory) Reads() []uint32 { return append([]uint32(nil), m.reads...) }

// Writes returns the writes performed so far, in order.
func (m *Memory) Writes() []Access { return append([]Access(nil), m.writes...) }
