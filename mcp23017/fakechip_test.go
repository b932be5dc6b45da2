// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23017

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/physic"
)

var errNack = errors.New("fake: no ack")

// fakeOp is one successful transaction seen by fakeChip.
type fakeOp struct {
	reg   Register
	write bool
	value uint8
}

// fakeChip emulates the register file of an MCP23017 with IOCON.BANK=0 and
// logs every transaction.
type fakeChip struct {
	addr uint16
	regs [numBanks][numRoles]uint8
	ops  []fakeOp
	// fail makes the next transactions on a register fail.
	fail map[Register]int
}

func newFakeChip() *fakeChip {
	f := &fakeChip{addr: DefaultAddress, fail: map[Register]int{}}
	for b := range f.regs {
		f.regs[b][IODIR] = 0xFF
	}
	return f
}

func (f *fakeChip) String() string {
	return "fakeChip"
}

func (f *fakeChip) SetSpeed(physic.Frequency) error {
	return nil
}

func (f *fakeChip) Tx(addr uint16, w, r []byte) error {
	if addr != f.addr {
		return errNack
	}
	if len(w) == 0 || w[0] >= uint8(numRoles)*2 {
		return fmt.Errorf("fake: bad write %v", w)
	}
	reg := Register{Bank: Bank(w[0] & 1), Role: Role(w[0] >> 1)}
	if f.fail[reg] > 0 {
		f.fail[reg]--
		return errNack
	}
	switch {
	case len(w) == 2 && len(r) == 0:
		f.store(reg, w[1])
		f.ops = append(f.ops, fakeOp{reg: reg, write: true, value: w[1]})
	case len(w) == 1 && len(r) == 1:
		r[0] = f.regs[reg.Bank][reg.Role]
		if reg.Role == INTCAP || reg.Role == GPIO {
			// Reading either clears the interrupt condition.
			f.regs[reg.Bank][INTF] = 0
		}
		f.ops = append(f.ops, fakeOp{reg: reg, value: r[0]})
	default:
		return fmt.Errorf("fake: unsupported transaction w=%v r=%d", w, len(r))
	}
	return nil
}

func (f *fakeChip) store(reg Register, v uint8) {
	switch reg.Role {
	case INTF, INTCAP:
		// Read-only.
	case GPIO:
		f.regs[reg.Bank][OLAT] = v
	case IOCON:
		f.regs[A][IOCON] = v
		f.regs[B][IOCON] = v
	default:
		f.regs[reg.Bank][reg.Role] = v
	}
}

// raise simulates an interrupt on a bank.
func (f *fakeChip) raise(b Bank, flags, captured uint8) {
	f.regs[b][INTF] = flags
	f.regs[b][INTCAP] = captured
}

func (f *fakeChip) get(b Bank, role Role) uint8 {
	return f.regs[b][role]
}

func (f *fakeChip) touched(b Bank) bool {
	for _, op := range f.ops {
		if op.reg.Bank == b {
			return true
		}
	}
	return false
}

// newSplit returns the pins and controller of a device backed by f.
func newSplit(f *fakeChip, opts *Opts) (*Pins, *Controller, error) {
	d, err := New(f, f.addr, opts)
	if err != nil {
		return nil, nil, err
	}
	return d.Split()
}
