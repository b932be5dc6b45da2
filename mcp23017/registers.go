// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23017

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// Bank identifies one of the two 8-bit ports of the expander.
type Bank uint8

const (
	A Bank = 0 // GPA0..GPA7
	B Bank = 1 // GPB0..GPB7
)

const numBanks = 2

func (b Bank) String() string {
	switch b {
	case A:
		return "A"
	case B:
		return "B"
	default:
		return fmt.Sprintf("Bank(%d)", uint8(b))
	}
}

func (b Bank) valid() bool {
	return b < numBanks
}

// Role is the function of a register, independent of its bank.
//
// The numeric value is the register index with IOCON.BANK=0, which is the
// power-on addressing mode where A and B registers are interleaved.
type Role uint8

const (
	IODIR   Role = iota // I/O direction, 1 = input.
	IPOL                // Input polarity, 1 = inverted.
	GPINTEN             // Interrupt-on-change enable.
	DEFVAL              // Default compare value for interrupt-on-change.
	INTCON              // Interrupt control, 1 = compare against DEFVAL.
	IOCON               // Configuration.
	GPPU                // Pull-up enable.
	INTF                // Interrupt flags. Read-only.
	INTCAP              // Interrupt capture. Read-only, reading clears INTF.
	GPIO                // Port value.
	OLAT                // Output latch.

	numRoles
)

var roleNames = [numRoles]string{
	IODIR:   "IODIR",
	IPOL:    "IPOL",
	GPINTEN: "GPINTEN",
	DEFVAL:  "DEFVAL",
	INTCON:  "INTCON",
	IOCON:   "IOCON",
	GPPU:    "GPPU",
	INTF:    "INTF",
	INTCAP:  "INTCAP",
	GPIO:    "GPIO",
	OLAT:    "OLAT",
}

func (r Role) String() string {
	if r < numRoles {
		return roleNames[r]
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// volatile reports registers whose content changes outside of the driver's
// control. They are never cached.
func (r Role) volatile() bool {
	return r == GPIO || r == INTF || r == INTCAP
}

func (r Role) readOnly() bool {
	return r == INTF || r == INTCAP
}

// ioconBank is IOCON.BANK. Setting it moves every register to a different
// address, so the driver never writes it.
const ioconBank uint8 = 1 << 7

// powerOnValue is the content of the register after a power-on reset.
func (r Role) powerOnValue() uint8 {
	if r == IODIR {
		return 0xFF
	}
	return 0x00
}

// Register is one of the 22 one-byte registers of the chip.
type Register struct {
	Bank Bank
	Role Role
}

// Address returns the register address on the bus with IOCON.BANK=0.
func (r Register) Address() uint8 {
	return uint8(r.Role)<<1 | uint8(r.Bank)
}

func (r Register) String() string {
	return r.Role.String() + r.Bank.String()
}

func (r Register) valid() bool {
	return r.Bank.valid() && r.Role < numRoles
}

// registers is the register file shared by the device, every pin handle and
// the interrupt controller. It owns the bus connection and the shadow of the
// writable registers.
type registers struct {
	c      *i2c.Dev
	shadow [numBanks][numRoles]uint8
	slots  [numBanks][8]slot
}

// slot records which handle currently owns a pin.
type slot struct {
	gen  uint32
	mode Mode
}

func newRegisters(c *i2c.Dev) *registers {
	r := &registers{c: c}
	for b := range r.shadow {
		for role := range r.shadow[b] {
			r.shadow[b][role] = Role(role).powerOnValue()
		}
	}
	return r
}

// read always performs a bus transaction. Non volatile registers refresh the
// shadow with the value read.
func (r *registers) read(reg Register) (uint8, error) {
	rx := make([]byte, 1)
	if err := r.c.Tx([]byte{reg.Address()}, rx); err != nil {
		return 0, err
	}
	if !reg.Role.volatile() {
		r.store(reg, rx[0])
	}
	return rx[0], nil
}

// write updates the shadow only once the bus acknowledged the value.
func (r *registers) write(reg Register, value uint8) error {
	if err := r.c.Tx([]byte{reg.Address(), value}, nil); err != nil {
		return err
	}
	switch reg.Role {
	case GPIO:
		// The chip stores a GPIO write in OLAT.
		r.store(Register{Bank: reg.Bank, Role: OLAT}, value)
	case INTF, INTCAP:
	default:
		r.store(reg, value)
	}
	return nil
}

// store records value in the shadow. IOCONA and IOCONB are two addresses of
// the same register.
func (r *registers) store(reg Register, value uint8) {
	if reg.Role == IOCON {
		for b := range r.shadow {
			r.shadow[b][IOCON] = value
		}
		return
	}
	r.shadow[reg.Bank][reg.Role] = value
}

// modify replaces the bits selected by mask, starting from the shadow rather
// than a fresh read.
func (r *registers) modify(reg Register, mask, value uint8) error {
	v := r.shadow[reg.Bank][reg.Role]&^mask | value&mask
	return r.write(reg, v)
}

// setBit is modify for a single bit.
func (r *registers) setBit(reg Register, bit uint8, on bool) error {
	mask := uint8(1) << bit
	var v uint8
	if on {
		v = mask
	}
	return r.modify(reg, mask, v)
}

func (r *registers) cachedBit(reg Register, bit uint8) bool {
	return r.shadow[reg.Bank][reg.Role]&(1<<bit) != 0
}
