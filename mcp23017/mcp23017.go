// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23017

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3/i2c"
)

// DefaultAddress is the address with A0, A1 and A2 tied low.
const DefaultAddress uint16 = 0x20

// Dev is an MCP23017 before it is split into pins.
//
// The register accessors are meant for configuration that is not covered by
// the pin handles, for example IOCON. Once Split is called every method
// returns ErrSplit, so that nothing can race with the pin handles on the
// shared shadow.
type Dev struct {
	regs  *registers
	opts  Opts
	name  string
	split bool
}

// New returns an object that communicates over I²C to an MCP23017 at addr.
// The Opts can be nil.
//
// No bus transaction is performed unless opts.Refresh is set; the shadow
// starts at the power-on-reset values.
func New(bus i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if addr < 0x20 || addr > 0x27 {
		return nil, fmt.Errorf("%w: got %#x", ErrInvalidAddress, addr)
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{
		regs: newRegisters(&i2c.Dev{Bus: bus, Addr: addr}),
		opts: *opts,
		name: "MCP23017_" + strconv.FormatInt(int64(addr), 16),
	}
	if d.opts.Refresh {
		if err := d.Refresh(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Dev) String() string {
	return d.name
}

func (d *Dev) check(reg Register) error {
	if d.split {
		return ErrSplit
	}
	if !reg.valid() {
		return fmt.Errorf("%w: %s", ErrInvalidRegister, reg)
	}
	return nil
}

// Read reads a register from the chip. A bus transaction is always issued.
// For writable registers the shadow is updated with the value read.
func (d *Dev) Read(reg Register) (uint8, error) {
	if err := d.check(reg); err != nil {
		return 0, err
	}
	return d.regs.read(reg)
}

// Write writes a register. The shadow is updated only when the write
// succeeded. A write to GPIO updates the OLAT shadow, as the chip does.
// Setting IOCON.BANK fails with ErrBankMode.
func (d *Dev) Write(reg Register, value uint8) error {
	if err := d.check(reg); err != nil {
		return err
	}
	if reg.Role.readOnly() {
		return fmt.Errorf("%w: %s", ErrReadOnly, reg)
	}
	if err := checkValue(reg, value); err != nil {
		return err
	}
	return d.regs.write(reg, value)
}

// Modify changes the bits of a register selected by mask to the
// corresponding bits of value. The other bits are taken from the shadow, no
// read transaction is issued.
func (d *Dev) Modify(reg Register, mask, value uint8) error {
	if err := d.check(reg); err != nil {
		return err
	}
	if reg.Role.readOnly() {
		return fmt.Errorf("%w: %s", ErrReadOnly, reg)
	}
	if reg.Role.volatile() {
		// GPIO writes land in OLAT; there is no cached GPIO value to merge
		// with.
		return fmt.Errorf("%w: %s", ErrNotCached, reg)
	}
	if err := checkValue(reg, d.regs.shadow[reg.Bank][reg.Role]&^mask|value&mask); err != nil {
		return err
	}
	return d.regs.modify(reg, mask, value)
}

func checkValue(reg Register, value uint8) error {
	if reg.Role == IOCON && value&ioconBank != 0 {
		return fmt.Errorf("%w: %s=%#x", ErrBankMode, reg, value)
	}
	return nil
}

// Shadow returns the cached value of a writable register without any bus
// transaction.
func (d *Dev) Shadow(reg Register) (uint8, error) {
	if err := d.check(reg); err != nil {
		return 0, err
	}
	if reg.Role.volatile() {
		return 0, fmt.Errorf("%w: %s", ErrNotCached, reg)
	}
	return d.regs.shadow[reg.Bank][reg.Role], nil
}

// Refresh reads all the cached registers of both banks from the chip.
func (d *Dev) Refresh() error {
	if d.split {
		return ErrSplit
	}
	for b := Bank(0); b < numBanks; b++ {
		for role := Role(0); role < numRoles; role++ {
			if role.volatile() {
				continue
			}
			if _, err := d.regs.read(Register{Bank: b, Role: role}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Split consumes the device and returns the 16 pins in the unconfigured
// state together with the interrupt controller. It performs no bus
// transaction.
//
// Split can only be called once.
func (d *Dev) Split() (*Pins, *Controller, error) {
	if d.split {
		return nil, nil, ErrSplit
	}
	d.split = true
	p := &Pins{}
	for b := Bank(0); b < numBanks; b++ {
		for bit := uint8(0); bit < 8; bit++ {
			d.regs.slots[b][bit] = slot{gen: 1, mode: ModeReset}
			c := &pinCore{
				regs:       d.regs,
				name:       d.name + "_" + b.String() + strconv.Itoa(int(bit)),
				bank:       b,
				bit:        bit,
				gen:        1,
				outputOnly: d.opts.OutputOnlyBit7 && bit == 7,
			}
			p.banks[b][bit] = &Unconfigured{c}
		}
	}
	return p, &Controller{regs: d.regs}, nil
}

// Pins is the set of pins of the expander as returned by Dev.Split.
type Pins struct {
	banks [numBanks][8]*Unconfigured
}

// Pin returns the handle of GPA<bit> or GPB<bit>. It returns nil for an
// invalid bank or bit, or when the handle was already taken.
//
// Each handle can be taken once; reconfigured handles are tracked by the
// caller from then on.
func (p *Pins) Pin(b Bank, bit int) *Unconfigured {
	if !b.valid() || bit < 0 || bit > 7 {
		return nil
	}
	u := p.banks[b][bit]
	p.banks[b][bit] = nil
	return u
}
