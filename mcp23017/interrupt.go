// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23017

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Event is what the chip reported for a bank when Controller.Interrupt was
// called.
type Event struct {
	Bank Bank
	// Flags has a bit set for each pin that caused the interrupt (INTF).
	Flags uint8
	// Captured is the port value when the interrupt occurred (INTCAP).
	Captured uint8
	// Generation increases with every recorded event, across both banks.
	Generation uint64
}

// Triggered returns the captured level of bit if it is flagged in the event.
func (e Event) Triggered(bit int) (gpio.Level, bool) {
	if bit < 0 || bit > 7 {
		return gpio.Low, false
	}
	mask := uint8(1) << uint(bit)
	if e.Flags&mask == 0 {
		return gpio.Low, false
	}
	return gpio.Level(e.Captured&mask != 0), true
}

func (e Event) String() string {
	return fmt.Sprintf("%s#%d{INTF=%#02x INTCAP=%#02x}", e.Bank, e.Generation, e.Flags, e.Captured)
}

// Controller resolves which pins caused an interrupt.
//
// INTF and INTCAP are shared by the 8 pins of a bank and reading INTCAP clears
// the interrupt condition. If each pin read them, the first one would hide
// the event from the others. The Controller is therefore the only reader of
// these registers: Interrupt reads them once per event and keeps the result,
// and Triggered answers for any pin from that copy.
//
// The MCP23017 signals interrupts on its INTA and INTB lines; watching those
// lines, for example with gpio.PinIn.WaitForEdge on a host pin, is left to
// the caller.
type Controller struct {
	regs   *registers
	events [numBanks]Event
	seen   [numBanks]bool
	gen    uint64
}

// Interrupt must be called when the interrupt line of bank b is asserted. It
// reads INTF then INTCAP, which clears the condition on the chip, and records
// both as the bank's current event, replacing the previous one.
//
// When either read fails nothing is recorded and the previous event is kept.
// The line is likely still asserted and the call should be retried.
func (c *Controller) Interrupt(b Bank) error {
	if !b.valid() {
		return fmt.Errorf("%w: bank %s", ErrInvalidRegister, b)
	}
	flags, err := c.regs.read(Register{Bank: b, Role: INTF})
	if err != nil {
		return err
	}
	captured, err := c.regs.read(Register{Bank: b, Role: INTCAP})
	if err != nil {
		return err
	}
	c.gen++
	c.events[b] = Event{Bank: b, Flags: flags, Captured: captured, Generation: c.gen}
	c.seen[b] = true
	return nil
}

// Triggered reports whether p was flagged in the last event recorded for its
// bank and, if so, the level captured at that time. It does not access the
// bus; calling it repeatedly returns the same answer until the next
// Interrupt call for the bank.
//
// Reconfiguring a pin does not discard the recorded event, so a pin can
// report a trigger that predates its current configuration.
func (c *Controller) Triggered(p PinID) (gpio.Level, bool) {
	b := p.Bank()
	if !b.valid() || !c.seen[b] {
		return gpio.Low, false
	}
	return c.events[b].Triggered(p.Bit())
}

// Event returns the last event recorded for bank b, if any.
func (c *Controller) Event(b Bank) (Event, bool) {
	if !b.valid() || !c.seen[b] {
		return Event{}, false
	}
	return c.events[b], true
}
