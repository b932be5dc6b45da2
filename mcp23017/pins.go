// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23017

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

// Mode is the configuration of a pin as tracked by its handle.
type Mode uint8

const (
	ModeReset Mode = iota
	ModeOutput
	ModeFloatingInput
	ModePullUpInput
	ModeInterruptFloating
	ModeInterruptPullUp
)

func (m Mode) String() string {
	switch m {
	case ModeReset:
		return "Reset"
	case ModeOutput:
		return "Output"
	case ModeFloatingInput:
		return "FloatingInput"
	case ModePullUpInput:
		return "PullUpInput"
	case ModeInterruptFloating:
		return "InterruptFloating"
	case ModeInterruptPullUp:
		return "InterruptPullUp"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

func (m Mode) input() bool {
	return m >= ModeFloatingInput
}

func (m Mode) function() pin.Func {
	switch {
	case m == ModeOutput:
		return gpio.OUT
	case m.input():
		return gpio.IN
	default:
		return pin.FuncNone
	}
}

// PinID identifies a physical pin. All the pin handles implement it.
type PinID interface {
	Bank() Bank
	Bit() int
}

// pinCore is the state common to every handle type. The handle is live as
// long as gen matches the ownership slot in the register file.
type pinCore struct {
	regs       *registers
	name       string
	bank       Bank
	bit        uint8
	gen        uint32
	outputOnly bool
}

// String implements conn.Resource.
func (c *pinCore) String() string {
	return c.name
}

// Name implements pin.Pin.
func (c *pinCore) Name() string {
	return c.name
}

// Number implements pin.Pin. Bank A pins are 0 to 7, bank B pins 8 to 15.
func (c *pinCore) Number() int {
	return int(c.bank)*8 + int(c.bit)
}

// Bank implements PinID.
func (c *pinCore) Bank() Bank {
	return c.bank
}

// Bit implements PinID.
func (c *pinCore) Bit() int {
	return int(c.bit)
}

func (c *pinCore) reg(role Role) Register {
	return Register{Bank: c.bank, Role: role}
}

// claim checks that the handle still owns the pin in mode m.
func (c *pinCore) claim(m Mode) error {
	s := c.regs.slots[c.bank][c.bit]
	if s.gen != c.gen {
		return fmt.Errorf("%w: %s", ErrStalePin, c.name)
	}
	if s.mode != m {
		return fmt.Errorf("%w: %s is %s, want %s", ErrModeMismatch, c.name, s.mode, m)
	}
	return nil
}

// step is one bit change of a mode transition.
type step struct {
	role Role
	on   bool
}

// transition applies the steps in order and hands the pin over to a new
// handle in mode to. If a step fails the remaining ones are skipped, the
// chip is left with the steps already applied and the old handle stays live.
func (c *pinCore) transition(from, to Mode, steps ...step) (*pinCore, error) {
	if err := c.claim(from); err != nil {
		return nil, err
	}
	if to.input() && c.outputOnly {
		return nil, fmt.Errorf("%w: %s", ErrOutputOnly, c.name)
	}
	for _, s := range steps {
		if err := c.regs.setBit(c.reg(s.role), c.bit, s.on); err != nil {
			return nil, err
		}
	}
	sl := &c.regs.slots[c.bank][c.bit]
	sl.gen++
	sl.mode = to
	n := *c
	n.gen = sl.gen
	return &n, nil
}

// level reads the live GPIO register.
func (c *pinCore) level(m Mode) (gpio.Level, error) {
	if err := c.claim(m); err != nil {
		return gpio.Low, err
	}
	v, err := c.regs.read(c.reg(GPIO))
	if err != nil {
		return gpio.Low, err
	}
	return gpio.Level(v&(1<<c.bit) != 0), nil
}

// Unconfigured is a pin as returned by Dev.Split. It has no I/O operation
// until it is configured.
type Unconfigured struct {
	*pinCore
}

// Function implements pin.Pin.
//
// Deprecated: Use Func.
func (p *Unconfigured) Function() string {
	return string(p.Func())
}

// Func returns pin.FuncNone.
func (p *Unconfigured) Func() pin.Func {
	return ModeReset.function()
}

// Halt implements conn.Resource. It is a no-op.
func (p *Unconfigured) Halt() error {
	return nil
}

// IntoPushPullOutput configures the pin as an output.
func (p *Unconfigured) IntoPushPullOutput() (*Output, error) {
	c, err := p.transition(ModeReset, ModeOutput, step{IODIR, false})
	if err != nil {
		return nil, err
	}
	return &Output{c}, nil
}

// IntoFloatingInput configures the pin as an input with the pull-up
// disconnected.
func (p *Unconfigured) IntoFloatingInput() (*Input[Floating], error) {
	return intoInput[Floating](p.pinCore, ModeReset, step{GPPU, false}, step{IODIR, true})
}

// IntoPullUpInput configures the pin as an input with the 100kΩ pull-up
// connected.
func (p *Unconfigured) IntoPullUpInput() (*Input[PullUp], error) {
	return intoInput[PullUp](p.pinCore, ModeReset, step{GPPU, true}, step{IODIR, true})
}

// Output is a pin configured as a push-pull output.
type Output struct {
	*pinCore
}

// Function implements pin.Pin.
//
// Deprecated: Use Func.
func (p *Output) Function() string {
	return string(p.Func())
}

// Func returns gpio.OUT.
func (p *Output) Func() pin.Func {
	return ModeOutput.function()
}

// Halt implements conn.Resource. It drives the output low.
func (p *Output) Halt() error {
	return p.SetLow()
}

// Out sets the output latch of the pin.
func (p *Output) Out(l gpio.Level) error {
	if err := p.claim(ModeOutput); err != nil {
		return err
	}
	return p.regs.setBit(p.reg(OLAT), p.bit, bool(l))
}

// SetHigh drives the pin high.
func (p *Output) SetHigh() error {
	return p.Out(gpio.High)
}

// SetLow drives the pin low.
func (p *Output) SetLow() error {
	return p.Out(gpio.Low)
}

// Toggle inverts the last level written to the pin.
func (p *Output) Toggle() error {
	if err := p.claim(ModeOutput); err != nil {
		return err
	}
	return p.regs.setBit(p.reg(OLAT), p.bit, !p.regs.cachedBit(p.reg(OLAT), p.bit))
}

// IsSetHigh returns the level last written to the output latch. It does not
// access the bus, so it reports the commanded level and not the electrical
// one.
func (p *Output) IsSetHigh() (bool, error) {
	if err := p.claim(ModeOutput); err != nil {
		return false, err
	}
	return p.regs.cachedBit(p.reg(OLAT), p.bit), nil
}

// IsSetLow is the opposite of IsSetHigh.
func (p *Output) IsSetLow() (bool, error) {
	h, err := p.IsSetHigh()
	return !h, err
}

// IntoFloatingInput reconfigures the pin as an input with the pull-up
// disconnected.
func (p *Output) IntoFloatingInput() (*Input[Floating], error) {
	return intoInput[Floating](p.pinCore, ModeOutput, step{GPPU, false}, step{IODIR, true})
}

// IntoPullUpInput reconfigures the pin as an input with the pull-up
// connected.
func (p *Output) IntoPullUpInput() (*Input[PullUp], error) {
	return intoInput[PullUp](p.pinCore, ModeOutput, step{GPPU, true}, step{IODIR, true})
}

// InputConfig is the pull configuration of an input pin.
type InputConfig interface {
	Floating | PullUp
	pullUp() bool
}

// Floating selects an input with the internal pull-up disconnected.
type Floating struct{}

func (Floating) pullUp() bool { return false }

// PullUp selects an input with the internal pull-up connected.
type PullUp struct{}

func (PullUp) pullUp() bool { return true }

func inputMode[C InputConfig]() Mode {
	var c C
	if c.pullUp() {
		return ModePullUpInput
	}
	return ModeFloatingInput
}

func interruptMode[C InputConfig]() Mode {
	var c C
	if c.pullUp() {
		return ModeInterruptPullUp
	}
	return ModeInterruptFloating
}

func intoInput[C InputConfig](c *pinCore, from Mode, steps ...step) (*Input[C], error) {
	n, err := c.transition(from, inputMode[C](), steps...)
	if err != nil {
		return nil, err
	}
	return &Input[C]{n}, nil
}

// Input is a pin configured as an input, either Floating or PullUp.
type Input[C InputConfig] struct {
	*pinCore
}

// Function implements pin.Pin.
//
// Deprecated: Use Func.
func (p *Input[C]) Function() string {
	return string(p.Func())
}

// Func returns gpio.IN.
func (p *Input[C]) Func() pin.Func {
	return inputMode[C]().function()
}

// Halt implements conn.Resource. It is a no-op.
func (p *Input[C]) Halt() error {
	return nil
}

// Read returns the current level of the pin. Every call reads the GPIO
// register, the value is never cached.
func (p *Input[C]) Read() (gpio.Level, error) {
	return p.level(inputMode[C]())
}

// IsHigh returns true if the pin is high.
func (p *Input[C]) IsHigh() (bool, error) {
	l, err := p.Read()
	return bool(l), err
}

// IsLow returns true if the pin is low.
func (p *Input[C]) IsLow() (bool, error) {
	l, err := p.Read()
	return !bool(l), err
}

// SetPolarityInverted inverts the value reported for this pin by the GPIO
// and INTCAP registers.
func (p *Input[C]) SetPolarityInverted(inverted bool) error {
	if err := p.claim(inputMode[C]()); err != nil {
		return err
	}
	return p.regs.setBit(p.reg(IPOL), p.bit, inverted)
}

// IsPolarityInverted returns the cached polarity setting.
func (p *Input[C]) IsPolarityInverted() (bool, error) {
	if err := p.claim(inputMode[C]()); err != nil {
		return false, err
	}
	return p.regs.cachedBit(p.reg(IPOL), p.bit), nil
}

// IntoFloatingInput disconnects the pull-up.
func (p *Input[C]) IntoFloatingInput() (*Input[Floating], error) {
	return intoInput[Floating](p.pinCore, inputMode[C](), step{GPPU, false})
}

// IntoPullUpInput connects the pull-up.
func (p *Input[C]) IntoPullUpInput() (*Input[PullUp], error) {
	return intoInput[PullUp](p.pinCore, inputMode[C](), step{GPPU, true})
}

// IntoPushPullOutput reconfigures the pin as an output. The output latch
// keeps its previous value.
func (p *Input[C]) IntoPushPullOutput() (*Output, error) {
	c, err := p.transition(inputMode[C](), ModeOutput, step{IODIR, false})
	if err != nil {
		return nil, err
	}
	return &Output{c}, nil
}

// EnableInterrupt enables interrupt-on-change for the pin with the given
// sense. Interrupts are then reported through the Controller.
func (p *Input[C]) EnableInterrupt(s Sense) (*Interrupt[C], error) {
	var steps []step
	if s.compareDefault {
		steps = append(steps, step{DEFVAL, bool(s.ref)}, step{INTCON, true})
	} else {
		steps = append(steps, step{INTCON, false})
	}
	steps = append(steps, step{GPINTEN, true})
	c, err := p.transition(inputMode[C](), interruptMode[C](), steps...)
	if err != nil {
		return nil, err
	}
	return &Interrupt[C]{c}, nil
}

// Sense is the condition that raises an interrupt.
type Sense struct {
	compareDefault bool
	ref            gpio.Level
}

// Edge raises an interrupt whenever the input changes, comparing it against
// its previous value.
var Edge = Sense{}

// Level raises an interrupt while the input differs from ref.
func Level(ref gpio.Level) Sense {
	return Sense{compareDefault: true, ref: ref}
}

var (
	// SenseHigh raises an interrupt while the input is high.
	SenseHigh = Level(gpio.Low)
	// SenseLow raises an interrupt while the input is low.
	SenseLow = Level(gpio.High)
)

func (s Sense) String() string {
	if !s.compareDefault {
		return "Edge"
	}
	return "Level(" + s.ref.String() + ")"
}

// Interrupt is an input pin with interrupt-on-change enabled.
type Interrupt[C InputConfig] struct {
	*pinCore
}

// Function implements pin.Pin.
//
// Deprecated: Use Func.
func (p *Interrupt[C]) Function() string {
	return string(p.Func())
}

// Func returns gpio.IN.
func (p *Interrupt[C]) Func() pin.Func {
	return interruptMode[C]().function()
}

// Halt implements conn.Resource. It is a no-op.
func (p *Interrupt[C]) Halt() error {
	return nil
}

// Read returns the current level of the pin. Use Controller.Triggered to
// get the level captured when the interrupt fired.
func (p *Interrupt[C]) Read() (gpio.Level, error) {
	return p.level(interruptMode[C]())
}

// IsHigh returns true if the pin is high.
func (p *Interrupt[C]) IsHigh() (bool, error) {
	l, err := p.Read()
	return bool(l), err
}

// IsLow returns true if the pin is low.
func (p *Interrupt[C]) IsLow() (bool, error) {
	l, err := p.Read()
	return !bool(l), err
}

// DisableInterrupt disables interrupt-on-change for the pin. An event already
// recorded by the Controller for this pin stays visible until the next
// Controller.Interrupt call for the bank.
func (p *Interrupt[C]) DisableInterrupt() (*Input[C], error) {
	c, err := p.transition(interruptMode[C](), inputMode[C](), step{GPINTEN, false})
	if err != nil {
		return nil, err
	}
	return &Input[C]{c}, nil
}

var (
	_ pin.Pin = &Unconfigured{}
	_ pin.Pin = &Output{}
	_ pin.Pin = &Input[Floating]{}
	_ pin.Pin = &Interrupt[PullUp]{}
	_ PinID   = &Output{}
)
