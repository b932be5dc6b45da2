// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mcp23017 provides a driver for the Microchip MCP23017 16-bit I²C
// GPIO expander.
//
// The chip has two 8-bit ports, A and B. Dev.Split turns a device into 16 pin
// handles and one interrupt Controller. Each handle type only has the
// operations legal for its configuration; reconfiguring a pin returns a new
// handle and the old one fails with ErrStalePin from then on.
//
// The driver keeps a shadow of every writable register so that changing the
// configuration of a pin is a single write that leaves the other pins of the
// port untouched. Inputs are always read from the chip.
//
// A Dev and everything derived from it is meant to be used from a single
// goroutine. Callers sharing it must provide their own locking.
//
// # Datasheet
//
// https://ww1.microchip.com/downloads/en/DeviceDoc/20001952C.pdf
package mcp23017
