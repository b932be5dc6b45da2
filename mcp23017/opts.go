// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23017

// Opts holds the configuration options for the device.
type Opts struct {
	// OutputOnlyBit7 rejects input configurations on GPA7 and GPB7. Recent
	// revisions of the datasheet mandate that these two pins are only used
	// as outputs. Default is false.
	OutputOnlyBit7 bool
	// Refresh reads every writable register in New so the shadow reflects a
	// chip that is not in its power-on state. Default is false, the chip is
	// assumed to be freshly reset.
	Refresh bool
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{}
