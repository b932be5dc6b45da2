// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23017

import "errors"

// Errors returned for misuse of the driver. Bus errors are never wrapped and
// are returned as the i2c.Bus reported them.
var (
	ErrInvalidAddress  = errors.New("mcp23017: address must be in 0x20..0x27")
	ErrInvalidRegister = errors.New("mcp23017: invalid register")
	ErrReadOnly        = errors.New("mcp23017: register is read-only")
	ErrNotCached       = errors.New("mcp23017: register is not cached")
	ErrBankMode        = errors.New("mcp23017: IOCON.BANK=1 addressing is not supported")
	ErrSplit           = errors.New("mcp23017: device was split into pins")
	ErrStalePin        = errors.New("mcp23017: pin handle was replaced by a reconfiguration")
	ErrModeMismatch    = errors.New("mcp23017: operation not allowed in the pin's mode")
	ErrOutputOnly      = errors.New("mcp23017: pin can only be used as an output")
)
