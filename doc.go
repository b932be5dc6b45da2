// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package expander is a container for GPIO expander drivers.
//
// See package mcp23017 for the Microchip MCP23017.
package expander
