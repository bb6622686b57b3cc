// Copyright 2022 The LS7366R Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver contains interfaces to be implemented by various SPI implementations.
package driver // import "github.com/quadrature-io/ls7366r/spi/driver"

import "time"

// Configure keys.
const (
	Mode  = iota // SPI mode (CPOL, CPHA)
	Bits         // bits per word
	Speed        // max clock speed in Hz
	Order        // bit order within a word
)

// Opener is an interface to be implemented by the SPI driver to open
// a connection to an SPI device with the specified bus and chip number.
type Opener interface {
	Open(bus, chip int) (Conn, error)
}

// Conn is a connection to an SPI device.
type Conn interface {
	// Configure configures the SPI device. Available keys are Mode
	// (as the SPI mode), Bits (as bits per word), Speed (as max clock
	// speed in Hz) and Order (as bit order to be used in transfers).
	//
	// SPI devices can override these values.
	Configure(k, v int) error

	// Transfer performs a duplex transmission: tx is clocked out while
	// bytes are clocked into rx. A nil rx discards the incoming bytes
	// (write-only); a nil tx clocks out zeros (read-only). If both are
	// non-nil they must have the same length.
	//
	// Some SPI devices require a minimum amount of wait time after
	// each frame write. "delay" amount of nanoseconds are inserted after
	// each write.
	Transfer(tx, rx []byte, delay time.Duration) error

	// Close frees the underlying resources and closes the connection.
	Close() error
}
