// Copyright 2022 The LS7366R Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spi allows users to read from and write to an SPI device.
package spi // import "github.com/quadrature-io/ls7366r/spi"

import (
	"time"

	"github.com/quadrature-io/ls7366r/spi/driver"
)

// Mode represents the SPI mode number where clock parity (CPOL)
// is the high order and clock edge (CPHA) is the low order bit.
type Mode int

const (
	Mode0 = Mode(0)
	Mode1 = Mode(1)
	Mode2 = Mode(2)
	Mode3 = Mode(3)
)

// Order is the bit justification to be used while transferring
// words to the SPI device. MSB-first encoding is more popular
// than LSB-first.
type Order int

const (
	MSBFirst = Order(0)
	LSBFirst = Order(1)
)

// Device is an open SPI device.
type Device struct {
	conn  driver.Conn
	delay time.Duration
}

// SetMode sets the SPI mode. SPI mode is a combination of polarity and phases.
// CPOL is the high order bit, CPHA is the low order. Pre-computed mode
// values are Mode0, Mode1, Mode2 and Mode3.
// The value can be changed by SPI device's driver.
func (d *Device) SetMode(mode Mode) error {
	return d.conn.Configure(driver.Mode, int(mode))
}

// SetMaxSpeed sets the maximum clock speed in Hz.
// The value can be overridden by SPI device's driver.
func (d *Device) SetMaxSpeed(speedHz int) error {
	return d.conn.Configure(driver.Speed, speedHz)
}

// SetBitsPerWord sets how many bits it takes to represent a word,
// e.g. 8 represents 8-bit words. The default is 8 bits per word.
func (d *Device) SetBitsPerWord(bits int) error {
	return d.conn.Configure(driver.Bits, bits)
}

// SetBitOrder sets the bit justification used to transfer SPI words.
// Valid values are MSBFirst and LSBFirst.
func (d *Device) SetBitOrder(o Order) error {
	return d.conn.Configure(driver.Order, int(o))
}

// SetDelay sets the amount of pause that will be added after each frame
// write before the chip select line is released.
func (d *Device) SetDelay(t time.Duration) {
	d.delay = t
}

// Transfer performs a duplex transmission: tx is written to the SPI device
// while len(rx) bytes are read into rx. A nil rx performs a write-only
// transaction; a nil tx clocks out zeros while reading.
// It is the caller's responsibility not to mutate the buffers until this
// call returns.
func (d *Device) Transfer(tx, rx []byte) error {
	return d.conn.Transfer(tx, rx, d.delay)
}

// New creates a device from an already-open connection. It is useful
// to layer a device on connections coming from alternative backends
// such as test conns.
func New(conn driver.Conn) *Device {
	return &Device{conn: conn}
}

// Open opens a device with the specified bus and chip select by using the
// given driver, then applies the SPI mode and the maximum clock speed.
// Mode is a combination of polarity and phases: CPOL is the high order bit,
// CPHA is the low order. Pre-computed mode values are Mode0, Mode1, Mode2
// and Mode3. Both the mode and the speed can be overridden by the device's
// driver.
func Open(o driver.Opener, bus, chip int, mode Mode, maxSpeedHz int) (*Device, error) {
	conn, err := o.Open(bus, chip)
	if err != nil {
		return nil, err
	}
	dev := &Device{conn: conn}
	if err := dev.SetMode(mode); err != nil {
		conn.Close()
		return nil, err
	}
	if err := dev.SetMaxSpeed(maxSpeedHz); err != nil {
		conn.Close()
		return nil, err
	}
	return dev, nil
}

// Close closes the SPI device and releases the related resources.
func (d *Device) Close() error {
	return d.conn.Close()
}
