// Copyright 2022 The LS7366R Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ls7366r implements a driver for the LSI/CSI LS7366R quadrature
// counter over a duplex serial byte channel, typically an SPI connection
// from the spi package.
//
// The chip tracks the A and B phase outputs of an incremental encoder in
// a hardware counter of configurable width (8, 16, 24 or 32 bits). It is
// controlled through six registers, each transaction opened by a single
// instruction byte that combines an operation with a register select. A
// Device exposes the registers as typed accessors and caches nothing:
// every accessor is a fresh bus round trip, and accessors that update one
// field of a mode register read-modify-write the whole byte.
//
// A Device holds no lock. Callers sharing one across goroutines must
// serialize access themselves; interleaving two read-modify-write
// accessors loses updates.
package ls7366r // import "github.com/quadrature-io/ls7366r"

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

// Conn is a duplex byte channel to the chip. *spi.Device implements it.
type Conn interface {
	// Transfer clocks tx out while reading len(rx) bytes into rx.
	// A nil rx performs a write-only transaction.
	Transfer(tx, rx []byte) error
}

// ErrInvalidArgument is wrapped by every error returned for a value
// outside its domain. Such errors are returned before the device is
// touched. Channel errors are returned to the caller unchanged.
var ErrInvalidArgument = errors.New("invalid argument")

// Register identifies one of the chip's internal registers. The constants
// carry the datasheet mnemonics at their instruction sub-codes.
type Register uint8

const (
	MDR0 Register = 0x08 // mode register 0: quadrature, running mode, index, filter
	MDR1 Register = 0x10 // mode register 1: counter width, count enable, flag routing
	DTR  Register = 0x18 // data transfer register: staging for counter loads
	CNTR Register = 0x20 // the counter
	OTR  Register = 0x28 // output transfer register: latched counter snapshot
	STR  Register = 0x30 // status register
)

func (r Register) String() string {
	switch r {
	case MDR0:
		return "MDR0"
	case MDR1:
		return "MDR1"
	case DTR:
		return "DTR"
	case CNTR:
		return "CNTR"
	case OTR:
		return "OTR"
	case STR:
		return "STR"
	}
	return fmt.Sprintf("Register(%#02x)", uint8(r))
}

// Operations occupy the two high bits of an instruction byte.
const (
	opClear uint8 = 0x00
	opRead  uint8 = 0x40
	opWrite uint8 = 0x80
	opLoad  uint8 = 0xC0
)

// instruction builds the byte that opens a transaction on reg.
func instruction(op uint8, reg Register) byte {
	return op | uint8(reg)
}

// Device drives one LS7366R.
type Device struct {
	c Conn
}

// New layers a Device over the given channel. It performs no bus traffic;
// use Init to bring the chip to a known configuration.
func New(c Conn) *Device {
	return &Device{c: c}
}

// Configuration written by Init.
const (
	initMDR0 = 0x83 // x4 quadrature, free-running, index disabled, filter factor 2
	initMDR1 = 0x00 // 32-bit counter, counting enabled, flags off
)

// Init configures the chip to the driver defaults: x4 quadrature count on
// a free-running 32-bit counter, index input disabled, filter division
// factor 2, counting enabled. It then zeroes the counter and the status
// latches; the power-loss latch reads set after power-up until cleared.
func (d *Device) Init() error {
	if err := d.write(MDR0, initMDR0); err != nil {
		return err
	}
	if err := d.write(MDR1, initMDR1); err != nil {
		return err
	}
	if err := d.Clear(CNTR); err != nil {
		return err
	}
	return d.Clear(STR)
}

// width returns the payload length in bytes for transactions on reg.
// DTR, CNTR and OTR follow the counter width configured in MDR1, which is
// read fresh on every resolution; the Device never stores it.
func (d *Device) width(reg Register) (int, error) {
	switch reg {
	case MDR0, MDR1, STR:
		return 1, nil
	}
	bits, err := d.Bits()
	if err != nil {
		return 0, err
	}
	return bits / 8, nil
}

// read performs a read transaction on reg at its current width.
func (d *Device) read(reg Register) (uint32, error) {
	n, err := d.width(reg)
	if err != nil {
		return 0, err
	}
	return d.readN(reg, n)
}

// readN clocks out the read instruction followed by n zero fillers,
// discards the byte echoed in the instruction slot and folds the n
// payload bytes MSB-first.
func (d *Device) readN(reg Register, n int) (uint32, error) {
	tx := make([]byte, n+1)
	tx[0] = instruction(opRead, reg)
	rx := make([]byte, n+1)
	if err := d.c.Transfer(tx, rx); err != nil {
		return 0, err
	}
	var v uint32
	for _, b := range rx[1:] {
		v = v<<8 | uint32(b)
	}
	return v, nil
}

// write performs a write-only transaction on reg at its current width.
func (d *Device) write(reg Register, v uint32) error {
	n, err := d.width(reg)
	if err != nil {
		return err
	}
	return d.writeN(reg, v, n)
}

// writeN sends the write instruction followed by the low n bytes of v,
// most significant first.
func (d *Device) writeN(reg Register, v uint32, n int) error {
	tx := make([]byte, n+1)
	tx[0] = instruction(opWrite, reg)
	for i := n; i > 0; i-- {
		tx[i] = byte(v)
		v >>= 8
	}
	return d.c.Transfer(tx, nil)
}

// The register sets valid for the clear and load instructions. Targets
// outside them are rejected before any bus traffic.
var (
	clearable = []Register{MDR0, MDR1, CNTR, STR}
	loadable  = []Register{CNTR, OTR}
)

// Clear resets reg in a single instruction byte: CNTR and STR to zero,
// MDR0 and MDR1 to their power-on defaults. The chip supports clearing no
// other register.
func (d *Device) Clear(reg Register) error {
	if !slices.Contains(clearable, reg) {
		return fmt.Errorf("ls7366r: clear %v: target must be MDR0, MDR1, CNTR or STR: %w", reg, ErrInvalidArgument)
	}
	return d.c.Transfer([]byte{instruction(opClear, reg)}, nil)
}

// Load triggers an in-chip register transfer in a single instruction
// byte: DTR into CNTR, or CNTR into OTR. The chip supports loading no
// other register.
func (d *Device) Load(reg Register) error {
	if !slices.Contains(loadable, reg) {
		return fmt.Errorf("ls7366r: load %v: target must be CNTR or OTR: %w", reg, ErrInvalidArgument)
	}
	return d.c.Transfer([]byte{instruction(opLoad, reg)}, nil)
}
