// Copyright 2022 The LS7366R Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ls7366rtest provides a software model of the LS7366R for
// testing drivers without hardware.
//
// Chip implements the spi driver.Conn interface and decodes the chip's
// wire protocol against its own copy of the datasheet constants, so a
// driver under test is checked against the documented instruction set
// rather than against its own encoder.
package ls7366rtest // import "github.com/quadrature-io/ls7366r/ls7366rtest"

import (
	"fmt"
	"time"
)

// Instruction byte layout.
const (
	opMask  = 0xC0
	regMask = 0x38

	opClear = 0x00
	opRead  = 0x40
	opWrite = 0x80
	opLoad  = 0xC0

	regMDR0 = 0x08
	regMDR1 = 0x10
	regDTR  = 0x18
	regCNTR = 0x20
	regOTR  = 0x28
	regSTR  = 0x30
)

// Status bits.
const (
	statusSign = 1 << iota
	statusUp
	statusPowerLoss
	statusEnabled
	statusIndex
	statusCompare
	statusBorrow
	statusCarry
)

// Chip is a software model of the counter chip. The exported registers
// may be set up or inspected directly between transactions.
//
// The model counts in free-running mode only: Add wraps and latches at
// the configured width regardless of the running mode bits. Undefined
// instruction combinations are ignored, as the chip ignores them.
type Chip struct {
	MDR0, MDR1 uint8
	DTR        uint32
	CNTR       uint32
	OTR        uint32

	up    bool  // last count direction
	latch uint8 // latched status bits

	Transfers int // Transfer calls observed
	Closed    bool
}

// New returns a freshly powered-up chip: all registers zero and the
// power-loss latch set.
func New() *Chip {
	return &Chip{latch: statusPowerLoss}
}

func (c *Chip) Configure(k, v int) error {
	return nil
}

func (c *Chip) Close() error {
	c.Closed = true
	return nil
}

// Transfer decodes and executes one transaction.
func (c *Chip) Transfer(tx, rx []byte, delay time.Duration) error {
	c.Transfers++
	if len(tx) == 0 {
		return fmt.Errorf("ls7366rtest: transfer without an instruction byte")
	}
	reg := tx[0] & regMask
	switch tx[0] & opMask {
	case opClear:
		c.clear(reg)
	case opRead:
		c.readInto(reg, rx)
	case opWrite:
		c.write(reg, tx[1:])
	case opLoad:
		c.load(reg)
	}
	return nil
}

func (c *Chip) clear(reg uint8) {
	switch reg {
	case regMDR0:
		c.MDR0 = 0
	case regMDR1:
		c.MDR1 = 0
	case regCNTR:
		c.CNTR = 0
	case regSTR:
		c.latch = 0
	}
}

func (c *Chip) load(reg uint8) {
	switch reg {
	case regCNTR:
		c.CNTR = c.DTR & c.mask()
	case regOTR:
		c.OTR = c.CNTR
	}
}

func (c *Chip) write(reg uint8, data []byte) {
	if len(data) == 0 {
		return
	}
	switch reg {
	case regMDR0:
		c.MDR0 = data[0]
	case regMDR1:
		c.MDR1 = data[0]
	case regDTR:
		var v uint32
		for _, b := range data {
			v = v<<8 | uint32(b)
		}
		c.DTR = v
	}
}

func (c *Chip) readInto(reg uint8, rx []byte) {
	var v uint32
	n := 1
	switch reg {
	case regMDR0:
		v = uint32(c.MDR0)
	case regMDR1:
		v = uint32(c.MDR1)
	case regSTR:
		v = uint32(c.status())
	case regCNTR:
		// Reading the counter latches it into OTR and answers from
		// there.
		c.OTR = c.CNTR
		v, n = c.OTR, c.width()
	case regOTR:
		v, n = c.OTR, c.width()
	default:
		return
	}
	if rx == nil {
		return
	}
	out := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	rx[0] = 0
	copy(rx[1:], out)
}

// width returns the configured counter width in bytes.
func (c *Chip) width() int {
	return 4 - int(c.MDR1&0x03)
}

func (c *Chip) mask() uint32 {
	return uint32(uint64(1)<<(8*c.width()) - 1)
}

func (c *Chip) status() uint8 {
	s := c.latch
	if c.CNTR&(1<<(8*c.width()-1)) != 0 {
		s |= statusSign
	}
	if c.up {
		s |= statusUp
	}
	if c.MDR1&0x04 == 0 {
		s |= statusEnabled
	}
	return s
}

// Add steps the counter by n counts, modelling filtered edge input. The
// count wraps at the configured width, latching carry on overflow and
// borrow on underflow; the compare latch sets whenever the count passes
// DTR; the direction indicator follows the sign of n. Counting is
// suppressed while the disable bit of MDR1 is set.
func (c *Chip) Add(n int32) {
	if c.MDR1&0x04 != 0 {
		return
	}
	if n > 0 {
		c.up = true
	} else if n < 0 {
		c.up = false
	}
	m := c.mask()
	for ; n > 0; n-- {
		if c.CNTR == m {
			c.CNTR = 0
			c.latch |= statusCarry
		} else {
			c.CNTR++
		}
		if c.CNTR == c.DTR&m {
			c.latch |= statusCompare
		}
	}
	for ; n < 0; n++ {
		if c.CNTR == 0 {
			c.CNTR = m
			c.latch |= statusBorrow
		} else {
			c.CNTR--
		}
		if c.CNTR == c.DTR&m {
			c.latch |= statusCompare
		}
	}
}

// Index models a pulse on the index input, honoring the index mode
// configured in MDR0.
func (c *Chip) Index() {
	switch c.MDR0 >> 4 & 0x03 {
	case 0:
		return
	case 1:
		c.CNTR = c.DTR & c.mask()
	case 2:
		c.CNTR = 0
	case 3:
		c.OTR = c.CNTR
	}
	c.latch |= statusIndex
}
