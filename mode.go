// Copyright 2022 The LS7366R Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ls7366r

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// RunningMode selects how the counter runs.
type RunningMode uint8

const (
	FreeRun     RunningMode = iota // count without bounds
	SingleCycle                    // halt on the first carry or borrow
	RangeLimit                     // hold at zero and at DTR, resume on reversal
	ModuloN                        // wrap at the modulus held in DTR
)

func (m RunningMode) String() string {
	switch m {
	case FreeRun:
		return "free-run"
	case SingleCycle:
		return "single-cycle"
	case RangeLimit:
		return "range-limit"
	case ModuloN:
		return "modulo-n"
	}
	return fmt.Sprintf("RunningMode(%d)", uint8(m))
}

// IndexMode selects what a pulse on the index input does.
type IndexMode uint8

const (
	IndexDisabled IndexMode = iota // index input ignored
	IndexLoad                      // DTR loaded into CNTR
	IndexReset                     // CNTR reset to zero
	IndexLatch                     // CNTR latched into OTR
)

func (m IndexMode) String() string {
	switch m {
	case IndexDisabled:
		return "disabled"
	case IndexLoad:
		return "load"
	case IndexReset:
		return "reset"
	case IndexLatch:
		return "latch"
	}
	return fmt.Sprintf("IndexMode(%d)", uint8(m))
}

// Flag selects the conditions routed to the chip's FLAG output, at their
// MDR1 bit positions. Flags combine by OR.
type Flag uint8

const (
	FlagIndex   Flag = 0x10
	FlagCompare Flag = 0x20
	FlagBorrow  Flag = 0x40
	FlagCarry   Flag = 0x80
)

// A field is one independently-settable span of bits within a mode
// register.
type field struct {
	reg   Register
	shift uint
	mask  uint8
}

// Mode register layout per the datasheet.
var (
	quadratureField = field{MDR0, 0, 0x03}
	runningField    = field{MDR0, 2, 0x03}
	indexField      = field{MDR0, 4, 0x03}
	syncField       = field{MDR0, 6, 0x01}
	filterField     = field{MDR0, 7, 0x01}
	widthField      = field{MDR1, 0, 0x03}
	disableField    = field{MDR1, 2, 0x01}
	flagField       = field{MDR1, 4, 0x0f}
)

// field reads the holding register and extracts f.
func (d *Device) field(f field) (uint8, error) {
	v, err := d.read(f.reg)
	if err != nil {
		return 0, err
	}
	return uint8(v) >> f.shift & f.mask, nil
}

// setField read-modify-writes f, leaving sibling fields untouched. The
// two transactions are not atomic; see the package comment.
func (d *Device) setField(f field, enc uint8) error {
	v, err := d.read(f.reg)
	if err != nil {
		return err
	}
	b := uint8(v)&^(f.mask<<f.shift) | enc<<f.shift
	return d.write(f.reg, uint32(b))
}

// quadModes maps the MDR0 quadrature field encoding to the logical count
// multiplier.
var quadModes = []int{0, 1, 2, 4}

// Quadrature returns the quadrature multiplier: 0 for non-quadrature
// operation (A clocks, B steers), or 1, 2 or 4 counts per quadrature
// cycle.
func (d *Device) Quadrature() (int, error) {
	enc, err := d.field(quadratureField)
	if err != nil {
		return 0, err
	}
	return quadModes[enc], nil
}

// SetQuadrature sets the quadrature multiplier to 0, 1, 2 or 4.
func (d *Device) SetQuadrature(mode int) error {
	enc := slices.Index(quadModes, mode)
	if enc < 0 {
		return fmt.Errorf("ls7366r: quadrature %d: want 0, 1, 2 or 4: %w", mode, ErrInvalidArgument)
	}
	return d.setField(quadratureField, uint8(enc))
}

// Bits returns the counter width in bits.
func (d *Device) Bits() (int, error) {
	enc, err := d.field(widthField)
	if err != nil {
		return 0, err
	}
	return 8 * (4 - int(enc)), nil
}

// SetBits sets the counter width to 8, 16, 24 or 32 bits. The width
// governs the payload length of every DTR, CNTR and OTR transaction and
// the position of the count's sign bit.
func (d *Device) SetBits(bits int) error {
	switch bits {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("ls7366r: counter width %d: want 8, 16, 24 or 32: %w", bits, ErrInvalidArgument)
	}
	return d.setField(widthField, uint8(4-bits/8))
}

// Enabled reports whether the counter is counting. The chip's bit has
// inverted sense (set means disabled); Enabled hides that.
func (d *Device) Enabled() (bool, error) {
	enc, err := d.field(disableField)
	if err != nil {
		return false, err
	}
	return enc == 0, nil
}

// SetEnabled starts or stops counting. The register configuration and the
// count are unaffected.
func (d *Device) SetEnabled(on bool) error {
	var enc uint8
	if !on {
		enc = 1
	}
	return d.setField(disableField, enc)
}

// RunningMode returns the configured running mode.
func (d *Device) RunningMode() (RunningMode, error) {
	enc, err := d.field(runningField)
	return RunningMode(enc), err
}

// SetRunningMode sets the running mode.
func (d *Device) SetRunningMode(m RunningMode) error {
	if m > ModuloN {
		return fmt.Errorf("ls7366r: running mode %d: want FreeRun, SingleCycle, RangeLimit or ModuloN: %w", uint8(m), ErrInvalidArgument)
	}
	return d.setField(runningField, uint8(m))
}

// IndexMode returns the configured index mode.
func (d *Device) IndexMode() (IndexMode, error) {
	enc, err := d.field(indexField)
	return IndexMode(enc), err
}

// SetIndexMode sets the effect of an index pulse.
func (d *Device) SetIndexMode(m IndexMode) error {
	if m > IndexLatch {
		return fmt.Errorf("ls7366r: index mode %d: want IndexDisabled, IndexLoad, IndexReset or IndexLatch: %w", uint8(m), ErrInvalidArgument)
	}
	return d.setField(indexField, uint8(m))
}

// IndexSync reports whether the index input is synchronized with the
// filter clock.
func (d *Device) IndexSync() (bool, error) {
	enc, err := d.field(syncField)
	return enc != 0, err
}

// SetIndexSync selects synchronous (true) or asynchronous (false) index
// operation. Synchronous operation suits encoders whose index output is
// gated by the A and B states.
func (d *Device) SetIndexSync(sync bool) error {
	var enc uint8
	if sync {
		enc = 1
	}
	return d.setField(syncField, enc)
}

// FilterFactor returns the division factor, 1 or 2, applied to the system
// clock to derive the input noise filter clock.
func (d *Device) FilterFactor() (int, error) {
	enc, err := d.field(filterField)
	if err != nil {
		return 0, err
	}
	return int(enc) + 1, nil
}

// SetFilterFactor sets the filter clock division factor to 1 or 2.
func (d *Device) SetFilterFactor(factor int) error {
	if factor != 1 && factor != 2 {
		return fmt.Errorf("ls7366r: filter factor %d: want 1 or 2: %w", factor, ErrInvalidArgument)
	}
	return d.setField(filterField, uint8(factor-1))
}

// Flags returns the conditions routed to the FLAG output.
func (d *Device) Flags() (Flag, error) {
	enc, err := d.field(flagField)
	return Flag(enc << 4), err
}

// SetFlags routes the given conditions to the FLAG output.
func (d *Device) SetFlags(f Flag) error {
	if f&^(FlagIndex|FlagCompare|FlagBorrow|FlagCarry) != 0 {
		return fmt.Errorf("ls7366r: flags %#02x: want a combination of FlagIndex, FlagCompare, FlagBorrow and FlagCarry: %w", uint8(f), ErrInvalidArgument)
	}
	return d.setField(flagField, uint8(f)>>4)
}
