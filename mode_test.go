// Copyright 2022 The LS7366R Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ls7366r

import (
	"errors"
	"testing"
)

func TestBits(t *testing.T) {
	tc := []struct {
		bits int
		mdr1 uint8
	}{
		{32, 0x00},
		{24, 0x01},
		{16, 0x02},
		{8, 0x03},
	}
	for _, tt := range tc {
		c, d := chip()
		if err := d.SetBits(tt.bits); err != nil {
			t.Fatalf("SetBits(%d): %v", tt.bits, err)
		}
		if c.MDR1 != tt.mdr1 {
			t.Errorf("MDR1 = %#02x after SetBits(%d); want %#02x", c.MDR1, tt.bits, tt.mdr1)
		}
		if got, err := d.Bits(); err != nil || got != tt.bits {
			t.Errorf("Bits() = %d, %v; want %d", got, err, tt.bits)
		}
	}
}

func TestSetBitsDomain(t *testing.T) {
	c, d := chip()
	for _, bits := range []int{0, 10, 12, 64} {
		if err := d.SetBits(bits); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("SetBits(%d) = %v; want ErrInvalidArgument", bits, err)
		}
	}
	if c.Transfers != 0 {
		t.Errorf("%d transfers after rejected widths; want 0", c.Transfers)
	}
	if c.MDR1 != 0 {
		t.Errorf("MDR1 = %#02x after rejected widths; want untouched", c.MDR1)
	}
}

func TestQuadrature(t *testing.T) {
	c, d := chip()
	if err := d.SetQuadrature(3); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetQuadrature(3) = %v; want ErrInvalidArgument", err)
	}
	if c.Transfers != 0 {
		t.Errorf("%d transfers after the rejected multiplier; want 0", c.Transfers)
	}
	for _, mode := range []int{0, 1, 2, 4} {
		if err := d.SetQuadrature(mode); err != nil {
			t.Fatalf("SetQuadrature(%d): %v", mode, err)
		}
		if got, err := d.Quadrature(); err != nil || got != mode {
			t.Errorf("Quadrature() = %d, %v; want %d", got, err, mode)
		}
	}
}

func TestFieldIsolation(t *testing.T) {
	c, d := chip()
	steps := []struct {
		name string
		set  func() error
	}{
		{"quadrature", func() error { return d.SetQuadrature(2) }},
		{"running mode", func() error { return d.SetRunningMode(RangeLimit) }},
		{"index mode", func() error { return d.SetIndexMode(IndexReset) }},
		{"index sync", func() error { return d.SetIndexSync(true) }},
		{"filter factor", func() error { return d.SetFilterFactor(2) }},
	}
	for _, s := range steps {
		if err := s.set(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
	}

	// Every field keeps its value after all its siblings changed.
	if got, err := d.Quadrature(); err != nil || got != 2 {
		t.Errorf("Quadrature() = %d, %v; want 2", got, err)
	}
	if got, err := d.RunningMode(); err != nil || got != RangeLimit {
		t.Errorf("RunningMode() = %v, %v; want %v", got, err, RangeLimit)
	}
	if got, err := d.IndexMode(); err != nil || got != IndexReset {
		t.Errorf("IndexMode() = %v, %v; want %v", got, err, IndexReset)
	}
	if got, err := d.IndexSync(); err != nil || !got {
		t.Errorf("IndexSync() = %v, %v; want true", got, err)
	}
	if got, err := d.FilterFactor(); err != nil || got != 2 {
		t.Errorf("FilterFactor() = %d, %v; want 2", got, err)
	}
	if want := uint8(0xEA); c.MDR0 != want {
		t.Errorf("MDR0 = %#02x; want %#02x", c.MDR0, want)
	}
}

func TestEnabledPolarity(t *testing.T) {
	c, d := chip()
	if err := d.SetBits(16); err != nil {
		t.Fatal(err)
	}
	if err := d.SetEnabled(false); err != nil {
		t.Fatal(err)
	}
	if on, err := d.Enabled(); err != nil || on {
		t.Errorf("Enabled() = %v, %v; want false", on, err)
	}
	if c.MDR1&0x04 == 0 {
		t.Errorf("MDR1 = %#02x; want the disable bit set", c.MDR1)
	}
	if bits, err := d.Bits(); err != nil || bits != 16 {
		t.Errorf("Bits() = %d, %v; want 16 preserved beside the enable bit", bits, err)
	}

	if err := d.SetEnabled(true); err != nil {
		t.Fatal(err)
	}
	if on, err := d.Enabled(); err != nil || !on {
		t.Errorf("Enabled() = %v, %v; want true", on, err)
	}
	if c.MDR1&0x04 != 0 {
		t.Errorf("MDR1 = %#02x; want the disable bit clear", c.MDR1)
	}
}

func TestSetterDomains(t *testing.T) {
	tc := []struct {
		name string
		call func(d *Device) error
	}{
		{"running mode", func(d *Device) error { return d.SetRunningMode(4) }},
		{"index mode", func(d *Device) error { return d.SetIndexMode(7) }},
		{"filter factor", func(d *Device) error { return d.SetFilterFactor(3) }},
		{"flags", func(d *Device) error { return d.SetFlags(0x01) }},
	}
	for _, tt := range tc {
		c, d := chip()
		if err := tt.call(d); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: %v; want ErrInvalidArgument", tt.name, err)
		}
		if c.Transfers != 0 {
			t.Errorf("%s: %d transfers; want 0", tt.name, c.Transfers)
		}
	}
}

func TestFlags(t *testing.T) {
	c, d := chip()
	if err := d.SetFlags(FlagCarry | FlagBorrow); err != nil {
		t.Fatal(err)
	}
	if c.MDR1&0xF0 != 0xC0 {
		t.Errorf("MDR1 = %#02x; want carry and borrow routed to FLAG", c.MDR1)
	}
	if f, err := d.Flags(); err != nil || f != FlagCarry|FlagBorrow {
		t.Errorf("Flags() = %#02x, %v; want %#02x", uint8(f), err, uint8(FlagCarry|FlagBorrow))
	}
	if err := d.SetFlags(0); err != nil {
		t.Fatal(err)
	}
	if c.MDR1&0xF0 != 0 {
		t.Errorf("MDR1 = %#02x; want all flags unrouted", c.MDR1)
	}
}

func TestModeStrings(t *testing.T) {
	rc := []struct {
		m    RunningMode
		want string
	}{
		{FreeRun, "free-run"},
		{SingleCycle, "single-cycle"},
		{RangeLimit, "range-limit"},
		{ModuloN, "modulo-n"},
		{RunningMode(9), "RunningMode(9)"},
	}
	for _, tt := range rc {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("RunningMode(%d).String() = %q; want %q", uint8(tt.m), got, tt.want)
		}
	}
	ic := []struct {
		m    IndexMode
		want string
	}{
		{IndexDisabled, "disabled"},
		{IndexLoad, "load"},
		{IndexReset, "reset"},
		{IndexLatch, "latch"},
		{IndexMode(9), "IndexMode(9)"},
	}
	for _, tt := range ic {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("IndexMode(%d).String() = %q; want %q", uint8(tt.m), got, tt.want)
		}
	}
}
