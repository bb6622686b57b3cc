// Copyright 2022 The LS7366R Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ls7366r

import "fmt"

// Counts returns the current count, decoded as a two's-complement value
// at the configured counter width. Reading CNTR latches it into OTR as a
// side effect of the chip's transfer scheme.
func (d *Device) Counts() (int32, error) {
	bits, err := d.Bits()
	if err != nil {
		return 0, err
	}
	raw, err := d.readN(CNTR, bits/8)
	if err != nil {
		return 0, err
	}
	return signed(raw, uint(bits)), nil
}

// OutputCounts returns the snapshot held in OTR, decoded like Counts.
// A snapshot is taken by Load(OTR), by an index pulse in IndexLatch mode,
// and by every CNTR read.
func (d *Device) OutputCounts() (int32, error) {
	bits, err := d.Bits()
	if err != nil {
		return 0, err
	}
	raw, err := d.readN(OTR, bits/8)
	if err != nil {
		return 0, err
	}
	return signed(raw, uint(bits)), nil
}

// SetCounts sets the counter to v by staging the value in DTR and
// committing it with a CNTR load. v must be representable at the
// configured counter width.
func (d *Device) SetCounts(v int32) error {
	bits, err := d.Bits()
	if err != nil {
		return err
	}
	if bits < 32 {
		min := int32(-1) << (bits - 1)
		max := -min - 1
		if v < min || v > max {
			return fmt.Errorf("ls7366r: counts %d: want %d to %d at width %d: %w", v, min, max, bits, ErrInvalidArgument)
		}
	}
	if err := d.writeN(DTR, uint32(v), bits/8); err != nil {
		return err
	}
	return d.Load(CNTR)
}

// signed reinterprets raw as a two's-complement value of the given bit
// width: the sign bit is bit width-1, not bit 31 of the container.
func signed(raw uint32, width uint) int32 {
	if raw&(1<<(width-1)) != 0 {
		return int32(int64(raw) - int64(1)<<width)
	}
	return int32(raw)
}
