// Copyright 2022 The LS7366R Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ls7366r

import "strings"

// Status is the chip's status byte: live indicators and event latches.
// The latches hold until the register is cleared with Clear(STR).
type Status uint8

const (
	Negative     Status = 1 << iota // S: the count is negative
	Up                              // U/D: the last count direction was up
	PowerLoss                       // PLS: supply dropped since the last clear (latch)
	CountEnabled                    // CEN: counting is enabled
	Index                           // IDX: index pulse observed (latch)
	Compare                         // CMP: CNTR matched DTR (latch)
	Borrow                          // BW: counter underflow (latch)
	Carry                           // CY: counter overflow (latch)
)

var statusNames = [8]string{"S", "UD", "PLS", "CEN", "IDX", "CMP", "BW", "CY"}

// String renders the set bits by their datasheet mnemonics, highest
// first, e.g. "CY|CEN|UD".
func (s Status) String() string {
	if s == 0 {
		return "0"
	}
	var names []string
	for i := 7; i >= 0; i-- {
		if s&(1<<uint(i)) != 0 {
			names = append(names, statusNames[i])
		}
	}
	return strings.Join(names, "|")
}

// Status reads the status register. It does not clear the event latches;
// follow up with Clear(STR) for that.
func (d *Device) Status() (Status, error) {
	v, err := d.read(STR)
	if err != nil {
		return 0, err
	}
	return Status(v), nil
}
