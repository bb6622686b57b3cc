// Copyright 2022 The LS7366R Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ls7366r

import "testing"

func TestStatusString(t *testing.T) {
	tc := []struct {
		s    Status
		want string
	}{
		{0, "0"},
		{Negative, "S"},
		{Carry | Borrow, "CY|BW"},
		{Up | Negative, "UD|S"},
		{CountEnabled | PowerLoss, "CEN|PLS"},
		{Carry | Borrow | Compare | Index | CountEnabled | PowerLoss | Up | Negative, "CY|BW|CMP|IDX|CEN|PLS|UD|S"},
	}
	for _, tt := range tc {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%#02x).String() = %q; want %q", uint8(tt.s), got, tt.want)
		}
	}
}

func TestStatus(t *testing.T) {
	c, d := chip()

	st, err := d.Status()
	if err != nil {
		t.Fatal(err)
	}
	if st&PowerLoss == 0 {
		t.Errorf("Status() = %v; want the power-loss latch set after power-up", st)
	}
	if st&CountEnabled == 0 {
		t.Errorf("Status() = %v; want counting enabled", st)
	}

	if err := d.Clear(STR); err != nil {
		t.Fatal(err)
	}
	if st, _ = d.Status(); st&PowerLoss != 0 {
		t.Errorf("Status() = %v; want the power-loss latch cleared", st)
	}

	c.Add(-1)
	st, err = d.Status()
	if err != nil {
		t.Fatal(err)
	}
	if st&Borrow == 0 || st&Negative == 0 || st&Up != 0 {
		t.Errorf("Status() = %v after counting down past zero; want BW and S set, UD clear", st)
	}

	// Clearing drops the latches but not the live indicators.
	if err := d.Clear(STR); err != nil {
		t.Fatal(err)
	}
	st, err = d.Status()
	if err != nil {
		t.Fatal(err)
	}
	if st&Borrow != 0 {
		t.Errorf("Status() = %v; want the borrow latch cleared", st)
	}
	if st&Negative == 0 {
		t.Errorf("Status() = %v; want the sign indicator still live", st)
	}

	c.Add(2)
	if st, _ = d.Status(); st&Up == 0 {
		t.Errorf("Status() = %v; want the direction indicator up", st)
	}
}
