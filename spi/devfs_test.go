// Copyright 2022 The LS7366R Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spi

import "testing"

func TestRequestCode(t *testing.T) {
	tc := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"mode", requestCode(write, magic, 1, 1), 0x40016B01},
		{"lsb first", requestCode(write, magic, 2, 1), 0x40016B02},
		{"bits per word", requestCode(write, magic, 3, 1), 0x40016B03},
		{"max speed hz", requestCode(write, magic, 4, 4), 0x40046B04},
		{"one message", msgRequestCode(1), 0x40206B00},
		{"two messages", msgRequestCode(2), 0x40406B00},
	}
	for _, tt := range tc {
		if tt.got != tt.want {
			t.Errorf("%s: request code %#08x; want %#08x", tt.name, tt.got, tt.want)
		}
	}
}

func TestMsgRequestCodeLayout(t *testing.T) {
	// One spidev transfer payload is 32 bytes; the message request for n
	// messages is a write request of n payloads at nr 0.
	if want, got := msgRequestCode(1), requestCode(write, magic, 0, 32); got != want {
		t.Errorf("requestCode(write, magic, 0, 32) = %#08x; want %#08x", got, want)
	}
}
