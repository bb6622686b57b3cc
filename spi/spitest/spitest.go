// Copyright 2022 The LS7366R Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spitest implements connections for testing SPI device drivers
// without hardware.
package spitest // import "github.com/quadrature-io/ls7366r/spi/spitest"

import (
	"bytes"
	"fmt"
	"time"

	"github.com/quadrature-io/ls7366r/spi/driver"
)

// IO is one full-duplex transaction: the bytes the device under test is
// expected to clock out and the bytes the bus answers with. A nil Rx marks
// a write-only transaction.
type IO struct {
	Tx []byte
	Rx []byte
}

// Config is a recorded Configure call.
type Config struct {
	K, V int
}

// Playback is a driver.Conn that replays a scripted transaction sequence.
// Each Transfer must match the next scripted Tx exactly and is answered
// with the scripted Rx. Transfers beyond the script, mismatched frames and
// response length mismatches fail, standing in for transport faults.
//
// The zero value is a conn that accepts Configure calls and fails every
// transfer.
type Playback struct {
	Ops     []IO     // remaining script, consumed from the front
	Count   int      // number of Transfer calls observed
	Configs []Config // Configure calls observed
}

func (p *Playback) Configure(k, v int) error {
	p.Configs = append(p.Configs, Config{k, v})
	return nil
}

func (p *Playback) Transfer(tx, rx []byte, delay time.Duration) error {
	p.Count++
	if len(p.Ops) == 0 {
		return fmt.Errorf("spitest: unexpected transfer %#x", tx)
	}
	op := p.Ops[0]
	p.Ops = p.Ops[1:]
	if !bytes.Equal(tx, op.Tx) {
		return fmt.Errorf("spitest: transfer %#x, want %#x", tx, op.Tx)
	}
	if rx != nil {
		if len(op.Rx) != len(rx) {
			return fmt.Errorf("spitest: reading %d bytes, script has %d", len(rx), len(op.Rx))
		}
		copy(rx, op.Rx)
	}
	return nil
}

// Close fails if scripted transactions remain unconsumed.
func (p *Playback) Close() error {
	if len(p.Ops) != 0 {
		return fmt.Errorf("spitest: %d transfers remaining in the script", len(p.Ops))
	}
	return nil
}

// Record is a driver.Conn that records every transaction passing through
// it. If Conn is non-nil, calls are forwarded to it and the bytes it
// returns are recorded; a nil Conn makes Record a sink for write-only
// traffic.
type Record struct {
	Conn driver.Conn
	Ops  []IO
}

func (r *Record) Configure(k, v int) error {
	if r.Conn == nil {
		return nil
	}
	return r.Conn.Configure(k, v)
}

func (r *Record) Transfer(tx, rx []byte, delay time.Duration) error {
	if r.Conn != nil {
		if err := r.Conn.Transfer(tx, rx, delay); err != nil {
			return err
		}
	}
	op := IO{Tx: append([]byte(nil), tx...)}
	if rx != nil {
		op.Rx = append([]byte(nil), rx...)
	}
	r.Ops = append(r.Ops, op)
	return nil
}

func (r *Record) Close() error {
	if r.Conn == nil {
		return nil
	}
	return r.Conn.Close()
}
