// Copyright 2022 The LS7366R Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spi

import (
	"fmt"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/quadrature-io/ls7366r/spi/driver"
)

// ioctl request code layout, asm-generic convention.
const (
	magic = 107

	nrbits   = 8
	typebits = 8
	sizebits = 14
	dirbits  = 2

	nrshift   = 0
	typeshift = nrshift + nrbits
	sizeshift = typeshift + typebits
	dirshift  = sizeshift + sizebits

	none  = 0
	write = 1
	read  = 2
)

type payload struct {
	tx       uint64
	rx       uint64
	length   uint32
	speed    uint32
	delay    uint16
	bits     uint8
	csChange uint8
	txNBits  uint8
	rxNBits  uint8
	pad      uint16
}

// DevFS is an SPI driver that works against the devfs.
type DevFS struct{}

// Open opens /dev/spidev<bus>.<chip> and returns a connection.
func (d *DevFS) Open(bus, chip int) (driver.Conn, error) {
	n := fmt.Sprintf("/dev/spidev%d.%d", bus, chip)
	f, err := os.OpenFile(n, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &devfsConn{f: f}, nil
}

type devfsConn struct {
	f     *os.File
	mode  uint8
	speed uint32
	bits  uint8
}

func (c *devfsConn) Configure(k, v int) error {
	switch k {
	case driver.Mode:
		m := uint8(v)
		if err := c.ioctl(requestCode(write, magic, 1, 1), uintptr(unsafe.Pointer(&m))); err != nil {
			return fmt.Errorf("error setting mode to %v: %v", v, err)
		}
		c.mode = m
	case driver.Bits:
		b := uint8(v)
		if err := c.ioctl(requestCode(write, magic, 3, 1), uintptr(unsafe.Pointer(&b))); err != nil {
			return fmt.Errorf("error setting bits per word to %v: %v", v, err)
		}
		c.bits = b
	case driver.Speed:
		s := uint32(v)
		if err := c.ioctl(requestCode(write, magic, 4, 4), uintptr(unsafe.Pointer(&s))); err != nil {
			return fmt.Errorf("error setting speed to %v: %v", v, err)
		}
		c.speed = s
	case driver.Order:
		o := uint8(v)
		if err := c.ioctl(requestCode(write, magic, 2, 1), uintptr(unsafe.Pointer(&o))); err != nil {
			return fmt.Errorf("error setting bit order to %v: %v", v, err)
		}
	default:
		return fmt.Errorf("unknown key %v", k)
	}
	return nil
}

func (c *devfsConn) Transfer(tx, rx []byte, delay time.Duration) error {
	p := payload{
		speed: c.speed,
		delay: uint16(delay.Nanoseconds() / 1000),
		bits:  c.bits,
	}
	if tx != nil {
		p.tx = uint64(uintptr(unsafe.Pointer(&tx[0])))
		p.length = uint32(len(tx))
	}
	if rx != nil {
		p.rx = uint64(uintptr(unsafe.Pointer(&rx[0])))
		p.length = uint32(len(rx))
	}
	if tx != nil && rx != nil && len(tx) != len(rx) {
		return fmt.Errorf("tx (%v bytes) and rx (%v bytes) must be equal in length", len(tx), len(rx))
	}
	if p.length == 0 {
		return fmt.Errorf("no bytes to transfer")
	}
	return c.ioctl(msgRequestCode(1), uintptr(unsafe.Pointer(&p)))
}

func (c *devfsConn) Close() error {
	return c.f.Close()
}

// requestCode returns the device specific request code for the specified direction,
// type, number and size to be used in the ioctl call.
func requestCode(dir, typ, nr, size uintptr) uintptr {
	return (dir << dirshift) | (typ << typeshift) | (nr << nrshift) | (size << sizeshift)
}

// msgRequestCode returns the device specific value for the SPI
// message payload to be used in the ioctl call.
// n represents the number of messages.
func msgRequestCode(n uint32) uintptr {
	return uintptr(0x40006B00 + (n * 0x200000))
}

// ioctl makes an IOCTL on the open device file descriptor.
func (c *devfsConn) ioctl(a1, a2 uintptr) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, c.f.Fd(), a1, a2); errno != 0 {
		return errno
	}
	return nil
}
