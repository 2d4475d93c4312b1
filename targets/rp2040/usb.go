//go:build rp2040 || rp2350

package main

import "machine"

// InitUSB configures the RP2040's USB CDC-ACM endpoint. TinyGo exposes it
// through machine.Serial; no baud rate applies since USB CDC ignores it.
func InitUSB() error {
	return machine.Serial.Configure(machine.UARTConfig{})
}

// USBAvailable returns the number of bytes buffered and ready to read.
func USBAvailable() int {
	return machine.Serial.Buffered()
}

// USBRead reads a single byte, blocking until one is available.
func USBRead() (byte, error) {
	return machine.Serial.ReadByte()
}

// USBWriteBytes writes data to the host, returning the number of bytes
// actually written.
func USBWriteBytes(data []byte) (int, error) {
	return machine.Serial.Write(data)
}
