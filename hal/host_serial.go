//go:build !tinygo

package hal

import (
	"io"

	"go.bug.st/serial"
)

const hostSerialBaud = 115200

// openSerialMirror opens a UART (USB adapter) that receives a copy of the log,
// 115200 8N1 like the device's debug port.
func openSerialMirror(name string) (io.WriteCloser, error) {
	return serial.Open(name, &serial.Mode{
		BaudRate: hostSerialBaud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
}
