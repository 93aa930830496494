package hal

import (
	"encoding/binary"
	"strconv"

	"github.com/sigurn/crc16"
)

// ResetCause records why the device last restarted.
type ResetCause uint16

const (
	ResetNone ResetCause = iota
	ResetPowerOn
	ResetBrownOut
	ResetWatchdog
	ResetConfigMismatch
	ResetIllegalOpcode
	ResetExternal
	ResetTrap
	ResetSoftware
)

func (c ResetCause) String() string {
	switch c {
	case ResetNone:
		return "none"
	case ResetPowerOn:
		return "power-on"
	case ResetBrownOut:
		return "brown-out"
	case ResetWatchdog:
		return "watchdog"
	case ResetConfigMismatch:
		return "config mismatch"
	case ResetIllegalOpcode:
		return "illegal opcode"
	case ResetExternal:
		return "external"
	case ResetTrap:
		return "trap"
	case ResetSoftware:
		return "software"
	default:
		return "unknown"
	}
}

// Unexpected reports whether the cause is worth showing at boot. Software
// resets and cleared registers are the normal case.
func (c ResetCause) Unexpected() bool {
	switch c {
	case ResetNone, ResetSoftware:
		return false
	default:
		return true
	}
}

// Banner is the boot-screen line for the cause.
func (c ResetCause) Banner() string {
	switch c {
	case ResetBrownOut:
		return "RST: Brown-out"
	case ResetConfigMismatch:
		return "RST: Conf Mismatch"
	case ResetIllegalOpcode:
		return "RST: Invalid Opcode"
	case ResetExternal:
		return "RST: MCLR"
	case ResetPowerOn:
		return "RST: Power-on"
	case ResetWatchdog:
		return "RST: Watchdog Timeout"
	case ResetTrap:
		return "RST: Trap Error"
	case ResetSoftware:
		return "RST: Software"
	default:
		return "RST: Unknown - " + strconv.FormatUint(uint64(c), 16)
	}
}

var resetTable = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

// EncodeResetWord packs a cause and its checksum into one 32-bit register value.
func EncodeResetWord(c ResetCause) uint32 {
	var raw [2]byte
	binary.LittleEndian.PutUint16(raw[:], uint16(c))
	sum := crc16.Checksum(raw[:], resetTable)
	return uint32(sum)<<16 | uint32(c)
}

// DecodeResetWord unpacks a register value. A checksum mismatch means the
// register holds garbage from a cold start, reported as a power-on.
func DecodeResetWord(w uint32) ResetCause {
	c := ResetCause(w & 0xFFFF)
	if EncodeResetWord(c) != w {
		return ResetPowerOn
	}
	return c
}

// ResetSignal is the value a hosted reset unwinds the main loop with.
type ResetSignal struct {
	Cause ResetCause
}

func (s ResetSignal) String() string { return "reset: " + s.Cause.String() }
