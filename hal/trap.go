package hal

// Trap is a fatal hardware trap vector.
type Trap uint8

const (
	TrapOscillatorFail Trap = iota + 1
	TrapAddressError
	TrapStackError
	TrapMathError
)

func (t Trap) String() string {
	switch t {
	case TrapOscillatorFail:
		return "oscillator fail"
	case TrapAddressError:
		return "address error"
	case TrapStackError:
		return "stack error"
	case TrapMathError:
		return "math error"
	default:
		return "unknown"
	}
}

// Message is the operator-facing text shown on the error screen.
func (t Trap) Message() string {
	switch t {
	case TrapOscillatorFail:
		return "Trap: OSC Failed"
	case TrapAddressError:
		return "Trap: Address Error"
	case TrapStackError:
		return "Trap: Stack Error"
	case TrapMathError:
		return "Trap: Math Error"
	default:
		return "Trap: Unknown"
	}
}

// ParseTrap maps a short name ("osc", "address", "stack", "math") to a trap.
func ParseTrap(s string) (Trap, bool) {
	switch s {
	case "osc", "oscillator":
		return TrapOscillatorFail, true
	case "address", "addr":
		return TrapAddressError, true
	case "stack":
		return TrapStackError, true
	case "math":
		return TrapMathError, true
	default:
		return 0, false
	}
}
