package app

import (
	"runtime"
	"strings"

	"zeitgeber/hal"
)

// Panic is the message for a fault that maps to no trap vector.
const Panic = "Trap: Panic"

// recoverTrap turns a Go runtime fault in the main loop into the matching
// trap, the way the hardware vectors would. Resets pass through.
func (s *system) recoverTrap() {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(hal.ResetSignal); ok {
		panic(r)
	}

	msg := Classify(r)
	s.logf("panic: %v", r)
	if stack := captureStack(); len(stack) > 0 && s.log != nil {
		for _, line := range strings.Split(string(stack), "\n") {
			if line == "" {
				continue
			}
			s.log.WriteLineString(line)
		}
	}
	s.fault.CriticalError(msg)
}

// Classify names the error-screen message for a recovered panic value.
func Classify(v any) string {
	err, ok := v.(runtime.Error)
	if !ok {
		return Panic
	}
	text := err.Error()
	switch {
	case strings.Contains(text, "divide by zero"):
		return hal.TrapMathError.Message()
	case strings.Contains(text, "nil pointer"),
		strings.Contains(text, "invalid memory address"),
		strings.Contains(text, "index out of range"),
		strings.Contains(text, "slice bounds out of range"):
		return hal.TrapAddressError.Message()
	default:
		return Panic
	}
}
