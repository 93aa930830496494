package hal

import "testing"

func TestResetWordRoundTrip(t *testing.T) {
	for c := ResetNone; c <= ResetSoftware; c++ {
		if got := DecodeResetWord(EncodeResetWord(c)); got != c {
			t.Fatalf("DecodeResetWord(EncodeResetWord(%v)) = %v", c, got)
		}
	}
}

func TestDecodeResetWordGarbage(t *testing.T) {
	for _, w := range []uint32{0, 0xFFFFFFFF, EncodeResetWord(ResetTrap) ^ 0x00010000} {
		if got := DecodeResetWord(w); got != ResetPowerOn {
			t.Fatalf("DecodeResetWord(%#x) = %v, want %v", w, got, ResetPowerOn)
		}
	}
}

func TestResetCauseUnexpected(t *testing.T) {
	cases := map[ResetCause]bool{
		ResetNone:      false,
		ResetSoftware:  false,
		ResetPowerOn:   true,
		ResetWatchdog:  true,
		ResetTrap:      true,
		ResetBrownOut:  true,
		ResetCause(99): true,
	}
	for c, want := range cases {
		if got := c.Unexpected(); got != want {
			t.Fatalf("%v.Unexpected() = %v, want %v", c, got, want)
		}
	}
}

func TestResetCauseBanner(t *testing.T) {
	cases := []struct {
		c    ResetCause
		want string
	}{
		{ResetBrownOut, "RST: Brown-out"},
		{ResetConfigMismatch, "RST: Conf Mismatch"},
		{ResetIllegalOpcode, "RST: Invalid Opcode"},
		{ResetExternal, "RST: MCLR"},
		{ResetPowerOn, "RST: Power-on"},
		{ResetWatchdog, "RST: Watchdog Timeout"},
		{ResetTrap, "RST: Trap Error"},
		{ResetCause(0xab), "RST: Unknown - ab"},
	}
	for _, tc := range cases {
		if got := tc.c.Banner(); got != tc.want {
			t.Fatalf("%v.Banner() = %q, want %q", tc.c, got, tc.want)
		}
	}
}

func TestTrapMessageAndParse(t *testing.T) {
	cases := []struct {
		name string
		trap Trap
		msg  string
	}{
		{"osc", TrapOscillatorFail, "Trap: OSC Failed"},
		{"addr", TrapAddressError, "Trap: Address Error"},
		{"stack", TrapStackError, "Trap: Stack Error"},
		{"math", TrapMathError, "Trap: Math Error"},
	}
	for _, tc := range cases {
		got, ok := ParseTrap(tc.name)
		if !ok || got != tc.trap {
			t.Fatalf("ParseTrap(%q) = %v,%v, want %v,true", tc.name, got, ok, tc.trap)
		}
		if got.Message() != tc.msg {
			t.Fatalf("%v.Message() = %q, want %q", got, got.Message(), tc.msg)
		}
	}
	if _, ok := ParseTrap("bus"); ok {
		t.Fatalf("ParseTrap(bus) ok = true")
	}
	if got := Trap(0).Message(); got != "Trap: Unknown" {
		t.Fatalf("Trap(0).Message() = %q", got)
	}
}
