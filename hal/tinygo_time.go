//go:build tinygo && rp2040

package hal

import (
	"machine"
	"sync/atomic"
	"time"
)

type tinyGoTimer struct {
	hz    uint32
	ticks atomic.Uint64
	off   atomic.Bool
}

func newTinyGoTimer(hz uint32) *tinyGoTimer {
	t := &tinyGoTimer{hz: hz}
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(hz))
		defer ticker.Stop()
		for range ticker.C {
			if t.off.Load() {
				return
			}
			t.ticks.Add(1)
		}
	}()
	return t
}

func (t *tinyGoTimer) Ticks() uint64 { return t.ticks.Load() }
func (t *tinyGoTimer) Hz() uint32    { return t.hz }
func (t *tinyGoTimer) Disable()      { t.off.Store(true) }

type tinyGoRTC struct{}

func (tinyGoRTC) Now() time.Time { return time.Now() }

// tinyGoADC reads the battery divider on ADC0 and the light sensor on ADC1.
// The RP2040 has no band-gap channel.
type tinyGoADC struct {
	battery machine.ADC
	light   machine.ADC
}

func newTinyGoADC() *tinyGoADC {
	machine.InitADC()
	a := &tinyGoADC{
		battery: machine.ADC{Pin: machine.ADC0},
		light:   machine.ADC{Pin: machine.ADC1},
	}
	a.battery.Configure(machine.ADCConfig{})
	a.light.Configure(machine.ADCConfig{})
	return a
}

func (a *tinyGoADC) Read(ch ADCChannel) (uint16, error) {
	switch ch {
	case ADCBattery:
		return a.battery.Get() >> 6, nil
	case ADCLight:
		return a.light.Get() >> 6, nil
	default:
		return 0, ErrADCChannelUnavailable
	}
}
