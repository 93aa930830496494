// Package power is the battery monitor the scheduler polls once per cycle.
package power

import (
	"fmt"

	"zeitgeber/hal"
)

const (
	// BandgapMillivolts is the internal reference the supply is measured against.
	BandgapMillivolts = 1200
	// NominalVDD is assumed when the reference channel is unavailable or
	// reads above MaxSupplyMillivolts.
	NominalVDD          = 3300
	MaxSupplyMillivolts = 5500
	// EmptyMillivolts and FullMillivolts bound the cell's usable range.
	EmptyMillivolts = 3300
	FullMillivolts  = 4200
	// LowLevel is the percentage at which the monitor warns once.
	LowLevel = 10

	adcFullScale   = 1024
	batteryDivider = 2
)

// Clock is the tick source the sample interval is measured on.
type Clock interface {
	Ticks() uint64
	Hz() uint32
}

// Reading is one battery sample.
type Reading struct {
	VDD     uint16 // supply, mV
	Battery uint16 // cell, mV
	Level   uint8  // 0..100 %
	Tick    uint64
	Valid   bool
}

func (r Reading) String() string {
	if !r.Valid {
		return "power: no reading"
	}
	return fmt.Sprintf("power: vdd=%dmV vbat=%dmV level=%d%%", r.VDD, r.Battery, r.Level)
}

// Monitor samples the ADC at most once per interval.
type Monitor struct {
	adc    hal.ADC
	clock  Clock
	logger hal.Logger

	interval uint64
	next     uint64
	started  bool
	last     Reading
	low      bool
	errs     int
}

// New returns a monitor sampling once a second.
func New(adc hal.ADC, clock Clock, logger hal.Logger) *Monitor {
	m := &Monitor{adc: adc, clock: clock, logger: logger}
	m.interval = uint64(clock.Hz())
	if m.interval == 0 {
		m.interval = 1
	}
	return m
}

// Poll takes a new sample if the interval has passed. It never blocks.
func (m *Monitor) Poll() {
	now := m.clock.Ticks()
	if m.started && now < m.next {
		return
	}
	m.started = true
	m.next = now + m.interval

	r, err := m.sample(now)
	if err != nil {
		m.errs++
		if m.errs == 1 && m.logger != nil {
			m.logger.WriteLineString("power: " + err.Error())
		}
		return
	}
	m.last = r

	if low := r.Level <= LowLevel; low != m.low {
		m.low = low
		if low && m.logger != nil {
			m.logger.WriteLineString(fmt.Sprintf("power: battery low, %d%%", r.Level))
		}
	}
}

// Last returns the most recent sample.
func (m *Monitor) Last() Reading { return m.last }

// Low reports whether the battery is at or below LowLevel.
func (m *Monitor) Low() bool { return m.low }

func (m *Monitor) sample(now uint64) (Reading, error) {
	if m.adc == nil {
		return Reading{}, hal.ErrADCChannelUnavailable
	}
	vdd := uint32(NominalVDD)
	if raw, err := m.adc.Read(hal.ADCBandgap); err == nil && raw != 0 {
		if v := SupplyMillivolts(raw); v <= MaxSupplyMillivolts {
			vdd = v
		}
	}
	raw, err := m.adc.Read(hal.ADCBattery)
	if err != nil {
		return Reading{}, fmt.Errorf("read battery: %w", err)
	}
	bat := min(BatteryMillivolts(raw, vdd), 0xFFFF)
	return Reading{
		VDD:     uint16(vdd),
		Battery: uint16(bat),
		Level:   Level(bat),
		Tick:    now,
		Valid:   true,
	}, nil
}

// SupplyMillivolts derives VDD from a conversion of the band-gap reference.
func SupplyMillivolts(raw uint16) uint32 {
	if raw == 0 {
		return 0
	}
	return BandgapMillivolts * adcFullScale / uint32(raw)
}

// BatteryMillivolts converts a conversion of the halved cell voltage.
func BatteryMillivolts(raw uint16, vdd uint32) uint32 {
	return uint32(raw) * vdd * batteryDivider / adcFullScale
}

// Level maps a cell voltage linearly onto 0..100 %.
func Level(mv uint32) uint8 {
	switch {
	case mv <= EmptyMillivolts:
		return 0
	case mv >= FullMillivolts:
		return 100
	}
	return uint8((mv - EmptyMillivolts) * 100 / (FullMillivolts - EmptyMillivolts))
}
