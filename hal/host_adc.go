//go:build !tinygo

package hal

// hostADC simulates the battery divider and band-gap inputs: a cell that
// drains from full over roughly an hour of ticks, and a 3.3V rail.
type hostADC struct {
	timer *hostTimer
}

func newHostADC(timer *hostTimer) *hostADC {
	return &hostADC{timer: timer}
}

const (
	hostVDDMillivolts  = 3300
	hostCellFullMv     = 4200
	hostCellEmptyMv    = 3300
	hostDrainSeconds   = 3600
	hostBandgapMv      = 1200
	hostADCFullScale   = 1024
	hostBatteryDivider = 2
)

func (a *hostADC) Read(ch ADCChannel) (uint16, error) {
	switch ch {
	case ADCBattery:
		secs := a.timer.Ticks() / uint64(a.timer.Hz())
		drop := uint64(hostCellFullMv-hostCellEmptyMv) * (secs % hostDrainSeconds) / hostDrainSeconds
		mv := uint64(hostCellFullMv) - drop
		return uint16(mv * hostADCFullScale / hostBatteryDivider / hostVDDMillivolts), nil
	case ADCBandgap:
		return uint16(hostBandgapMv * hostADCFullScale / hostVDDMillivolts), nil
	case ADCLight:
		return 512, nil
	default:
		return 0, ErrADCChannelUnavailable
	}
}
