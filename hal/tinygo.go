//go:build tinygo && rp2040

package hal

import (
	"machine"
)

type tinyGoHAL struct {
	logger  *uartLogger
	led     *pinLED
	disp    *oledDisplay
	buttons *pinButtons
	timer   *tinyGoTimer
	wdt     *rp2Watchdog
	reset   rp2Reset
	adc     *tinyGoADC
	traps   *TrapQueue
}

// New returns the watch board HAL: RP2040, SSD1351 128x128 OLED on SPI0,
// four buttons on GP2-GP5 (active low), battery divider on ADC0.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	return &tinyGoHAL{
		logger:  &uartLogger{uart: uart},
		led:     &pinLED{pin: ledPin},
		disp:    newOLEDDisplay(),
		buttons: newPinButtons(machine.GP2, machine.GP3, machine.GP4, machine.GP5),
		timer:   newTinyGoTimer(1000),
		wdt:     &rp2Watchdog{},
		adc:     newTinyGoADC(),
		traps:   NewTrapQueue(1),
	}
}

func (h *tinyGoHAL) Logger() Logger                   { return h.logger }
func (h *tinyGoHAL) LED() LED                         { return h.led }
func (h *tinyGoHAL) Display() Display                 { return h.disp }
func (h *tinyGoHAL) Buttons() Buttons                 { return h.buttons }
func (h *tinyGoHAL) Timer() Timer                     { return h.timer }
func (h *tinyGoHAL) Watchdog() Watchdog               { return h.wdt }
func (h *tinyGoHAL) ResetController() ResetController { return h.reset }
func (h *tinyGoHAL) ADC() ADC                         { return h.adc }
func (h *tinyGoHAL) RTC() RTC                         { return tinyGoRTC{} }
func (h *tinyGoHAL) Traps() Traps                     { return h.traps }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

type pinButtons struct {
	pins [NumButtons]machine.Pin
}

func newPinButtons(pins ...machine.Pin) *pinButtons {
	b := &pinButtons{}
	for i := 0; i < NumButtons && i < len(pins); i++ {
		pins[i].Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		b.pins[i] = pins[i]
	}
	return b
}

func (b *pinButtons) Pressed(btn Button) bool {
	if btn >= NumButtons {
		return false
	}
	return !b.pins[btn].Get()
}
