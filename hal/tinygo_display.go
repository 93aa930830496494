//go:build tinygo && rp2040

package hal

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ssd1351"
)

const (
	oledWidth  = 128
	oledHeight = 128
)

// oledDisplay keeps an RGB565 shadow buffer and pushes it to the SSD1351 one
// row at a time on Present.
type oledDisplay struct {
	dev   ssd1351.Device
	fb    *shadowFramebuffer
	power machine.Pin
	ready bool
}

func newOLEDDisplay() *oledDisplay {
	return &oledDisplay{
		fb:    newShadowFramebuffer(oledWidth, oledHeight),
		power: machine.GP16,
	}
}

func (d *oledDisplay) Init() error {
	d.power.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.power.High()

	machine.SPI0.Configure(machine.SPIConfig{
		SCK:       machine.GP18,
		SDO:       machine.GP19,
		SDI:       machine.GP20,
		Frequency: 16_000_000,
	})
	d.dev = ssd1351.New(machine.SPI0, machine.GP21, machine.GP22, machine.GP17, machine.NoPin, machine.NoPin)
	// The panel bus is write-only, so there is nothing to read back here.
	d.dev.Configure(ssd1351.Config{Width: oledWidth, Height: oledHeight})
	d.fb.dev = &d.dev
	d.ready = true
	return nil
}

func (d *oledDisplay) Framebuffer() Framebuffer { return d.fb }

func (d *oledDisplay) SetPower(on bool) error {
	if !d.ready {
		return ErrDisplayNotResponding
	}
	if on {
		d.power.High()
		d.dev.Command(ssd1351.SLEEP_MODE_DISPLAY_ON)
	} else {
		d.dev.Command(ssd1351.SLEEP_MODE_DISPLAY_OFF)
		d.power.Low()
	}
	return nil
}

type shadowFramebuffer struct {
	w, h int
	buf  []byte
	row  []color.RGBA
	dev  *ssd1351.Device
}

func newShadowFramebuffer(w, h int) *shadowFramebuffer {
	return &shadowFramebuffer{
		w:   w,
		h:   h,
		buf: make([]byte, w*h*2),
		row: make([]color.RGBA, w),
	}
}

func (f *shadowFramebuffer) Width() int          { return f.w }
func (f *shadowFramebuffer) Height() int         { return f.h }
func (f *shadowFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *shadowFramebuffer) StrideBytes() int    { return f.w * 2 }
func (f *shadowFramebuffer) Buffer() []byte      { return f.buf }

func (f *shadowFramebuffer) ClearRGB(r, g, b uint8) {
	FillRGB565(f.buf, PackRGB565(r, g, b))
}

func (f *shadowFramebuffer) Present() error {
	if f.dev == nil {
		return ErrDisplayNotResponding
	}
	stride := f.w * 2
	for y := 0; y < f.h; y++ {
		line := f.buf[y*stride : (y+1)*stride]
		for x := range f.row {
			r, g, b := UnpackRGB565(PixelAt(line, 2*x))
			f.row[x] = color.RGBA{R: r, G: g, B: b, A: 0xFF}
		}
		if err := f.dev.FillRectangleWithBuffer(0, int16(y), int16(f.w), 1, f.row); err != nil {
			return err
		}
	}
	return nil
}
