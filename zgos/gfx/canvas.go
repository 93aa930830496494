// Package gfx is the drawing surface the kernel, the apps and the error screen
// share: a cleared frame, lines of text, and a push to the panel.
package gfx

import (
	"image/color"

	"zeitgeber/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Palette.
var (
	Black  = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	White  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Silver = color.RGBA{R: 0xC0, G: 0xC0, B: 0xC0, A: 0xFF}
	Gray   = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	Red    = color.RGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}
	Green  = color.RGBA{R: 0x00, G: 0xC0, B: 0x00, A: 0xFF}
)

// Surface is the display contract.
type Surface interface {
	ClearImage()
	// DrawString draws text with its top-left corner at (x, y) and returns
	// the x where the next string should start.
	DrawString(text string, x, y int16, c color.RGBA) int16
	UpdateDisplay() error
	DisplayOn() error
	DisplayOff() error
	IsOn() bool
}

// fontAscent moves tinyfont's baseline origin to a top-left origin.
const fontAscent = 8

// Canvas implements Surface on a hal.Display.
type Canvas struct {
	disp hal.Display
	fb   hal.Framebuffer
	font tinyfont.Fonter
	on   bool
}

// NewCanvas wraps a panel. The panel must already be initialised.
func NewCanvas(d hal.Display) *Canvas {
	c := &Canvas{disp: d, font: &proggy.TinySZ8pt7b}
	if d != nil {
		c.fb = d.Framebuffer()
	}
	return c
}

// Size returns the surface size in pixels.
func (c *Canvas) Size() (w, h int16) {
	return pixelTarget{fb: c.fb}.Size()
}

func (c *Canvas) ClearImage() {
	if c.fb == nil {
		return
	}
	c.fb.ClearRGB(0, 0, 0)
}

func (c *Canvas) DrawString(text string, x, y int16, col color.RGBA) int16 {
	if c.fb == nil || text == "" {
		return x
	}
	tinyfont.WriteLine(pixelTarget{fb: c.fb}, c.font, x, y+fontAscent, text, col)
	_, outbox := tinyfont.LineWidth(c.font, text)
	return x + int16(outbox)
}

// FillRect paints a solid rectangle, clipped to the surface.
func (c *Canvas) FillRect(x, y, w, h int16, col color.RGBA) {
	d := pixelTarget{fb: c.fb}
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			d.SetPixel(xx, yy, col)
		}
	}
}

func (c *Canvas) UpdateDisplay() error {
	if c.fb == nil {
		return hal.ErrDisplayNotResponding
	}
	return c.fb.Present()
}

func (c *Canvas) DisplayOn() error {
	if c.disp == nil {
		return hal.ErrDisplayNotResponding
	}
	if err := c.disp.SetPower(true); err != nil {
		return err
	}
	c.on = true
	return nil
}

func (c *Canvas) DisplayOff() error {
	if c.disp == nil {
		return hal.ErrDisplayNotResponding
	}
	if err := c.disp.SetPower(false); err != nil {
		return err
	}
	c.on = false
	return nil
}

func (c *Canvas) IsOn() bool { return c.on }

// pixelTarget adapts an RGB565 framebuffer to drivers.Displayer for tinyfont.
type pixelTarget struct {
	fb hal.Framebuffer
}

func (d pixelTarget) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d pixelTarget) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}

	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	hal.SetPixelAt(buf, off, RGB565(c))
}

func (d pixelTarget) Display() error { return nil }

// RGB565 packs a color the way the framebuffer stores it.
func RGB565(c color.RGBA) uint16 {
	return hal.PackRGB565(c.R, c.G, c.B)
}
