//go:build !tinygo

package hal

import "sync"

type hostFramebuffer struct {
	width  int
	height int
	stride int
	buf    []byte

	mu      sync.Mutex
	front   []byte
	frames  uint64
	powered bool
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
		front:  make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	FillRGB565(f.buf, PackRGB565(r, g, b))
}

// Present latches the back buffer into the panel's RAM.
func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.front, f.buf)
	f.frames++
	return nil
}

// snapshotRGB565 copies what the panel currently shows. A powered-off panel is dark.
func (f *hostFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.powered {
		clear(dst)
		return
	}
	copy(dst, f.front)
}

func (f *hostFramebuffer) presented() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

type hostDisplay struct {
	fb    *hostFramebuffer
	fault bool
}

func (d *hostDisplay) Init() error {
	if d.fault {
		return ErrDisplayNotResponding
	}
	return d.SetPower(true)
}

func (d *hostDisplay) Framebuffer() Framebuffer { return d.fb }

func (d *hostDisplay) SetPower(on bool) error {
	d.fb.mu.Lock()
	d.fb.powered = on
	d.fb.mu.Unlock()
	return nil
}

func (d *hostDisplay) reset() {
	d.fb.ClearRGB(0, 0, 0)
	d.fb.mu.Lock()
	clear(d.fb.front)
	d.fb.powered = false
	d.fb.mu.Unlock()
}
