//go:build !tinygo && cgo

package hal

import (
	"context"
	"image"

	"zeitgeber/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// windowScale is the pixel zoom for the tiny OLED.
const windowScale = 4

// RunWindow starts a desktop window that shows the OLED and maps keys onto
// the buttons. It blocks until the window closes or the firmware stops.
func RunWindow(newApp func(HAL) func() error, board HostConfig) error {
	h, err := newHost(board)
	if err != nil {
		return err
	}
	defer h.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := &hostGame{h: h, done: make(chan error, 1)}
	go func() { g.done <- runMachine(ctx, h, newApp) }()

	ebiten.SetWindowTitle("Zeitgeber (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.disp.fb.width*windowScale, h.disp.fb.height*windowScale)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}

type hostGame struct {
	h       *hostHAL
	done    chan error
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
}

var windowButtons = [NumButtons][2]ebiten.Key{
	{ebiten.Key1, ebiten.KeyZ},
	{ebiten.Key2, ebiten.KeyX},
	{ebiten.Key3, ebiten.KeyC},
	{ebiten.Key4, ebiten.KeyV},
}

var windowTraps = map[ebiten.Key]Trap{
	ebiten.KeyF1: TrapOscillatorFail,
	ebiten.KeyF2: TrapAddressError,
	ebiten.KeyF3: TrapStackError,
	ebiten.KeyF4: TrapMathError,
}

func (g *hostGame) Update() error {
	select {
	case err := <-g.done:
		if err != nil {
			return err
		}
		return ebiten.Termination
	default:
	}

	var m ButtonMask
	for i, keys := range windowButtons {
		if ebiten.IsKeyPressed(keys[0]) || ebiten.IsKeyPressed(keys[1]) {
			m |= 1 << i
		}
	}
	g.h.buttons.Set(m)

	for key, trap := range windowTraps {
		if inpututil.IsKeyJustPressed(key) {
			g.h.traps.Inject(trap)
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.disp.fb
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := UnpackRGB565(PixelAt(src, i))
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.disp.fb.width, g.h.disp.fb.height
}
