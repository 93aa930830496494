package hal

import "encoding/binary"

// PackRGB565 drops the low bits of each channel: rrrrrggggggbbbbb.
func PackRGB565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// UnpackRGB565 widens a pixel to 8 bits per channel. The high bits are
// replicated into the low ones so full scale stays 0xFF.
func UnpackRGB565(p uint16) (r, g, b uint8) {
	r5, g6, b5 := uint8(p>>11), uint8(p>>5)&0x3F, uint8(p)&0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// PixelAt reads the pixel at byte offset off. Framebuffers store pixels
// little-endian, two bytes each.
func PixelAt(buf []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(buf[off:])
}

func SetPixelAt(buf []byte, off int, p uint16) {
	binary.LittleEndian.PutUint16(buf[off:], p)
}

// FillRGB565 paints every pixel of buf with p.
func FillRGB565(buf []byte, p uint16) {
	for off := 0; off+1 < len(buf); off += 2 {
		SetPixelAt(buf, off, p)
	}
}
