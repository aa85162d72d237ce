// display_device.go - Memory-mapped 3-3-2 RGB framebuffer device

package main

// DisplayDevice is a memory device whose bytes are pixels. Each byte packs
// red in bits 7-5, green in bits 4-2 and blue in bits 1-0. Writes only
// store the byte; drawing happens when a front-end calls Redraw.
type DisplayDevice struct {
	buffer []byte
	width  int
	height int
}

// NewDisplayDevice allocates a width*height byte framebuffer. The size is
// fixed for the lifetime of the device.
func NewDisplayDevice(width, height int) *DisplayDevice {
	return &DisplayDevice{
		buffer: make([]byte, width*height),
		width:  width,
		height: height,
	}
}

func (d *DisplayDevice) Name() string { return "DISPLAY" }
func (d *DisplayDevice) Size() int    { return len(d.buffer) }
func (d *DisplayDevice) Width() int   { return d.width }
func (d *DisplayDevice) Height() int  { return d.height }

func (d *DisplayDevice) Read8(offset uint16) (byte, error) {
	if int(offset) >= len(d.buffer) {
		return 0, ErrOutOfRange
	}
	return d.buffer[offset], nil
}

func (d *DisplayDevice) Write8(offset uint16, value byte) error {
	if int(offset) >= len(d.buffer) {
		return ErrOutOfRange
	}
	d.buffer[offset] = value
	return nil
}

func (d *DisplayDevice) Write8Force(offset uint16, value byte) error {
	return d.Write8(offset, value)
}

func (d *DisplayDevice) reset() {
	clear(d.buffer)
}

// DecodePixel expands a packed 3-3-2 byte into 8-bit channels.
func DecodePixel(b byte) (r, g, bl byte) {
	r = b & 0b11100000
	g = (b & 0b00011100) << 3
	bl = (b & 0b00000011) << 6
	return r, g, bl
}

// Pixel returns the decoded colour at (x, y).
func (d *DisplayDevice) Pixel(x, y int) (r, g, b byte) {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return 0, 0, 0
	}
	return DecodePixel(d.buffer[y*d.width+x])
}

// Redraw paints the whole framebuffer into dst as RGBA, 4 bytes per pixel,
// pixel i landing at (i % width, i / width). dst must hold at least
// width*height*4 bytes. Calling it again without new writes produces the
// same image.
func (d *DisplayDevice) Redraw(dst []byte) {
	for i, v := range d.buffer {
		x := i % d.width
		y := i / d.width
		p := (y*d.width + x) * 4
		if p+3 >= len(dst) {
			return
		}
		dst[p], dst[p+1], dst[p+2] = DecodePixel(v)
		dst[p+3] = 0xFF
	}
}

// RGBASize is the byte length Redraw expects for its destination.
func (d *DisplayDevice) RGBASize() int {
	return d.width * d.height * 4
}
