package main

import (
	"bytes"
	"testing"
)

func TestDecodePixel(t *testing.T) {
	tests := []struct {
		in      byte
		r, g, b byte
	}{
		{0x00, 0x00, 0x00, 0x00},
		{0xFF, 0xE0, 0xE0, 0xC0},
		{0xE0, 0xE0, 0x00, 0x00},
		{0x1C, 0x00, 0xE0, 0x00},
		{0x03, 0x00, 0x00, 0xC0},
		{0x49, 0x40, 0x40, 0x40},
	}
	for _, tt := range tests {
		r, g, b := DecodePixel(tt.in)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("DecodePixel(%02X) = %02X %02X %02X, want %02X %02X %02X",
				tt.in, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestDisplayRedrawLayout(t *testing.T) {
	d := NewDisplayDevice(3, 2)
	_ = d.Write8(4, 0xE0) // (1, 1)

	dst := make([]byte, d.RGBASize())
	d.Redraw(dst)

	p := (1*3 + 1) * 4
	if !bytes.Equal(dst[p:p+4], []byte{0xE0, 0x00, 0x00, 0xFF}) {
		t.Fatalf("pixel (1,1) = % X", dst[p:p+4])
	}
	if r, g, b := d.Pixel(1, 1); r != 0xE0 || g != 0 || b != 0 {
		t.Fatalf("Pixel(1,1) = %02X %02X %02X", r, g, b)
	}
	if r, g, b := d.Pixel(3, 0); r|g|b != 0 {
		t.Fatalf("Pixel outside the display should be black")
	}
}

func TestDisplayRedrawIsIdempotent(t *testing.T) {
	d := NewDisplayDevice(4, 4)
	for i := range 16 {
		_ = d.Write8(uint16(i), byte(i*17))
	}
	first := make([]byte, d.RGBASize())
	second := make([]byte, d.RGBASize())
	d.Redraw(first)
	d.Redraw(second)
	if !bytes.Equal(first, second) {
		t.Fatalf("second redraw differs")
	}
}

func TestDisplayRedrawShortDestination(t *testing.T) {
	d := NewDisplayDevice(2, 2)
	_ = d.Write8(3, 0xFF)
	dst := make([]byte, 8)
	d.Redraw(dst) // must not panic
	if dst[3] != 0xFF {
		t.Fatalf("first pixel alpha = %02X", dst[3])
	}
}

func TestDisplayFrameRefreshTracksGeneration(t *testing.T) {
	emu := newTestEmulator(t)
	frame := NewDisplayFrame(emu.Display())
	if !frame.Refresh(emu) {
		t.Fatalf("first Refresh should repaint")
	}
	if frame.Refresh(emu) {
		t.Fatalf("Refresh without changes should not repaint")
	}
	base := uint16(emu.Config().LowMemSize)
	if err := emu.WriteMem(base, 0x1C); err != nil {
		t.Fatalf("WriteMem: %v", err)
	}
	if !frame.Refresh(emu) {
		t.Fatalf("Refresh after a display write should repaint")
	}
	if frame.Pixels[1] != 0xE0 {
		t.Fatalf("green channel = %02X, want E0", frame.Pixels[1])
	}
}
