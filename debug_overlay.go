//go:build !headless

// debug_overlay.go - Monitor console panel for the ebiten window

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
(c) 2026 The emudbg Authors
https://github.com/mirage2032/emudbg
License: GPLv3 or later
*/

package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	glyphW = 7
	glyphH = 14
)

var overlayBackground = color.RGBA{0x00, 0x55, 0xAA, 0xFF} // deep blue

// MonitorOverlay renders the monitor scrollback and input line into a
// rectangle of the window and feeds it keyboard input.
type MonitorOverlay struct {
	monitor *MachineMonitor
	rect    image.Rectangle
}

func NewMonitorOverlay(monitor *MachineMonitor, rect image.Rectangle) *MonitorOverlay {
	return &MonitorOverlay{monitor: monitor, rect: rect}
}

// colorFromPacked converts a packed 0xRRGGBBAA to color.RGBA.
func colorFromPacked(c uint32) color.RGBA {
	return color.RGBA{R: byte(c >> 24), G: byte(c >> 16), B: byte(c >> 8), A: byte(c)}
}

func (o *MonitorOverlay) rows() int { return o.rect.Dy() / glyphH }

func (o *MonitorOverlay) cols() int { return o.rect.Dx() / glyphW }

// drawString renders s at a text cell of the overlay, clipped to its width.
func (o *MonitorOverlay) drawString(screen *ebiten.Image, s string, col, row int, fg uint32) {
	if n := o.cols() - col; len(s) > n {
		s = s[:max(n, 0)]
	}
	x := o.rect.Min.X + col*glyphW
	y := o.rect.Min.Y + (row+1)*glyphH - 3
	text.Draw(screen, s, basicfont.Face7x13, x, y, colorFromPacked(fg))
}

// Draw renders the monitor panel onto the screen.
func (o *MonitorOverlay) Draw(screen *ebiten.Image) {
	m := o.monitor
	r := o.rect
	ebitenutil.DrawRect(screen, float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()), overlayBackground)

	rows := o.rows()
	if !m.IsActive() {
		o.drawString(screen, "MONITOR - press ` to open", 0, 0, colorDim)
		for i, line := range m.Window(rows - 1) {
			o.drawString(screen, line.Text, 0, i+1, colorDim)
		}
		return
	}

	// Output scrollback
	for i, line := range m.Window(rows - 1) {
		o.drawString(screen, line.Text, 0, i, line.Color)
	}

	// Input line
	inputRow := rows - 1
	o.drawString(screen, "> "+m.Input(), 0, inputRow, colorWhite)
	o.drawString(screen, "_", 2+m.Cursor(), inputRow, colorWhite)
}

// HandleInput processes keyboard input when the monitor is active.
// Returns true if the monitor should deactivate.
func (o *MonitorOverlay) HandleInput() bool {
	m := o.monitor
	if !m.IsActive() {
		if inpututil.IsKeyJustPressed(ebiten.KeyBackquote) {
			m.Activate()
		}
		return false
	}

	// Escape = close
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		m.Deactivate()
		return true
	}

	// PgUp/PgDn for scrolling
	visible := o.rows() - 1
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		m.Scroll(10, visible)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		m.Scroll(-10, visible)
	}

	// Up/Down for command history
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		m.HistoryPrev()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		m.HistoryNext()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		return m.Submit()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		m.Backspace()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		m.CursorLeft()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		m.CursorRight()
	}

	// Printable character input. The backquote opens the monitor and is
	// never typed.
	for _, r := range ebiten.AppendInputChars(nil) {
		if r != '`' {
			m.InsertText(string(r))
		}
	}
	return false
}
