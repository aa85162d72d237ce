// video_interface.go - Front-end interface and shared display plumbing

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
	"context"
	"fmt"
)

// VideoError provides detailed error context for front-end operations
type VideoError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("video %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("video %s failed: %s", e.Operation, e.Details)
}

func (e *VideoError) Unwrap() error { return e.Err }

// DisplayConfig contains hardware-independent configuration
type DisplayConfig struct {
	Width       int
	Height      int
	Scale       int // Integer scaling factor for the emulated display
	RefreshRate int // Target refresh rate in Hz
}

const (
	MIN_DISPLAY_SCALE     = 1
	MAX_DISPLAY_SCALE     = 4
	DEFAULT_DISPLAY_SCALE = 2
	DEFAULT_REFRESH_RATE  = 60
)

func ClampScale(scale int) int {
	return max(MIN_DISPLAY_SCALE, min(scale, MAX_DISPLAY_SCALE))
}

// Frontend is a user interface over one Emulator. Run owns the calling
// goroutine until the user quits or ctx is cancelled.
type Frontend interface {
	Run(ctx context.Context) error
}

// Front-end kinds
const (
	FRONTEND_WINDOW  = iota // Ebiten window, or a frame pump in headless builds
	FRONTEND_TUI            // tcell full-screen terminal UI
	FRONTEND_MONITOR        // line-mode monitor on the terminal
)

// FrontendDeps is everything a front-end drives.
type FrontendDeps struct {
	Emu     *Emulator
	Monitor *MachineMonitor
	Loop    *EventLoop
	Display DisplayConfig
}

// NewFrontend creates a front-end of the given kind.
func NewFrontend(kind int, deps FrontendDeps) (Frontend, error) {
	if deps.Emu == nil || deps.Monitor == nil || deps.Loop == nil {
		return nil, &VideoError{
			Operation: "front-end creation",
			Details:   "emulator, monitor and event loop are required",
		}
	}
	switch kind {
	case FRONTEND_WINDOW:
		return NewEbitenOutput(deps)
	case FRONTEND_TUI:
		t, err := NewTUIFrontend(deps, nil)
		if err != nil {
			return nil, err
		}
		return t, nil
	case FRONTEND_MONITOR:
		return NewTerminalHost(deps, nil, nil), nil
	}
	return nil, &VideoError{
		Operation: "front-end creation",
		Details:   fmt.Sprintf("unknown front-end type: %d", kind),
	}
}

// DisplayFrame caches the RGBA rendering of the display device and only
// repaints it when the emulator generation moves.
type DisplayFrame struct {
	Pixels []byte
	Width  int
	Height int
	gen    uint64
	valid  bool
}

func NewDisplayFrame(d *DisplayDevice) *DisplayFrame {
	return &DisplayFrame{
		Pixels: make([]byte, d.RGBASize()),
		Width:  d.Width(),
		Height: d.Height(),
	}
}

// Refresh repaints from emu if anything changed and reports whether it did.
func (f *DisplayFrame) Refresh(emu *Emulator) bool {
	gen := emu.Generation()
	if f.valid && gen == f.gen {
		return false
	}
	emu.Frame(f.Pixels)
	f.gen = gen
	f.valid = true
	return true
}
