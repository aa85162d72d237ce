//go:build !headless

// video_backend_ebiten.go - Ebiten window front-end

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
	"image"
	"image/color"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

const (
	panelPad       = 8
	sidePanelCols  = 46
	monitorRows    = 14
	statusBarH     = 44
	pasteLimit     = 4096
	panelTitleGap  = 2
	memoryPanelGap = panelPad
)

var (
	panelBackground = color.RGBA{0x10, 0x10, 0x20, 0xFF}
	panelTitle      = color.RGBA{0x64, 0xC8, 0xFF, 0xFF}
)

// EbitenOutput is the windowed debugger: the emulated display, the
// listing, register and memory panels, the monitor console and a status
// bar. Update pumps the event loop, so run-mode advances once per frame.
type EbitenOutput struct {
	emu     *Emulator
	mon     *MachineMonitor
	loop    *EventLoop
	editor  *MemoryEditor
	overlay *MonitorOverlay
	frame   *DisplayFrame
	config  DisplayConfig

	display *ebiten.Image
	width   int
	height  int

	displayRect image.Rectangle
	listingRect image.Rectangle
	regsRect    image.Rectangle
	memoryRect  image.Rectangle

	ctx           context.Context
	fullscreen    bool
	showStatusBar bool

	clipboardOnce sync.Once
	clipboardOK   bool
}

func NewEbitenOutput(deps FrontendDeps) (Frontend, error) {
	emu := deps.Emu
	cfg := deps.Display
	cfg.Scale = ClampScale(cfg.Scale)
	if cfg.RefreshRate <= 0 {
		cfg.RefreshRate = DEFAULT_REFRESH_RATE
	}
	d := emu.Display()
	cfg.Width, cfg.Height = d.Width(), d.Height()

	eo := &EbitenOutput{
		emu:           emu,
		mon:           deps.Monitor,
		loop:          deps.Loop,
		editor:        deps.Monitor.Editor(),
		frame:         NewDisplayFrame(d),
		config:        cfg,
		showStatusBar: true,
	}
	eo.layoutPanels()
	return eo, nil
}

// layoutPanels places the display top left with the memory editor below
// it, listing and registers on the right, and the monitor across the
// bottom above the status bar.
func (eo *EbitenOutput) layoutPanels() {
	dw := eo.config.Width * eo.config.Scale
	dh := eo.config.Height * eo.config.Scale
	sideW := sidePanelCols * glyphW
	memH := (DEFAULT_EDITOR_ROWS + 1) * glyphH
	listH := (DEFAULT_LISTING_ROWS + 1) * glyphH

	eo.displayRect = image.Rect(panelPad, panelPad, panelPad+dw, panelPad+dh)
	sideX := eo.displayRect.Max.X + panelPad
	eo.listingRect = image.Rect(sideX, panelPad, sideX+sideW, panelPad+listH)
	eo.regsRect = image.Rect(sideX, eo.listingRect.Max.Y+panelPad, sideX+sideW, eo.displayRect.Max.Y+memoryPanelGap+memH)
	eo.memoryRect = image.Rect(panelPad, eo.displayRect.Max.Y+memoryPanelGap, eo.displayRect.Max.X, eo.displayRect.Max.Y+memoryPanelGap+memH)

	eo.width = eo.listingRect.Max.X + panelPad
	monTop := max(eo.memoryRect.Max.Y, eo.regsRect.Max.Y) + panelPad
	monitorRect := image.Rect(panelPad, monTop, eo.width-panelPad, monTop+monitorRows*glyphH)
	eo.overlay = NewMonitorOverlay(eo.mon, monitorRect)
	eo.height = monitorRect.Max.Y + panelPad + statusBarH
}

// Run opens the window and blocks until it is closed or ctx is done.
func (eo *EbitenOutput) Run(ctx context.Context) error {
	eo.ctx = ctx
	ebiten.SetWindowSize(eo.width, eo.height)
	ebiten.SetWindowTitle(fmt.Sprintf("emudbg - %s", eo.emu.CPUName()))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(eo.config.RefreshRate)

	eo.mon.Activate()
	if err := ebiten.RunGame(eo); err != nil {
		return &VideoError{Operation: "run", Details: "ebiten game loop", Err: err}
	}
	return nil
}

func (eo *EbitenOutput) Update() error {
	if ebiten.IsWindowBeingClosed() || eo.ctx.Err() != nil {
		eo.emu.StopRun()
		return ebiten.Termination
	}

	eo.loop.RunPending()

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		eo.emu.ToggleRun()
	case inpututil.IsKeyJustPressed(ebiten.KeyF6):
		_ = eo.emu.Step() // failures reach the monitor through the error hook
	case inpututil.IsKeyJustPressed(ebiten.KeyF7):
		eo.emu.ToggleHalt()
	case inpututil.IsKeyJustPressed(ebiten.KeyF8):
		eo.emu.ToggleFollowPC()
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		eo.emu.ToggleBreakpoint(eo.emu.PC())
	case inpututil.IsKeyJustPressed(ebiten.KeyF10):
		eo.emu.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyF11):
		eo.fullscreen = !eo.fullscreen
		ebiten.SetFullscreen(eo.fullscreen)
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		eo.showStatusBar = !eo.showStatusBar
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		eo.emu.SwapRegisterView()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		eo.editor.Scroll(-1)
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		eo.editor.Scroll(1)
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyE):
		if eo.editor.Editing() {
			eo.editor.EndEdit()
		} else {
			eo.editor.BeginEdit(eo.editor.Start())
		}
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyG):
		eo.editor.BeginAddressEntry()
	case ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV):
		eo.handleClipboardPaste()
	case ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyC):
		eo.handleClipboardCopy()
	case eo.editor.Editing():
		eo.handleEditInput()
	default:
		if !ctrl {
			eo.overlay.HandleInput()
		}
	}

	eo.handleMouse()
	runtimeStatus.publish(eo.emu)
	return nil
}

// handleEditInput feeds the memory editor while it has the keyboard.
func (eo *EbitenOutput) handleEditInput() {
	ed := eo.editor
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		ed.EndEdit()
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter):
		eo.mon.CommitEdit()
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		ed.MoveCursor(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		ed.MoveCursor(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		ed.MoveCursor(-ed.Width)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		ed.MoveCursor(ed.Width)
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		ed.Erase()
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		ed.Type(r)
	}
}

// handleMouse toggles a breakpoint on a clicked listing row and starts
// editing a clicked memory cell.
func (eo *EbitenOutput) handleMouse() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	p := image.Pt(ebiten.CursorPosition())
	switch {
	case p.In(eo.listingRect):
		row := (p.Y-eo.listingRect.Min.Y)/glyphH - 1
		entries := eo.emu.Listing(DEFAULT_LISTING_ROWS)
		if row >= 0 && row < len(entries) {
			eo.emu.ToggleBreakpoint(entries[row].Address)
		}
	case p.In(eo.memoryRect):
		row, col := panelCell(eo.memoryRect, p)
		if addr, ok := eo.editor.CellAt(row, col); ok {
			eo.editor.BeginEdit(addr)
		}
	}
}

// panelCell converts a point inside a panel drawn by drawPanel to a text
// row (0 is the first line below the title) and column.
func panelCell(r image.Rectangle, p image.Point) (row, col int) {
	return (p.Y-r.Min.Y)/glyphH - 1, (p.X - r.Min.X - panelTitleGap) / glyphW
}

func normalizePasteText(raw []byte) []byte {
	norm := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\r' {
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			norm = append(norm, '\n')
			continue
		}
		norm = append(norm, raw[i])
	}
	return norm
}

func capPasteText(raw []byte, max int) []byte {
	if len(raw) <= max {
		return raw
	}
	return raw[:max]
}

func (eo *EbitenOutput) initClipboard() bool {
	eo.clipboardOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "video_backend_ebiten: clipboard unavailable: %v\n", err)
			return
		}
		eo.clipboardOK = true
	})
	return eo.clipboardOK
}

// handleClipboardPaste types the clipboard into the monitor; each newline
// submits the line typed so far.
func (eo *EbitenOutput) handleClipboardPaste() {
	if !eo.initClipboard() {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	data = capPasteText(normalizePasteText(data), pasteLimit)
	eo.mon.Activate()
	start := 0
	for i, b := range data {
		if b == '\n' {
			eo.mon.InsertText(string(data[start:i]))
			eo.mon.Submit()
			start = i + 1
		}
	}
	eo.mon.InsertText(string(data[start:]))
}

// handleClipboardCopy puts the current listing on the clipboard.
func (eo *EbitenOutput) handleClipboardCopy() {
	if !eo.initClipboard() {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(listingPanel(eo.emu, DEFAULT_LISTING_ROWS).Text()))
	eo.mon.appendOutput("Listing copied to clipboard", colorCyan)
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	if eo.display == nil {
		eo.display = ebiten.NewImage(eo.frame.Width, eo.frame.Height)
	}
	if eo.frame.Refresh(eo.emu) {
		eo.display.WritePixels(eo.frame.Pixels)
	}
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(eo.config.Scale), float64(eo.config.Scale))
	opts.GeoM.Translate(float64(eo.displayRect.Min.X), float64(eo.displayRect.Min.Y))
	screen.DrawImage(eo.display, opts)

	drawPanel(screen, eo.listingRect, listingPanel(eo.emu, DEFAULT_LISTING_ROWS))
	drawPanel(screen, eo.regsRect, registerPanel(eo.emu))
	drawPanel(screen, eo.memoryRect, memoryPanel(eo.editor))
	eo.overlay.Draw(screen)

	if eo.showStatusBar {
		eo.drawRuntimeStatusBar(screen)
	}
}

func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	return eo.width, eo.height
}

func drawPanel(screen *ebiten.Image, r image.Rectangle, p Panel) {
	ebitenutil.DrawRect(screen, float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()), panelBackground)
	face := basicfont.Face7x13
	text.Draw(screen, p.Title, face, r.Min.X+panelTitleGap, r.Min.Y+glyphH-3, panelTitle)
	maxCols := r.Dx() / glyphW
	for i, line := range p.Lines {
		y := r.Min.Y + (i+2)*glyphH - 3
		if y > r.Max.Y {
			break
		}
		s := line.Text
		if len(s) > maxCols {
			s = s[:maxCols]
		}
		text.Draw(screen, s, face, r.Min.X+panelTitleGap, y, colorFromPacked(line.Color))
	}
}

func drawStatusLine(screen *ebiten.Image, x, baselineY int, line statusLine) {
	face := basicfont.Face7x13
	labelColor := color.RGBA{190, 190, 190, 255}
	offColor := color.RGBA{120, 120, 120, 255}
	onColor := color.RGBA{0, 220, 90, 255}

	text.Draw(screen, line.label, face, x, baselineY, labelColor)
	cursorX := x + text.BoundString(face, line.label).Dx() + 6

	for _, token := range line.tokens {
		c := offColor
		if token.enabled {
			c = onColor
		}
		text.Draw(screen, token.name, face, cursorX, baselineY, c)
		cursorX += text.BoundString(face, token.name).Dx() + 8
	}
	if line.info != "" {
		text.Draw(screen, line.info, face, cursorX+8, baselineY, labelColor)
	}
}

func (eo *EbitenOutput) drawRuntimeStatusBar(screen *ebiten.Image) {
	y := eo.height - statusBarH
	ebitenutil.DrawRect(screen, 0, float64(y), float64(eo.width), float64(statusBarH), color.RGBA{0, 0, 0, 180})

	for i, line := range statusLines(runtimeStatus.snapshot()) {
		drawStatusLine(screen, 6, y+13*(i+1), line)
	}

	legendColor := color.RGBA{160, 160, 160, 255}
	legend := "F5 Run  F6 Step  F7 Halt  F8 Follow  F9 Break  F10 Reset  Tab Regs"
	legendW := text.BoundString(basicfont.Face7x13, legend).Dx()
	legendX := max(eo.width-legendW-6, 6)
	legendOpts := &ebiten.DrawImageOptions{}
	legendOpts.GeoM.Translate(float64(legendX), float64(y+39))
	legendOpts.ColorScale.ScaleWithColor(legendColor)
	text.DrawWithOptions(screen, legend, basicfont.Face7x13, legendOpts)
}
