// tui_frontend.go - Full-screen terminal debugger

package main

import (
	"context"
	"strings"

	"github.com/gdamore/tcell"
)

const (
	tuiMemoryW = 56
	tuiMinRegW = 24
)

// TUIFrontend draws memory, registers, disassembly and the monitor log as
// tcell boxes. Screen events are posted to the event loop, which also owns
// redraws.
type TUIFrontend struct {
	emu    *Emulator
	mon    *MachineMonitor
	loop   *EventLoop
	screen tcell.Screen
	editor *MemoryEditor

	lastGen  uint64
	lastOut  int
	drawn    bool
	quit     func()
	quitting bool
}

// NewTUIFrontend wraps screen, or the real terminal when screen is nil.
func NewTUIFrontend(deps FrontendDeps, screen tcell.Screen) (*TUIFrontend, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, &VideoError{Operation: "tui", Details: "open terminal", Err: err}
		}
		screen = s
	}
	return &TUIFrontend{
		emu:    deps.Emu,
		mon:    deps.Monitor,
		loop:   deps.Loop,
		screen: screen,
		editor: deps.Monitor.Editor(),
	}, nil
}

func (t *TUIFrontend) Run(ctx context.Context) error {
	if err := t.screen.Init(); err != nil {
		return &VideoError{Operation: "tui", Details: "init screen", Err: err}
	}
	defer t.screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	t.quit = cancel

	t.loop.Post(func() {
		t.mon.Activate()
		t.draw()
	})
	redraw := t.loop.SetInterval(tickInterval, t.redrawIfChanged)
	defer t.loop.ClearInterval(redraw)

	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			t.loop.Post(func() { t.handleEvent(ev) })
		}
	}()

	_ = t.loop.Run(ctx)
	t.emu.StopRun()
	return nil
}

func (t *TUIFrontend) stop() {
	t.quitting = true
	if t.quit != nil {
		t.quit()
	}
}

// handleEvent runs on the event loop.
func (t *TUIFrontend) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
		t.draw()
		return
	case *tcell.EventKey:
		t.handleKey(ev)
	}
	if !t.quitting {
		t.draw()
	}
}

func (t *TUIFrontend) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlE {
		if t.editor.Editing() {
			t.editor.EndEdit()
		} else {
			t.editor.BeginEdit(t.editor.Start())
		}
		return
	}
	if t.editor.Editing() && t.handleEditKey(ev) {
		return
	}
	switch ev.Key() {
	case tcell.KeyCtrlC:
		t.stop()
	case tcell.KeyF5:
		t.emu.ToggleRun()
	case tcell.KeyF6:
		_ = t.emu.Step() // reported through the monitor's error hook
	case tcell.KeyF7:
		t.emu.ToggleHalt()
	case tcell.KeyF8:
		t.emu.ToggleFollowPC()
	case tcell.KeyF9:
		t.emu.ToggleBreakpoint(t.emu.PC())
	case tcell.KeyF10:
		t.emu.Reset()
	case tcell.KeyTab:
		t.emu.SwapRegisterView()
	case tcell.KeyCtrlP:
		t.editor.Scroll(-1)
	case tcell.KeyCtrlN:
		t.editor.Scroll(1)
	case tcell.KeyPgUp:
		t.mon.Scroll(5, t.logRows())
	case tcell.KeyPgDn:
		t.mon.Scroll(-5, t.logRows())
	case tcell.KeyUp:
		t.mon.HistoryPrev()
	case tcell.KeyDown:
		t.mon.HistoryNext()
	case tcell.KeyLeft:
		t.mon.CursorLeft()
	case tcell.KeyRight:
		t.mon.CursorRight()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		t.mon.Backspace()
	case tcell.KeyEnter:
		if t.mon.Submit() {
			t.stop()
		}
	case tcell.KeyRune:
		t.mon.InsertText(string(ev.Rune()))
	}
}

// handleEditKey feeds the memory editor while it has the keyboard. Keys it
// does not use fall through to the normal bindings.
func (t *TUIFrontend) handleEditKey(ev *tcell.EventKey) bool {
	ed := t.editor
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.EndEdit()
	case tcell.KeyEnter:
		t.mon.CommitEdit()
	case tcell.KeyCtrlG:
		ed.BeginAddressEntry()
	case tcell.KeyLeft:
		ed.MoveCursor(-1)
	case tcell.KeyRight:
		ed.MoveCursor(1)
	case tcell.KeyUp:
		ed.MoveCursor(-ed.Width)
	case tcell.KeyDown:
		ed.MoveCursor(ed.Width)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.Erase()
	case tcell.KeyRune:
		ed.Type(ev.Rune())
	default:
		return false
	}
	return true
}

func (t *TUIFrontend) redrawIfChanged() {
	if t.quitting {
		return
	}
	if t.drawn && t.emu.Generation() == t.lastGen && len(t.mon.Lines()) == t.lastOut {
		return
	}
	t.draw()
}

func tuiColor(c uint32) tcell.Color {
	return tcell.NewRGBColor(int32(c>>24), int32(byte(c>>16)), int32(byte(c>>8)))
}

func tuiDrawString(s tcell.Screen, x, y, maxW int, style tcell.Style, str string) {
	for _, c := range str {
		if maxW <= 0 {
			return
		}
		s.SetContent(x, y, c, nil, style)
		x++
		maxW--
	}
}

func tuiBox(s tcell.Screen, x, y, w, h int, title string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	s.SetContent(x, y, tcell.RuneULCorner, nil, style)
	s.SetContent(x+w, y, tcell.RuneURCorner, nil, style)
	s.SetContent(x, y+h, tcell.RuneLLCorner, nil, style)
	s.SetContent(x+w, y+h, tcell.RuneLRCorner, nil, style)
	for col := x + 1; col < x+w; col++ {
		s.SetContent(col, y, tcell.RuneHLine, nil, style)
		s.SetContent(col, y+h, tcell.RuneHLine, nil, style)
	}
	for row := y + 1; row < y+h; row++ {
		s.SetContent(x, row, tcell.RuneVLine, nil, style)
		s.SetContent(x+w, row, tcell.RuneVLine, nil, style)
	}
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	tuiDrawString(s, x+2, y, w-3, titleStyle, " "+title+" ")
}

func (t *TUIFrontend) panelBox(x, y, w, h int, p Panel) {
	tuiBox(t.screen, x, y, w, h, p.Title)
	for i, line := range p.Lines {
		if i >= h-1 {
			break
		}
		tuiDrawString(t.screen, x+1, y+1+i, w-1, tcell.StyleDefault.Foreground(tuiColor(line.Color)), line.Text)
	}
}

// logRows is the number of scrollback lines the log box shows.
func (t *TUIFrontend) logRows() int {
	_, h := t.screen.Size()
	return max(h-2*(DEFAULT_EDITOR_ROWS+2)-len(statusLines(runtimeStatusSnapshot{}))-3, 1)
}

func (t *TUIFrontend) draw() {
	s := t.screen
	s.Clear()
	w, h := s.Size()
	boxH := DEFAULT_EDITOR_ROWS + 1
	regW := max(w-tuiMemoryW-2, tuiMinRegW)

	t.panelBox(0, 0, tuiMemoryW, boxH, memoryPanel(t.editor))
	t.panelBox(tuiMemoryW+1, 0, regW, boxH, registerPanel(t.emu))
	t.panelBox(0, boxH+1, w-1, boxH, listingPanel(t.emu, DEFAULT_LISTING_ROWS))

	logY := 2 * (boxH + 1)
	rows := t.logRows()
	tuiBox(s, 0, logY, w-1, rows+1, "LOG")
	for i, line := range t.mon.Window(rows) {
		tuiDrawString(s, 1, logY+1+i, w-2, tcell.StyleDefault.Foreground(tuiColor(line.Color)), line.Text)
	}

	runtimeStatus.publish(t.emu)
	statusY := logY + rows + 2
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i, line := range statusLines(runtimeStatus.snapshot()) {
		tuiDrawString(s, 0, statusY+i, w, dim, line.String())
	}

	inputY := h - 1
	prompt := "> " + t.mon.Input()
	tuiDrawString(s, 0, inputY, w, tcell.StyleDefault.Foreground(tcell.ColorWhite), prompt)
	s.ShowCursor(2+t.mon.Cursor(), inputY)
	if !t.mon.IsActive() {
		tuiDrawString(s, 0, inputY, w, dim, strings.Repeat(" ", w))
		tuiDrawString(s, 0, inputY, w, dim, "monitor closed - F5 run  F6 step  Ctrl+E edit memory  Ctrl+C quit")
	}
	s.Show()

	t.drawn = true
	t.lastGen = t.emu.Generation()
	t.lastOut = len(t.mon.Lines())
}
