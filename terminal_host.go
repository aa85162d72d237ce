// terminal_host.go - Line-mode monitor on the host terminal

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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

type lineReader interface {
	ReadLine() (string, error)
}

// scanReader reads plain lines when stdin is not a terminal (pipes, tests).
type scanReader struct{ sc *bufio.Scanner }

func (r scanReader) ReadLine() (string, error) {
	if r.sc.Scan() {
		return r.sc.Text(), nil
	}
	if err := r.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// TerminalHost runs the monitor as a REPL. On a real terminal it puts
// stdin in raw mode and uses x/term's line editor (history, cursor keys);
// otherwise it reads plain lines. The event loop runs on its own goroutine
// and every command executes there.
type TerminalHost struct {
	emu  *Emulator
	mon  *MachineMonitor
	loop *EventLoop
	in   io.Reader
	out  io.Writer

	mu     sync.Mutex
	writer io.Writer
	escape *term.EscapeCodes
}

// NewTerminalHost creates the REPL host. nil in or out select stdin and
// stdout.
func NewTerminalHost(deps FrontendDeps, in io.Reader, out io.Writer) *TerminalHost {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &TerminalHost{emu: deps.Emu, mon: deps.Monitor, loop: deps.Loop, in: in, out: out}
}

// open picks the line source. The returned restore puts the terminal back
// the way it was.
func (h *TerminalHost) open() (lineReader, func(), error) {
	if f, ok := h.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return nil, nil, fmt.Errorf("terminal_host: failed to set raw mode: %w", err)
		}
		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{h.in, h.out}, "> ")
		if w, _, err := term.GetSize(fd); err == nil {
			_ = t.SetSize(w, 0)
		}
		h.writer = t
		h.escape = t.Escape
		return t, func() { _ = term.Restore(fd, oldState) }, nil
	}
	h.writer = h.out
	return scanReader{bufio.NewScanner(h.in)}, func() {}, nil
}

// writeLine is the monitor sink. It runs on the event loop goroutine.
func (h *TerminalHost) writeLine(l OutputLine) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.escape == nil {
		fmt.Fprintln(h.writer, l.Text)
		return
	}
	fmt.Fprintf(h.writer, "%s%s%s\n", h.colorCode(l.Color), l.Text, h.escape.Reset)
}

func (h *TerminalHost) colorCode(c uint32) []byte {
	switch c {
	case colorRed:
		return h.escape.Red
	case colorGreen:
		return h.escape.Green
	case colorYellow:
		return h.escape.Yellow
	case colorCyan:
		return h.escape.Cyan
	case colorDim:
		return h.escape.Blue
	default:
		return h.escape.White
	}
}

// Run reads commands until x, end of input or ctx is done.
func (h *TerminalHost) Run(ctx context.Context) error {
	reader, restore, err := h.open()
	if err != nil {
		return err
	}
	defer restore()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h.mon.SetSink(h.writeLine)
	defer h.mon.SetSink(nil)

	loopDone := make(chan error, 1)
	go func() { loopDone <- h.loop.Run(ctx) }()
	h.loop.Post(h.mon.Activate)

	for ctx.Err() == nil {
		line, err := reader.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(os.Stderr, "terminal_host: %v\n", err)
			}
			break
		}
		exit := make(chan bool, 1)
		h.loop.Post(func() { exit <- h.mon.ExecuteCommand(line) })
		var quit bool
		select {
		case quit = <-exit:
		case <-ctx.Done():
		}
		if quit {
			break
		}
	}

	// Stop run-mode inside the loop so no tick races the shutdown.
	stopped := make(chan struct{})
	h.loop.Post(func() {
		h.emu.StopRun()
		close(stopped)
	})
	select {
	case <-stopped:
	case <-ctx.Done():
	}
	cancel()
	<-loopDone
	return nil
}
