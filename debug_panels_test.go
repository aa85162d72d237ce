package main

import (
	"strings"
	"testing"
)

func TestListingPanel(t *testing.T) {
	emu := newTestEmulator(t)
	_ = emu.LoadProgram([]byte{0x3E, 0x01, 0x00, 0xED, 0x00})
	emu.ToggleBreakpoint(0x0002)

	p := listingPanel(emu, 3)
	if p.Title != "DISASSEMBLY (follow PC)" {
		t.Fatalf("title = %q", p.Title)
	}
	if len(p.Lines) != 3 {
		t.Fatalf("%d lines", len(p.Lines))
	}
	if !strings.HasPrefix(p.Lines[0].Text, "> 0000  3E 01") || p.Lines[0].Color != colorYellow {
		t.Fatalf("PC row = %+v", p.Lines[0])
	}
	if !strings.HasPrefix(p.Lines[1].Text, "* 0002") || p.Lines[1].Color != colorRed {
		t.Fatalf("breakpoint row = %+v", p.Lines[1])
	}
	if !strings.HasSuffix(p.Lines[2].Text, "N/A") || p.Lines[2].Color != colorDim {
		t.Fatalf("failed row = %+v", p.Lines[2])
	}

	emu.ToggleBreakpoint(0x0000)
	if got := listingPanel(emu, 1).Lines[0].Text; !strings.HasPrefix(got, "*>") {
		t.Fatalf("PC on a breakpoint = %q", got)
	}
	emu.ToggleFollowPC()
	if got := listingPanel(emu, 1).Title; got != "DISASSEMBLY (pinned $0000)" {
		t.Fatalf("pinned title = %q", got)
	}
}

func TestRegisterPanel(t *testing.T) {
	emu := newTestEmulator(t)
	_ = emu.WriteRegister("HL", 0xC0DE)
	p := registerPanel(emu)
	if p.Title != "REGISTERS (general)" {
		t.Fatalf("title = %q", p.Title)
	}
	if !strings.Contains(p.Text(), "HL   C0DE   H  C0  L  DE") {
		t.Fatalf("panel text:\n%s", p.Text())
	}
	emu.SwapRegisterView()
	if got := registerPanel(emu).Title; got != "REGISTERS (shadow)" {
		t.Fatalf("swapped title = %q", got)
	}
}

func TestMemoryPanel(t *testing.T) {
	emu := newTestEmulator(t)
	_ = emu.LoadProgram([]byte{0x01, 0x02})
	ed := NewMemoryEditor(emu, 4, 2)
	p := memoryPanel(ed)
	if p.Title != "MEMORY $0000" {
		t.Fatalf("title = %q", p.Title)
	}
	if p.Lines[0].Text != "0000: 01 02 00 00" || p.Lines[0].Color != colorYellow {
		t.Fatalf("row 0 = %+v", p.Lines[0])
	}
	if p.Lines[1].Text != "0004: 00 00 00 00" || p.Lines[1].Color != colorWhite {
		t.Fatalf("row 1 = %+v", p.Lines[1])
	}
	if p.Text() != "0000: 01 02 00 00\n0004: 00 00 00 00\n" {
		t.Fatalf("Text = %q", p.Text())
	}
}

func TestMemoryPanelWhileEditing(t *testing.T) {
	ed := NewMemoryEditor(newTestEmulator(t), 4, 2)
	ed.BeginEdit(0x0001)
	ed.Type('7')
	p := memoryPanel(ed)
	if p.Title != "MEMORY $0000  EDIT $0001" {
		t.Fatalf("title = %q", p.Title)
	}
	if p.Lines[0].Text != "0000: 00>7_ 00 00" || p.Lines[0].Color != colorGreen {
		t.Fatalf("row 0 = %+v", p.Lines[0])
	}

	ed.BeginAddressEntry()
	ed.Type('2')
	if got := memoryPanel(ed).Title; !strings.HasPrefix(got, "MEMORY $2_") {
		t.Fatalf("address entry title = %q", got)
	}
}
