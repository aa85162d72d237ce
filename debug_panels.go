// debug_panels.go - Text renderings of the debugger views for the front-ends

package main

import (
	"fmt"
	"strings"
)

// Panel is a titled block of coloured text lines.
type Panel struct {
	Title string
	Lines []OutputLine
}

// Text joins the panel lines, for clipboard export.
func (p Panel) Text() string {
	var b strings.Builder
	for _, l := range p.Lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// listingPanel marks the PC row with "> " and breakpoints with "* ".
func listingPanel(emu *Emulator, rows int) Panel {
	title := "DISASSEMBLY"
	if emu.FollowingPC() {
		title += " (follow PC)"
	} else {
		title += fmt.Sprintf(" (pinned $%04X)", emu.ListingStart())
	}
	p := Panel{Title: title}
	pc := emu.PC()
	for _, e := range emu.Listing(rows) {
		prefix := "  "
		color := uint32(colorWhite)
		switch {
		case e.Address == pc && emu.HasBreakpoint(e.Address):
			prefix, color = "*>", colorYellow
		case e.Address == pc:
			prefix, color = "> ", colorYellow
		case emu.HasBreakpoint(e.Address):
			prefix, color = "* ", colorRed
		case e.Err != nil:
			color = colorDim
		}
		p.Lines = append(p.Lines, OutputLine{
			Text:  fmt.Sprintf("%s%04X  %-11s %s", prefix, e.Address, e.HexText(), e.MnemonicText()),
			Color: color,
		})
	}
	return p
}

// registerPanel lists the visible register set with 8-bit halves, then the
// registers outside both sets.
func registerPanel(emu *Emulator) Panel {
	view := emu.RegisterView()
	p := Panel{Title: "REGISTERS (" + view.VisibleGroup() + ")"}
	for _, r := range view.Rows() {
		text := fmt.Sprintf("%-4s %s", r.Name, r.Text())
		if r.HasHalves() {
			text += fmt.Sprintf("   %-2s %s  %-2s %s", r.High, r.HighText(), r.Low, r.LowText())
		}
		color := uint32(colorWhite)
		if r.Group != GroupMain && r.Group != GroupShadow {
			color = colorCyan
		}
		p.Lines = append(p.Lines, OutputLine{Text: text, Color: color})
	}
	return p
}

// memoryPanel renders the hex editor grid; the PC byte is highlighted.
// While editing, the cursor cell is marked with '>' and shows the pending
// entry padded with '_'.
func memoryPanel(ed *MemoryEditor) Panel {
	p := Panel{Title: "MEMORY $" + ed.StartText()}
	switch {
	case ed.EnteringAddress():
		p.Title = fmt.Sprintf("MEMORY $%-4s", ed.Pending()+"_")
	case ed.Editing():
		p.Title += fmt.Sprintf("  EDIT $%04X", ed.Cursor())
	}
	pc := ed.emu.PC()
	for _, row := range ed.View() {
		var b strings.Builder
		fmt.Fprintf(&b, "%04X:", row.Addr)
		color := uint32(colorWhite)
		for _, c := range row.Cells {
			if ed.Editing() && c.Addr == ed.Cursor() {
				b.WriteByte('>')
				if pending := ed.Pending(); pending != "" && !ed.EnteringAddress() {
					b.WriteString((pending + "__")[:2])
				} else {
					b.WriteString(c.Text)
				}
				color = colorGreen
				continue
			}
			b.WriteByte(' ')
			b.WriteString(c.Text)
			if c.Addr == pc && color == colorWhite {
				color = colorYellow
			}
		}
		p.Lines = append(p.Lines, OutputLine{Text: b.String(), Color: color})
	}
	return p
}
