// debug_registers.go - Register inspector view

package main

import (
	"fmt"
	"strings"
)

// RegisterRow is one line of the register view. Pair registers in the
// general and shadow groups carry their 8-bit halves.
type RegisterRow struct {
	Name  string
	Width int
	Value uint64
	Group string
	High  string // name of the high half, "" when not shown
	Low   string
}

// Text is the hex value padded to the register width.
func (r RegisterRow) Text() string {
	return fmt.Sprintf("%0*X", r.Width/4, r.Value)
}

func (r RegisterRow) HasHalves() bool { return r.High != "" }

func (r RegisterRow) HighText() string { return fmt.Sprintf("%02X", byte(r.Value>>8)) }
func (r RegisterRow) LowText() string  { return fmt.Sprintf("%02X", byte(r.Value)) }

// RegisterView shows either the main or the alternate register set plus
// the registers outside both sets.
type RegisterView struct {
	emu  *Emulator
	bank int
}

// VisibleGroup is GroupMain or GroupShadow.
func (v *RegisterView) VisibleGroup() string {
	if v.bank == 1 {
		return GroupShadow
	}
	return GroupMain
}

// SwapView pages to the other register set. CPUs with a single set stay
// on the main one.
func (v *RegisterView) SwapView() {
	banks := v.emu.cpu.RegisterBanks()
	if banks < 2 {
		v.bank = 0
		return
	}
	v.bank = (v.bank + 1) % banks
	v.emu.touch()
}

// SwapContent exchanges the main and alternate sets inside the CPU.
func (v *RegisterView) SwapContent() {
	if v.emu.cpu.RegisterBanks() < 2 {
		return
	}
	v.emu.cpu.SwapRegisterBanks()
	v.emu.touch()
}

func pairHalves(name string) (string, string) {
	suffix := ""
	base := name
	if strings.HasSuffix(name, "'") {
		suffix = "'"
		base = strings.TrimSuffix(name, "'")
	}
	if len(base) != 2 {
		return "", ""
	}
	return base[:1] + suffix, base[1:] + suffix
}

// Rows returns the visible set followed by every other group.
func (v *RegisterView) Rows() []RegisterRow {
	visible := v.VisibleGroup()
	var rows []RegisterRow
	for _, r := range v.emu.cpu.GetRegisters() {
		if (r.Group == GroupMain || r.Group == GroupShadow) && r.Group != visible {
			continue
		}
		row := RegisterRow{Name: r.Name, Width: r.BitWidth, Value: r.Value, Group: r.Group}
		if r.Group == visible && r.BitWidth == 16 {
			row.High, row.Low = pairHalves(r.Name)
		}
		rows = append(rows, row)
	}
	return rows
}

// Commit writes hex text into a register. It returns the text the cell
// should show: the new value on success, the previous one on failure.
func (v *RegisterView) Commit(name, text string) (string, error) {
	if err := v.emu.WriteRegisterHex(name, text); err != nil {
		return v.cellText(name), err
	}
	return v.cellText(name), nil
}

func (v *RegisterView) cellText(name string) string {
	val, err := v.emu.Register(name)
	if err != nil {
		return "??"
	}
	w, _ := v.emu.RegisterWidth(name)
	return fmt.Sprintf("%0*X", w/4, val)
}
