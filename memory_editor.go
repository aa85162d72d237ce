// memory_editor.go - Hex memory editor view

package main

import "fmt"

type MemoryCell struct {
	Addr uint16
	Text string // "%02X", or "??" when unreadable
}

type MemoryRow struct {
	Addr  uint16
	Cells []MemoryCell
}

// MemoryEditor is a Width x Rows hex grid. The address of the first row is
// editable; rows that would start past the end of memory are dropped and
// the last row is cut at the end of memory.
type MemoryEditor struct {
	emu   *Emulator
	Width int
	Rows  int
	start uint16

	editing   bool
	addrEntry bool
	cursor    uint16
	pending   string
}

func NewMemoryEditor(emu *Emulator, width, rows int) *MemoryEditor {
	if width <= 0 {
		width = DEFAULT_EDITOR_WIDTH
	}
	if rows <= 0 {
		rows = DEFAULT_EDITOR_ROWS
	}
	return &MemoryEditor{emu: emu, Width: width, Rows: rows}
}

func (m *MemoryEditor) Start() uint16 { return m.start }

func (m *MemoryEditor) SetStart(addr uint16) { m.start = addr }

// SetStartHex moves the first row. Bad hex leaves the view where it was.
func (m *MemoryEditor) SetStartHex(text string) error {
	v, err := parseHexInput(text, 16)
	if err != nil {
		return err
	}
	m.start = uint16(v)
	return nil
}

// StartText is the first-row address as shown in its input box.
func (m *MemoryEditor) StartText() string { return fmt.Sprintf("%04X", m.start) }

// Scroll moves the view by whole rows, clamped to the address range.
func (m *MemoryEditor) Scroll(rows int) {
	next := int(m.start) + rows*m.Width
	next = max(0, min(next, m.emu.MemorySize()-1))
	m.start = uint16(next)
}

func (m *MemoryEditor) View() []MemoryRow {
	size := m.emu.MemorySize()
	var rows []MemoryRow
	for r := range m.Rows {
		rowAddr := int(m.start) + r*m.Width
		if rowAddr >= size {
			break
		}
		row := MemoryRow{Addr: uint16(rowAddr)}
		for c := range m.Width {
			addr := rowAddr + c
			if addr >= size {
				break
			}
			row.Cells = append(row.Cells, MemoryCell{Addr: uint16(addr), Text: m.emu.ByteText(uint16(addr))})
		}
		rows = append(rows, row)
	}
	return rows
}

// CommitCell writes text into the byte at addr. shown is what the cell
// should display afterwards: the new value, or the unchanged old value
// when the edit was rejected.
func (m *MemoryEditor) CommitCell(addr uint16, text string) (shown string, err error) {
	err = m.emu.WriteMemHex(addr, text)
	return m.emu.ByteText(addr), err
}

// Keyboard editing. While editing, typed characters collect in a pending
// entry for the cursor cell, or for the first-row address after
// BeginAddressEntry. Commit applies it; nothing is written before then.

func (m *MemoryEditor) Editing() bool         { return m.editing }
func (m *MemoryEditor) EnteringAddress() bool { return m.editing && m.addrEntry }
func (m *MemoryEditor) Cursor() uint16        { return m.cursor }
func (m *MemoryEditor) Pending() string       { return m.pending }

// BeginEdit puts the cursor on addr and scrolls it into view.
func (m *MemoryEditor) BeginEdit(addr uint16) {
	m.editing, m.addrEntry, m.pending = true, false, ""
	m.cursor = addr
	m.MoveCursor(0)
}

func (m *MemoryEditor) EndEdit() {
	m.editing, m.addrEntry, m.pending = false, false, ""
}

func (m *MemoryEditor) BeginAddressEntry() {
	if !m.editing {
		m.BeginEdit(m.start)
	}
	m.addrEntry, m.pending = true, ""
}

// MoveCursor moves the cursor by delta bytes, clamped to memory, and
// scrolls by whole rows to keep it visible. A pending entry is dropped.
func (m *MemoryEditor) MoveCursor(delta int) {
	next := max(0, min(int(m.cursor)+delta, m.emu.MemorySize()-1))
	m.cursor = uint16(next)
	if !m.addrEntry {
		m.pending = ""
	}
	for int(m.cursor) < int(m.start) {
		m.start = uint16(max(int(m.start)-m.Width, 0))
	}
	for int(m.cursor) >= int(m.start)+m.Rows*m.Width {
		m.start += uint16(m.Width)
	}
}

// Type appends one character to the pending entry: up to two for a cell,
// four for an address. The text is only validated on Commit.
func (m *MemoryEditor) Type(r rune) {
	limit := 2
	if m.addrEntry {
		limit = 4
	}
	if !m.editing || len(m.pending) >= limit || r < ' ' || r > '~' {
		return
	}
	m.pending += string(r)
}

func (m *MemoryEditor) Erase() {
	if n := len(m.pending); n > 0 {
		m.pending = m.pending[:n-1]
	}
}

// Commit applies the pending entry and returns what its box shows
// afterwards. A cell commit advances the cursor on success; a rejected
// value keeps the old byte. An address commit moves the view and the
// cursor to the new first row, or leaves both alone.
func (m *MemoryEditor) Commit() (shown string, err error) {
	text := m.pending
	m.pending = ""
	if m.addrEntry {
		m.addrEntry = false
		if err := m.SetStartHex(text); err != nil {
			return m.StartText(), err
		}
		m.cursor = m.start
		return m.StartText(), nil
	}
	if text == "" {
		return m.emu.ByteText(m.cursor), nil
	}
	shown, err = m.CommitCell(m.cursor, text)
	if err == nil {
		m.MoveCursor(1)
	}
	return shown, err
}

// CellAt maps a character position in the rendered grid (row 0 is the
// first data row, col 0 the first character of "XXXX:") to an address.
func (m *MemoryEditor) CellAt(row, col int) (uint16, bool) {
	const prefix = len("XXXX:")
	if row < 0 || row >= m.Rows || col < prefix {
		return 0, false
	}
	idx := (col - prefix) / 3
	if idx >= m.Width {
		return 0, false
	}
	addr := int(m.start) + row*m.Width + idx
	if addr >= m.emu.MemorySize() {
		return 0, false
	}
	return uint16(addr), true
}
