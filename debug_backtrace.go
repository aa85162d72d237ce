// debug_backtrace.go - Stack backtrace for the monitor

package main

import "encoding/binary"

// backtrace walks 2-byte little-endian stack slots upward from SP. Both CPU
// variants push return addresses that way. The walk stops at the first
// unreadable slot or when SP would wrap past the top of the address range.
func backtrace(e *Emulator, depth int) []uint16 {
	sp, err := e.Register("SP")
	if err != nil {
		return nil
	}
	var result []uint16
	for range depth {
		if sp+2 > 0x10000 {
			break
		}
		data, err := e.ReadRange(uint16(sp), 2)
		if err != nil || len(data) < 2 {
			break
		}
		result = append(result, binary.LittleEndian.Uint16(data))
		sp += 2
	}
	return result
}
