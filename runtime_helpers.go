// runtime_helpers.go - CPU mode detection, factory, and hex input parsing

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
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	modeZ80  = "z80"
	mode8080 = "i8080"
)

// modeFromExtension picks a CPU from a program file name. Raw .bin images
// carry no hint and return an error so the caller keeps its -cpu flag.
func modeFromExtension(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".z80":
		return modeZ80, nil
	case ".8080", ".com":
		return mode8080, nil
	default:
		return "", fmt.Errorf("unsupported extension: %s", filepath.Ext(path))
	}
}

func normalizeMode(mode string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "z80":
		return modeZ80, nil
	case "8080", "i8080", "intel8080":
		return mode8080, nil
	default:
		return "", fmt.Errorf("unsupported CPU mode: %s", mode)
	}
}

// createCPU builds the debug adapter for mode on top of mem.
func createCPU(mode string, mem Memory, io PortIO) (DebuggableCPU, error) {
	mode, err := normalizeMode(mode)
	if err != nil {
		return nil, err
	}
	switch mode {
	case modeZ80:
		return NewDebugZ80(NewCPU_Z80(mem, io)), nil
	default:
		return NewDebug8080(NewCPU_8080(mem, io)), nil
	}
}

// parseHexInput parses user-entered hex. An optional "$" or "0x" prefix and
// surrounding blanks are accepted. Values wider than bits fail with
// ErrInvalidEncoding, as does anything that is not hex.
func parseHexInput(text string, bits int) (uint64, error) {
	s := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(s, "$"):
		s = s[1:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s = s[2:]
	}
	if s == "" {
		return 0, fmt.Errorf("%q: %w", text, ErrInvalidEncoding)
	}
	v, err := strconv.ParseUint(s, 16, bits)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", text, ErrInvalidEncoding)
	}
	return v, nil
}
