// program_loader.go - Asynchronous program image loading

package main

import (
	"fmt"
	"os"
)

// LoadProgramFile reads path off the event loop and hands the bytes to
// emu.LoadProgram in a later turn, exactly once. done, if not nil, runs in
// that same turn with the outcome.
func LoadProgramFile(path string, loop Scheduler, emu *Emulator, done func(error)) {
	LoadProgramFileAt(path, emu.Config().LoadAddr, loop, emu, done)
}

// LoadProgramFileAt is LoadProgramFile with an explicit origin.
func LoadProgramFileAt(path string, origin uint16, loop Scheduler, emu *Emulator, done func(error)) {
	go func() {
		data, err := os.ReadFile(path)
		loop.Post(func() {
			if err != nil {
				err = fmt.Errorf("load %s: %w", path, err)
			} else {
				err = emu.LoadProgramAt(origin, data)
			}
			if done != nil {
				done(err)
			}
		})
	}()
}
