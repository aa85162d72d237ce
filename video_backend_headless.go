//go:build headless

package main

import (
	"context"
	"time"
)

// HeadlessVideoOutput stands in for the window in headless builds. It
// pumps the event loop at the refresh rate and keeps a rendered frame,
// but draws nothing.
type HeadlessVideoOutput struct {
	emu        *Emulator
	mon        *MachineMonitor
	loop       *EventLoop
	frame      *DisplayFrame
	config     DisplayConfig
	frameCount uint64
}

func NewEbitenOutput(deps FrontendDeps) (Frontend, error) {
	cfg := deps.Display
	cfg.Scale = ClampScale(cfg.Scale)
	if cfg.RefreshRate <= 0 {
		cfg.RefreshRate = DEFAULT_REFRESH_RATE
	}
	d := deps.Emu.Display()
	cfg.Width, cfg.Height = d.Width(), d.Height()
	return &HeadlessVideoOutput{
		emu:    deps.Emu,
		mon:    deps.Monitor,
		loop:   deps.Loop,
		frame:  NewDisplayFrame(d),
		config: cfg,
	}, nil
}

func (h *HeadlessVideoOutput) Run(ctx context.Context) error {
	h.mon.Activate()
	ticker := time.NewTicker(time.Second / time.Duration(h.config.RefreshRate))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.emu.StopRun()
			return nil
		case <-ticker.C:
			h.Tick()
		}
	}
}

// Tick is one frame: drain the event loop and refresh the frame.
func (h *HeadlessVideoOutput) Tick() {
	h.loop.RunPending()
	h.frame.Refresh(h.emu)
	runtimeStatus.publish(h.emu)
	h.frameCount++
}

func (h *HeadlessVideoOutput) GetFrameCount() uint64 { return h.frameCount }

func (h *HeadlessVideoOutput) Frame() *DisplayFrame { return h.frame }
