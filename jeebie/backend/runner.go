package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/valerio/jeebie-core/jeebie"
	"github.com/valerio/jeebie-core/jeebie/input"
	"github.com/valerio/jeebie-core/jeebie/snapshot"
	"github.com/valerio/jeebie-core/jeebie/timing"
)

// Runner drives an emulator through a backend: run a frame, hand it over,
// apply the input that came back, wait for the next frame.
type Runner struct {
	emu     jeebie.Emulator
	backend Backend
	limiter timing.Limiter
	input   *input.Manager

	// SnapshotDir receives F9 snapshots, the working directory when empty.
	SnapshotDir string

	running   bool
	paused    bool
	stepFrame bool
	frames    int
}

func NewRunner(emu jeebie.Emulator, b Backend, limiter timing.Limiter) *Runner {
	if limiter == nil {
		limiter = timing.NoOp()
	}
	r := &Runner{
		emu:     emu,
		backend: b,
		limiter: limiter,
		input:   input.NewManager(emu),
	}

	r.input.On(input.EmulatorQuit, func() {
		slog.Info("Quit requested")
		r.running = false
	})
	r.input.On(input.EmulatorPauseToggle, func() {
		r.paused = !r.paused
		r.limiter.Reset()
		slog.Info("Pause toggled", "paused", r.paused)
	})
	r.input.On(input.EmulatorStepFrame, func() {
		r.paused = true
		r.stepFrame = true
	})
	r.input.On(input.EmulatorSnapshot, r.saveSnapshot)
	r.input.On(input.EmulatorReset, func() {
		if resetter, ok := emu.(interface{ Reset() }); ok {
			resetter.Reset()
		}
	})

	return r
}

// Run loops until the backend asks to quit, ctx is done or the emulator
// fails. Cancellation is not an error.
func (r *Runner) Run(ctx context.Context, config Config) error {
	if err := r.backend.Init(config); err != nil {
		return fmt.Errorf("backend init: %w", err)
	}
	defer func() {
		if err := r.backend.Cleanup(); err != nil {
			slog.Error("Backend cleanup failed", "error", err)
		}
	}()

	r.running = true
	for r.running {
		if ctx.Err() != nil {
			return nil
		}

		if !r.paused || r.stepFrame {
			r.stepFrame = false
			if err := r.emu.RunUntilFrameContext(ctx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				}
				return err
			}
			r.frames++
		}

		events, err := r.backend.Update(r.emu.GetCurrentFrame())
		if err != nil {
			return fmt.Errorf("backend update: %w", err)
		}
		r.input.TriggerAll(events)

		r.limiter.WaitForNextFrame()
	}

	return nil
}

// Frames is the number of frames emulated so far.
func (r *Runner) Frames() int {
	return r.frames
}

// Paused reports whether emulation is paused.
func (r *Runner) Paused() bool {
	return r.paused
}

func (r *Runner) saveSnapshot() {
	dir := r.SnapshotDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			slog.Error("Failed to save snapshot", "error", err)
			return
		}
		dir = cwd
	}

	name := fmt.Sprintf("jeebie_snapshot_%s", time.Now().Format("20060102_150405"))
	path, err := snapshot.SavePNG(dir, name, r.emu.GetCurrentFrame(), 1)
	if err != nil {
		slog.Error("Failed to save snapshot", "error", err)
		return
	}
	slog.Info("Snapshot saved", "path", path)
}
