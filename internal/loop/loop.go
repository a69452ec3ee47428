// Package loop provides the frame loop: the standard input -> tick -> draw
// cycle that binds the terminal to the race simulation.
package loop

import (
	"bufio"
	"io"
	"time"

	"github.com/mkarls/outrush/internal/draw"
	"github.com/mkarls/outrush/internal/input"
	"github.com/mkarls/outrush/internal/race"
)

const targetFPS = 30
const targetFrameTime = time.Second / targetFPS

// Options configures a game session.
type Options struct {
	// TermSizeFunc reports the terminal size; defaults to os.Stdout.
	TermSizeFunc draw.TermSizeFunc

	// Reporter receives the final score on game over. May be nil.
	Reporter race.ScoreReporter

	// Seed fixes the traffic randomness; 0 means time-seeded.
	Seed int64
}

// Run plays one session: it reads keys from r, ticks the race, and renders
// frames to w until the player quits or the reader closes.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	sizeFunc := opts.TermSizeFunc
	if sizeFunc == nil {
		sizeFunc = draw.DefaultTermSizeFunc
	}

	raceOpts := []race.Option{}
	if opts.Seed != 0 {
		raceOpts = append(raceOpts, race.WithSeed(opts.Seed))
	}
	if opts.Reporter != nil {
		raceOpts = append(raceOpts, race.WithReporter(opts.Reporter))
	}
	sim := race.New(raceOpts...)

	stream := input.StartStream(r)

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)

	termW, termH, err := sizeFunc()
	if err != nil {
		return err
	}
	frame := draw.NewFrame(termW, termH)
	cw := draw.NewChunkWriter(w)
	var road draw.RoadView

	prevState := sim.State()
	lastTime := time.Now()

	for {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		// ===== INPUT PHASE =====
		cmds := stream.Read()
		if cmds.Quit {
			break
		}

		// ===== UPDATE PHASE =====
		snap := sim.Tick(race.Input{
			Throttle:   cmds.Throttle,
			Brake:      cmds.Brake,
			SteerLeft:  cmds.SteerLeft,
			SteerRight: cmds.SteerRight,
			Pause:      cmds.Pause,
			Restart:    cmds.Restart,
		}, delta)

		// Drop held keys across state changes so a restart tap doesn't
		// bleed into the new run.
		if snap.State != prevState {
			stream.Reset()
			prevState = snap.State
		}

		// ===== DRAW PHASE =====
		if tw, th, err := sizeFunc(); err == nil {
			frame.Resize(tw, th)
		}
		road.Render(frame, snap)
		frame.Render(cw)
		drawOverlay(cw, frame, snap)
		if err := cw.Flush(); err != nil {
			return err
		}

		// ===== FRAME TIMING =====
		if elapsed := time.Since(frameStart); elapsed < targetFrameTime {
			time.Sleep(targetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(w)
	return nil
}
