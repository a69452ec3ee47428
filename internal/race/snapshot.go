package race

import (
	"math"

	"github.com/mkarls/outrush/internal/track"
	"github.com/mkarls/outrush/internal/vehicle"
)

// Snapshot is the read-only view of the simulation handed to renderers once
// per frame. Segments are shared (immutable after generation); everything
// mutable is copied so a renderer can never perturb the race.
type Snapshot struct {
	State     State
	Level     int
	Score     int
	Lives     int
	TimeLeft  float64
	Countdown int // Visible countdown digit, 0 outside Countdown

	TrackLength float64
	Segments    []track.Segment
	Checkpoints []track.Checkpoint
	Player      vehicle.Player
	Traffic     []vehicle.Car
}

// snapshot builds the current view, reusing the race-owned copy buffers. The
// returned value is only valid until the next Tick; renderers consume it
// within the same frame.
func (r *Race) snapshot() Snapshot {
	if cap(r.trafficBuf) < len(r.fleet.Cars) {
		r.trafficBuf = make([]vehicle.Car, len(r.fleet.Cars))
	}
	r.trafficBuf = r.trafficBuf[:len(r.fleet.Cars)]
	copy(r.trafficBuf, r.fleet.Cars)

	if cap(r.checkpointBuf) < len(r.track.Checkpoints) {
		r.checkpointBuf = make([]track.Checkpoint, len(r.track.Checkpoints))
	}
	r.checkpointBuf = r.checkpointBuf[:len(r.track.Checkpoints)]
	copy(r.checkpointBuf, r.track.Checkpoints)

	countdown := 0
	if r.state == StateCountdown {
		countdown = int(math.Ceil(r.countdown))
	}

	return Snapshot{
		State:       r.state,
		Level:       r.level,
		Score:       r.score,
		Lives:       r.lives,
		TimeLeft:    r.timeLeft,
		Countdown:   countdown,
		TrackLength: r.track.Length,
		Segments:    r.track.Segments,
		Checkpoints: r.checkpointBuf,
		Player:      *r.player,
		Traffic:     r.trafficBuf,
	}
}
