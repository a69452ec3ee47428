// Package vehicle holds the player kinematics and the autonomous traffic
// fleet. Both share one coordinate space: x is the lateral offset from the
// road center, z the longitudinal distance in track segment units.
package vehicle

import (
	"math"

	"github.com/mkarls/outrush/internal/physics"
)

// ForwardScale converts raw speed units into track distance per second. It
// decouples the feel of acceleration from how fast segments scroll past.
const ForwardScale = 0.05

// Lane geometry. The road spans roughly [-RoadHalfWidth, RoadHalfWidth] in
// lateral units; lane limits keep vehicles off the shoulders.
const (
	RoadHalfWidth = 1000.0

	// TwoLaneLevel is the first level with only two traffic lanes and a
	// narrower drivable width.
	TwoLaneLevel = 4

	laneLimitWide   = 900.0
	laneLimitNarrow = 600.0
)

var (
	laneCentersWide   = []float64{-650, 0, 650}
	laneCentersNarrow = []float64{-400, 400}
)

// LaneCenters returns the lateral lane centers traffic may occupy at a level.
func LaneCenters(level int) []float64 {
	if level >= TwoLaneLevel {
		return laneCentersNarrow
	}
	return laneCentersWide
}

// LaneLimitFor returns the maximum |x| a vehicle may reach at a level.
func LaneLimitFor(level int) float64 {
	if level >= TwoLaneLevel {
		return laneLimitNarrow
	}
	return laneLimitWide
}

// Controls is the player's steering and pedal state for one tick.
type Controls struct {
	Throttle   bool
	Brake      bool
	SteerLeft  bool
	SteerRight bool
}

// Player is the player-controlled car.
type Player struct {
	X     float64 // Lateral offset from road center
	Z     float64 // Distance along the track, in segment units
	Speed float64 // Raw speed units, >= 0

	MaxSpeed  float64 // Speed cap
	Accel     float64 // Speed gained per second under throttle
	Friction  float64 // Speed retained per second when coasting (0..1)
	SteerRate float64 // Lateral units per second at full speed
	LaneLimit float64 // |X| clamp
}

// NewPlayer creates a player car at the start line with the drivable width
// for the given level.
func NewPlayer(level int) *Player {
	return &Player{
		MaxSpeed:  240.0, // Raw speed units
		Accel:     120.0, // 0 to max in two seconds
		Friction:  0.4,   // Keep 40% of speed per coasting second
		SteerRate: 1400.0,
		LaneLimit: LaneLimitFor(level),
	}
}

// steerFloor is the fraction of SteerRate available while stationary.
// Responsiveness scales up with speed from there.
const steerFloor = 0.25

// Step integrates one tick of control input. dt is in seconds, already
// normalized and capped by the caller; dt == 0 is a no-op.
func (p *Player) Step(c Controls, dt float64) {
	if dt <= 0 {
		return
	}

	// Throttle first, brake subtracts afterwards: simultaneous pedals
	// resolve by precedence, not rejection.
	if c.Throttle {
		p.Speed += p.Accel * dt
		if p.Speed > p.MaxSpeed {
			p.Speed = p.MaxSpeed
		}
	} else {
		p.Speed *= math.Pow(p.Friction, dt)
	}
	if c.Brake {
		p.Speed -= 2 * p.Accel * dt
		if p.Speed < 0 {
			p.Speed = 0
		}
	}

	// Steering authority grows with motion.
	steer := p.SteerRate * dt * (steerFloor + (1-steerFloor)*p.Speed/p.MaxSpeed)
	if c.SteerLeft {
		p.X -= steer
	}
	if c.SteerRight {
		p.X += steer
	}
	p.X = physics.Clamp(p.X, -p.LaneLimit, p.LaneLimit)

	p.Z += p.Speed * dt * ForwardScale
}
