// Package race owns the progression state machine: it advances the player
// kinematics, the traffic fleet and the collision system in order each tick,
// evaluates checkpoints and level completion, and accounts score, lives and
// the race clock.
package race

import (
	"math/rand"
	"time"

	"github.com/mkarls/outrush/internal/collision"
	"github.com/mkarls/outrush/internal/track"
	"github.com/mkarls/outrush/internal/vehicle"
)

// State is the current race phase.
type State int

const (
	StateMenu State = iota
	StateCountdown
	StatePlaying
	StateCrashing
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateCountdown:
		return "countdown"
	case StatePlaying:
		return "playing"
	case StateCrashing:
		return "crashing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// Input is the player's command state for one tick.
type Input struct {
	Throttle   bool
	Brake      bool
	SteerLeft  bool
	SteerRight bool
	Pause      bool
	Restart    bool
}

// ScoreReporter receives the final score exactly once when a race ends. The
// race never blocks on or reads back from the reporter.
type ScoreReporter interface {
	Report(score int)
}

// Race is the simulation core. It is single-threaded by contract: one Tick at
// a time, renderers read only the returned snapshots.
type Race struct {
	state State

	level int
	score int
	lives int

	timeLeft   float64
	countdown  float64
	crashTimer float64

	track          *track.Track
	player         *vehicle.Player
	fleet          *vehicle.Fleet
	nextCheckpoint int

	rng      *rand.Rand
	reporter ScoreReporter
	reported bool

	prevPause bool

	// Snapshot copy buffers, reused across ticks.
	trafficBuf    []vehicle.Car
	checkpointBuf []track.Checkpoint
}

// Option configures a Race.
type Option func(*Race)

// WithSeed fixes the traffic randomness, making whole races reproducible.
func WithSeed(seed int64) Option {
	return func(r *Race) {
		r.rng = rand.New(rand.NewSource(seed))
	}
}

// WithReporter sets the collaborator that receives the final score.
func WithReporter(rep ScoreReporter) Option {
	return func(r *Race) {
		r.reporter = rep
	}
}

// WithLevel builds the initial world for the given level instead of level 1.
// Starting a run still resets to level 1; this only seeds the menu backdrop
// and lets tests construct higher-level worlds directly.
func WithLevel(level int) Option {
	return func(r *Race) {
		if level >= 1 {
			r.level = level
		}
	}
}

// New creates a race in the menu state with the level 1 world already built,
// so renderers have a road to show behind the title.
func New(opts ...Option) *Race {
	r := &Race{
		state: StateMenu,
		level: 1,
		lives: InitialLives,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	r.rebuild()
	return r
}

// Snapshot returns the current view without advancing the simulation.
func (r *Race) Snapshot() Snapshot {
	return r.snapshot()
}

// Restart discards the current run and re-enters the countdown at level 1.
func (r *Race) Restart() Snapshot {
	r.start()
	return r.snapshot()
}

// Tick advances exactly one state's logic by the given delta and returns the
// resulting snapshot. Delta is normalized to seconds and capped; a zero or
// negative delta leaves the simulation at rest.
func (r *Race) Tick(in Input, delta time.Duration) Snapshot {
	dt := delta.Seconds()
	if dt < 0 {
		dt = 0
	}
	if dt > MaxTickSeconds {
		dt = MaxTickSeconds
	}

	pausePressed := in.Pause && !r.prevPause
	r.prevPause = in.Pause

	switch r.state {
	case StateMenu:
		if in.Restart {
			r.start()
		}
	case StateCountdown:
		r.tickCountdown(dt)
	case StatePlaying:
		r.tickPlaying(in, dt, pausePressed)
	case StateCrashing:
		r.tickCrashing(dt)
	case StatePaused:
		if pausePressed {
			r.state = StatePlaying
		}
	case StateGameOver:
		if in.Restart {
			r.start()
		}
	}

	return r.snapshot()
}

// start resets score, lives and level and rebuilds the world, entering the
// countdown. Used for both the initial start and restarts.
func (r *Race) start() {
	r.level = 1
	r.score = 0
	r.lives = InitialLives
	r.reported = false
	r.rebuild()
	r.countdown = CountdownSeconds
	r.state = StateCountdown
}

// rebuild regenerates track, player and traffic wholesale for the current
// level. Nothing from the previous level survives.
func (r *Race) rebuild() {
	r.track = track.Generate(r.level)
	r.player = vehicle.NewPlayer(r.level)
	r.fleet = vehicle.NewFleet(TrafficCount, r.level, r.track.Length, r.rng)
	r.nextCheckpoint = 0
}

func (r *Race) tickCountdown(dt float64) {
	r.countdown -= dt
	if r.countdown <= 0 {
		r.countdown = 0
		r.timeLeft = levelTime(r.level)
		r.state = StatePlaying
	}
}

// tickPlaying runs one full simulation step: clock, kinematics, traffic,
// collisions, checkpoints, level completion. Whenever a state transition
// fires, the rest of the step is skipped so no tick crosses two states.
func (r *Race) tickPlaying(in Input, dt float64, pausePressed bool) {
	if pausePressed {
		r.state = StatePaused
		return
	}

	r.timeLeft -= dt
	if r.timeLeft <= 0 {
		r.lives--
		r.penalize(timeoutPenalty)
		if r.lives <= 0 {
			r.gameOver()
			return
		}
		r.timeLeft = levelTime(r.level)
	}

	r.player.Step(vehicle.Controls{
		Throttle:   in.Throttle,
		Brake:      in.Brake,
		SteerLeft:  in.SteerLeft,
		SteerRight: in.SteerRight,
	}, dt)

	r.fleet.Update(r.player, dt)

	if hit := collision.Check(r.player, r.fleet.Cars, dt); hit != nil {
		r.lives--
		r.penalize(collisionPenalty)
		if r.lives <= 0 {
			r.gameOver()
			return
		}
		r.crashTimer = CrashSeconds
		r.state = StateCrashing
		return
	}

	r.evaluateCheckpoint()

	if r.player.Z > r.track.Length {
		r.completeLevel()
	}
}

func (r *Race) tickCrashing(dt float64) {
	r.crashTimer -= dt
	if r.crashTimer <= 0 {
		r.crashTimer = 0
		r.state = StatePlaying
	}
}

// evaluateCheckpoint checks only the next unpassed gate; one gate per tick is
// plenty at any survivable speed.
func (r *Race) evaluateCheckpoint() {
	if r.nextCheckpoint >= len(r.track.Checkpoints) {
		return
	}
	cp := &r.track.Checkpoints[r.nextCheckpoint]
	if r.player.Z <= cp.Z {
		return
	}

	cp.Passed = true
	r.nextCheckpoint++
	r.grantTime(checkpointBonusSeconds)
	r.score += int(r.timeLeft) * checkpointScoreRate
}

// completeLevel advances to the next level: completion bonus scored from the
// remaining clock, world rebuilt for the new length and lane set, position
// and checkpoint progress reset, clock extended. Speed and lateral position
// carry over (clamped to the possibly narrower road).
func (r *Race) completeLevel() {
	r.score += int(r.timeLeft) * completionScoreRate
	r.level++

	speed, x := r.player.Speed, r.player.X
	r.rebuild()
	r.player.Speed = speed
	if x > r.player.LaneLimit {
		x = r.player.LaneLimit
	}
	if x < -r.player.LaneLimit {
		x = -r.player.LaneLimit
	}
	r.player.X = x

	r.grantTime(completionBonusSeconds)
}

// grantTime adds a bonus to the race clock, capped so banked time can't grow
// without bound.
func (r *Race) grantTime(bonus float64) {
	r.timeLeft += bonus
	if r.timeLeft > maxBankedSeconds {
		r.timeLeft = maxBankedSeconds
	}
}

func (r *Race) penalize(points int) {
	r.score -= points
	if r.score < 0 {
		r.score = 0
	}
}

// gameOver is the only terminal transition. The final score goes to the
// reporter exactly once per run, no matter how many ticks spend in GameOver.
func (r *Race) gameOver() {
	r.state = StateGameOver
	r.timeLeft = 0
	if r.reporter != nil && !r.reported {
		r.reporter.Report(r.score)
	}
	r.reported = true
}

// Accessors used by renderers and tests.

func (r *Race) State() State { return r.state }
func (r *Race) Level() int   { return r.level }
func (r *Race) Score() int   { return r.score }
func (r *Race) Lives() int   { return r.lives }
