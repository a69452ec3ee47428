package race

// Race tuning. All gameplay parameters outside the individual components are
// centralized here for easy adjustment.

// Tick handling
const (
	// MaxTickSeconds caps a single tick's dt so a stalled process (say, a
	// backgrounded terminal) doesn't lunge the simulation on resume.
	MaxTickSeconds = 0.1
)

// Lives and timers
const (
	InitialLives     = 3
	CountdownSeconds = 3.0
	CrashSeconds     = 1.2 // Non-interactive pause after a collision

	// Race clock: levels start with baseTimeSeconds plus a per-level
	// allowance for the longer track.
	baseTimeSeconds     = 45.0
	timePerLevelSeconds = 15.0

	// maxBankedSeconds caps how much time bonuses can accumulate.
	maxBankedSeconds = 90.0

	checkpointBonusSeconds = 8.0
	completionBonusSeconds = 20.0
)

// Scoring
const (
	checkpointScoreRate = 10 // Points per remaining second at a checkpoint
	completionScoreRate = 25 // Points per remaining second at level end
	collisionPenalty    = 200
	timeoutPenalty      = 150
)

// Traffic
const (
	TrafficCount = 8
)

// levelTime returns the fresh race clock for a level.
func levelTime(level int) float64 {
	return baseTimeSeconds + timePerLevelSeconds*float64(level-1)
}
