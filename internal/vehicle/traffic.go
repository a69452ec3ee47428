package vehicle

import (
	"math/rand"

	"github.com/mkarls/outrush/internal/physics"
)

// Traffic tuning.
const (
	// PaceWeight scales the player's speed into each traffic car's own
	// advance; combined with a negative SpeedDelta the fleet is always a
	// little slower than a flat-out player, which is what sells the
	// overtaking.
	PaceWeight = 0.92

	// MinSpacing is the closest two cars may spawn to each other, in z.
	MinSpacing = 25.0

	// BehindThreshold is how far a car may fall behind the player before
	// it is recycled ahead.
	BehindThreshold = 30.0

	// placementRetries bounds the rejection sampling for spawn positions
	// before the deterministic even-spacing fallback kicks in.
	placementRetries = 16

	// Spawn window ahead of the player when a car is recycled.
	respawnAheadMin   = 40.0
	respawnAheadRange = 60.0

	// spawnLead keeps the start line clear: no car spawns closer than this
	// to z = 0 at level start.
	spawnLead = 30.0

	// laneJitter offsets a car from its lane center at spawn, as a
	// fraction of the lane half-gap, so the fleet doesn't look gridded.
	laneJitter = 60.0

	// laneKeepRate is the per-second fraction of the remaining offset a
	// car closes toward its lane center.
	laneKeepRate = 2.0

	// Speed delta range (raw speed units, always net-slower).
	speedDeltaMin = -40.0
	speedDeltaMax = -15.0
)

// Car is one autonomous traffic vehicle. Cars are recycled via respawn, never
// destroyed, so the fleet size is invariant across a level.
type Car struct {
	Z          float64 // Track position, same space as Player.Z
	X          float64 // Lateral offset
	Lane       float64 // Assigned lane center, drifted toward each tick
	SpeedDelta float64 // Negative offset from the player's weighted pace
	Colliding  bool    // Set by the collision system
	Cooldown   float64 // Seconds until Colliding may clear
}

// Fleet is the fixed-size pool of traffic cars for one level.
type Fleet struct {
	Cars []Car

	trackLength float64
	lanes       []float64
	rng         *rand.Rand
}

// NewFleet places count cars along the track for a level. Placement rejects
// candidates within MinSpacing of already-placed cars for a bounded number of
// retries, then falls back to even spacing; either way no two cars start
// closer than MinSpacing.
func NewFleet(count, level int, trackLength float64, rng *rand.Rand) *Fleet {
	f := &Fleet{
		Cars:        make([]Car, count),
		trackLength: trackLength,
		lanes:       LaneCenters(level),
		rng:         rng,
	}

	span := trackLength - spawnLead
	if span < 0 {
		span = 0
	}
	for i := range f.Cars {
		z, ok := f.sampleZ(i, span)
		if !ok {
			// Rejection sampling exhausted its retries: re-place the
			// whole fleet evenly so the spacing invariant still holds.
			for j := range f.Cars {
				f.Cars[j].Z = spawnLead + span*float64(j)/float64(count)
			}
			break
		}
		f.Cars[i].Z = z
	}
	for i := range f.Cars {
		f.assignLane(&f.Cars[i])
		f.Cars[i].SpeedDelta = f.randomDelta()
	}
	return f
}

// sampleZ draws a spawn z clear of the first placed cars, or reports failure
// after the retry budget.
func (f *Fleet) sampleZ(placed int, span float64) (float64, bool) {
	for try := 0; try < placementRetries; try++ {
		z := spawnLead + f.rng.Float64()*span
		clear := true
		for j := 0; j < placed; j++ {
			d := z - f.Cars[j].Z
			if d < 0 {
				d = -d
			}
			if d < MinSpacing {
				clear = false
				break
			}
		}
		if clear {
			return z, true
		}
	}
	return 0, false
}

func (f *Fleet) assignLane(c *Car) {
	c.Lane = f.lanes[f.rng.Intn(len(f.lanes))]
	c.X = c.Lane + (f.rng.Float64()*2-1)*laneJitter
}

func (f *Fleet) randomDelta() float64 {
	return speedDeltaMin + f.rng.Float64()*(speedDeltaMax-speedDeltaMin)
}

// Update advances every car one tick relative to the player. The pool is
// mutated in place; cars that fall too far behind or run off the far end are
// recycled ahead of the player with fresh lane and pace and cleared flags.
func (f *Fleet) Update(player *Player, dt float64) {
	if dt <= 0 {
		return
	}
	for i := range f.Cars {
		c := &f.Cars[i]

		c.Z += (player.Speed*PaceWeight + c.SpeedDelta) * dt * ForwardScale

		// Gentle drift toward the assigned lane center.
		c.X = physics.Approach(c.X, c.Lane, laneKeepRate*dt)

		if c.Z < player.Z-BehindThreshold || c.Z > f.trackLength {
			f.respawn(c, player)
		}
	}
}

// respawn recycles a car ahead of the player, preserving its identity in the
// pool but clearing collision state.
func (f *Fleet) respawn(c *Car, player *Player) {
	c.Z = player.Z + respawnAheadMin + f.rng.Float64()*respawnAheadRange
	f.assignLane(c)
	c.SpeedDelta = f.randomDelta()
	c.Colliding = false
	c.Cooldown = 0
}
