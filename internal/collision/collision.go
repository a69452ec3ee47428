// Package collision detects player/traffic overlap with a lateral tolerance
// that narrows with distance, approximating a perspective silhouette without
// doing any projection.
package collision

import (
	"math"

	"github.com/mkarls/outrush/internal/physics"
	"github.com/mkarls/outrush/internal/vehicle"
)

const (
	// ZThreshold is how far ahead of the player (in z units) a traffic car
	// can be and still collide.
	ZThreshold = 20.0

	// Half-widths of a vehicle silhouette at relative z 0 (near) and at
	// ZThreshold (far). The effective lateral tolerance for a pair is the
	// sum of both vehicles' interpolated half-widths.
	nearHalfWidth = 220.0
	farHalfWidth  = 60.0

	// cooldownSeconds is how long a hit car keeps its colliding flag once
	// it is clear of the player again.
	cooldownSeconds = 1.0
)

// halfWidthAt interpolates a vehicle's half-width for a normalized depth
// t = relativeZ / ZThreshold.
func halfWidthAt(t float64) float64 {
	return physics.Lerp(nearHalfWidth, farHalfWidth, t)
}

// Check scans the fleet for a new overlap with the player and returns the
// first newly colliding car, or nil. At most one collision is reported per
// call, and a car that is already flagged never re-registers; its cooldown
// instead ticks down by dt while it stays clear of the player, and the flag
// drops once the cooldown expires.
func Check(player *vehicle.Player, cars []vehicle.Car, dt float64) *vehicle.Car {
	var hit *vehicle.Car

	for i := range cars {
		c := &cars[i]

		relZ := c.Z - player.Z
		if relZ <= 0 || relZ >= ZThreshold {
			coolDown(c, dt)
			continue
		}

		t := relZ / ZThreshold
		tolerance := halfWidthAt(t) * 2 // Player and car share one silhouette profile.

		overlapping := math.Abs(c.X-player.X) < tolerance

		switch {
		case overlapping && !c.Colliding && hit == nil:
			c.Colliding = true
			c.Cooldown = cooldownSeconds
			hit = c
		case !overlapping:
			coolDown(c, dt)
		}
	}

	return hit
}

// coolDown ticks a flagged car toward clearing. Re-detecting the same
// approach is prevented by the flag staying up until the cooldown expires.
func coolDown(c *vehicle.Car, dt float64) {
	if !c.Colliding {
		return
	}
	c.Cooldown -= dt
	if c.Cooldown <= 0 {
		c.Cooldown = 0
		c.Colliding = false
	}
}
