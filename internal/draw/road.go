package draw

import (
	"math"

	"github.com/mkarls/outrush/internal/race"
	"github.com/mkarls/outrush/internal/track"
	"github.com/mkarls/outrush/internal/vehicle"
)

// Pseudo-3D projection tuning. None of this is real projection: each screen
// row maps to a depth along the track, and widths/offsets shrink toward the
// horizon to fake perspective.
const (
	// viewDepth is how far ahead of the player the road is drawn, in z
	// units.
	viewDepth = 60.0

	// horizonFraction places the horizon this far down the screen before
	// hills shift it.
	horizonFraction = 0.35

	// hillRowScale converts a segment's hill offset into horizon rows.
	hillRowScale = 0.15

	// curveColScale converts accumulated curvature at depth into a column
	// shift of the road center.
	curveColScale = 0.010

	// roadWidthFraction is the road's half-width at the bottom row as a
	// fraction of the screen width.
	roadWidthFraction = 0.42

	// carColumns is a traffic car's full sprite width at zero depth.
	carColumns = 10.0
)

// Scene glyphs.
const (
	edgeRune       = '█'
	laneMarkRune   = '·'
	checkpointRune = '═'
	carRune        = '▓'
	carHitRune     = '░'
	playerRune     = '█'
	horizonRune    = '─'
)

// RoadView renders race snapshots into a Frame.
type RoadView struct{}

// Render paints one snapshot. The frame is cleared first; overlays (HUD,
// menus) are written on top by the caller.
func (RoadView) Render(f *Frame, snap race.Snapshot) {
	f.Clear()

	w, h := f.Width(), f.Height()
	if w < 10 || h < 6 {
		return
	}

	horizon := horizonRow(f, snap)
	bottom := h - 1
	if horizon >= bottom {
		horizon = bottom - 1
	}

	f.HSpan(0, w-1, horizon, horizonRune)

	maxHalf := float64(w) * roadWidthFraction
	denom := float64(bottom - horizon)

	for row := horizon + 1; row <= bottom; row++ {
		t := float64(row-horizon) / denom // 0 at horizon, 1 at bottom
		depth := viewDepth * (1 - t) * (1 - t)

		center := roadCenter(w, snap, t, depth)
		half := maxHalf * t
		if half < 1 {
			half = 1
		}

		left := int(center - half)
		right := int(center + half)
		f.Set(left, row, edgeRune)
		f.Set(right, row, edgeRune)

		// Dashed lane boundaries, keyed to track distance so the
		// dashes scroll with motion.
		if int(snap.Player.Z+depth)%3 != 0 {
			for _, lb := range laneBoundaries(snap.Level) {
				f.Set(int(center+lb*half), row, laneMarkRune)
			}
		}
	}

	drawCheckpoints(f, snap, horizon, bottom, maxHalf)
	drawTraffic(f, snap, horizon, bottom, maxHalf)
	drawPlayer(f, snap, bottom)
}

// horizonRow computes the horizon row, bobbed by the hill under the player.
func horizonRow(f *Frame, snap race.Snapshot) int {
	h := f.Height()
	horizon := int(float64(h) * horizonFraction)
	seg := segmentAt(snap, snap.Player.Z)
	horizon -= int(seg.HillOffset * hillRowScale)
	if horizon < 1 {
		horizon = 1
	}
	if horizon > h-3 {
		horizon = h - 3
	}
	return horizon
}

// roadCenter returns the road center column for a row: screen middle, shifted
// by curvature at depth and countered by the player's lateral position so the
// player's car stays put while the road slides under it.
func roadCenter(w int, snap race.Snapshot, t, depth float64) float64 {
	seg := segmentAt(snap, snap.Player.Z+depth)
	curveShift := seg.Curvature * depth * depth * curveColScale
	playerShift := snap.Player.X / vehicle.RoadHalfWidth * float64(w) * roadWidthFraction
	return float64(w)/2 + curveShift - playerShift*t
}

// laneBoundaries returns lane divider offsets as fractions of the road
// half-width.
func laneBoundaries(level int) []float64 {
	if level >= vehicle.TwoLaneLevel {
		return []float64{0}
	}
	return []float64{-0.33, 0.33}
}

// rowForDepth inverts the row->depth mapping for sprite placement.
func rowForDepth(depth float64, horizon, bottom int) (row int, t float64) {
	t = 1 - math.Sqrt(depth/viewDepth)
	row = horizon + int(t*float64(bottom-horizon))
	return row, t
}

func drawCheckpoints(f *Frame, snap race.Snapshot, horizon, bottom int, maxHalf float64) {
	w := f.Width()
	for _, cp := range snap.Checkpoints {
		rel := cp.Z - snap.Player.Z
		if cp.Passed || rel <= 0 || rel >= viewDepth {
			continue
		}
		row, t := rowForDepth(rel, horizon, bottom)
		depth := rel
		center := roadCenter(w, snap, t, depth)
		half := maxHalf * t
		f.HSpan(int(center-half), int(center+half), row, checkpointRune)
	}
}

func drawTraffic(f *Frame, snap race.Snapshot, horizon, bottom int, maxHalf float64) {
	w := f.Width()
	for _, car := range snap.Traffic {
		rel := car.Z - snap.Player.Z
		if rel <= 0 || rel >= viewDepth {
			continue
		}
		row, t := rowForDepth(rel, horizon, bottom)
		center := roadCenter(w, snap, t, rel)
		col := center + car.X/vehicle.RoadHalfWidth*maxHalf*t

		half := int(carColumns * t / 2)
		if half < 1 {
			half = 1
		}
		glyph := carRune
		if car.Colliding {
			glyph = carHitRune
		}
		f.HSpan(int(col)-half, int(col)+half, row, glyph)
		if t > 0.6 && row-1 > horizon {
			// Near cars get a second row of sprite.
			f.HSpan(int(col)-half+1, int(col)+half-1, row-1, glyph)
		}
	}
}

func drawPlayer(f *Frame, snap race.Snapshot, bottom int) {
	mid := f.Width() / 2
	f.HSpan(mid-4, mid+4, bottom-1, playerRune)
	f.HSpan(mid-2, mid+2, bottom-2, playerRune)
}

// segmentAt is a bounds-safe segment lookup on the snapshot's shared segment
// slice.
func segmentAt(snap race.Snapshot, z float64) track.Segment {
	if len(snap.Segments) == 0 {
		return track.Segment{}
	}
	i := int(z)
	if i < 0 {
		i = 0
	}
	if i >= len(snap.Segments) {
		i = len(snap.Segments) - 1
	}
	return snap.Segments[i]
}
