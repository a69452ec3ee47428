// Package track generates the procedural road for one level: a sequence of
// curvature/elevation segments plus the checkpoints spread along it.
//
// Generation is a pure function of the level number and the tuning constants
// below. Calling Generate twice with the same level yields identical tracks,
// which is the one reproducibility contract renderers and tests rely on.
package track

import (
	"math"

	"github.com/mkarls/outrush/internal/physics"
)

// Track layout tuning. Distances are measured in segment units; the player's
// z coordinate lives in the same space.
const (
	// BaseLength is the segment count of level 1. Each level adds
	// LengthPerLevel more segments.
	BaseLength     = 400
	LengthPerLevel = 150

	// MaxCurvature bounds the signed per-segment curvature magnitude.
	MaxCurvature = 4.0

	// One corner/straight cycle: cornerLength segments of eased bend, a
	// short transition decaying back to baseline, then straightLength
	// segments of near-straight road.
	cornerLength     = 80
	transitionLength = 12
	straightLength   = 60

	// Straights are never exactly flat; a faint sinusoidal wobble keeps
	// them from reading as dead road.
	wobbleAmplitude = 0.15
	wobbleFrequency = 0.05

	// Elevation rolls independently of curvature.
	hillAmplitude = 20.0
	hillFrequency = 0.02

	// CheckpointInterval is the z distance between consecutive checkpoints.
	CheckpointInterval = 100.0
)

// Segment is one unit of road at a longitudinal index.
type Segment struct {
	Index      int
	Curvature  float64 // Signed bend; positive curves right.
	HillOffset float64 // Elevation offset for the horizon.
}

// Checkpoint is a timing gate at a fixed z position.
type Checkpoint struct {
	Z      float64
	Passed bool
}

// Track is the generated road for a single level. Segments are read-only
// after generation and may be shared freely with renderers.
type Track struct {
	Segments    []Segment
	Checkpoints []Checkpoint
	Length      float64 // Total z distance, == len(Segments).
}

// Length returns the segment count for a level.
func Length(level int) int {
	if level < 1 {
		level = 1
	}
	return BaseLength + LengthPerLevel*(level-1)
}

// Generate builds the track for a level. Deterministic and side-effect free.
func Generate(level int) *Track {
	n := Length(level)
	segments := make([]Segment, n)
	for i := range segments {
		segments[i] = Segment{
			Index:      i,
			Curvature:  curvatureAt(i),
			HillOffset: hillAmplitude * math.Sin(float64(i)*hillFrequency),
		}
	}

	length := float64(n)
	var checkpoints []Checkpoint
	for z := CheckpointInterval; z < length; z += CheckpointInterval {
		checkpoints = append(checkpoints, Checkpoint{Z: z})
	}

	return &Track{
		Segments:    segments,
		Checkpoints: checkpoints,
		Length:      length,
	}
}

// SegmentAt returns the segment under the given z, clamped to track bounds so
// callers never index past the end while finishing a level.
func (t *Track) SegmentAt(z float64) Segment {
	i := int(z)
	if i < 0 {
		i = 0
	}
	if i >= len(t.Segments) {
		i = len(t.Segments) - 1
	}
	return t.Segments[i]
}

// curvatureAt computes the signed curvature for a segment index.
//
// The index space repeats in cycles of corner + transition + straight. Within
// the corner the magnitude follows an eased S-curve up to MaxCurvature, with
// direction alternating by cycle parity. The transition decays linearly toward
// the straight baseline so steering never sees a discontinuity.
func curvatureAt(index int) float64 {
	const cycleLength = cornerLength + transitionLength + straightLength
	cycle := index / cycleLength
	pos := index % cycleLength

	dir := 1.0
	if cycle%2 == 1 {
		dir = -1.0
	}

	baseline := wobbleAmplitude * math.Sin(float64(index)*wobbleFrequency)

	switch {
	case pos < cornerLength:
		t := float64(pos) / float64(cornerLength)
		return dir * MaxCurvature * physics.EaseInOut(t)
	case pos < cornerLength+transitionLength:
		t := float64(pos-cornerLength) / float64(transitionLength)
		return physics.Lerp(dir*MaxCurvature, baseline, t)
	default:
		return baseline
	}
}
