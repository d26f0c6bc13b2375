// Package position affine-maps a normalized (y, yDot) pair into the motor's
// absolute count range established by homing.
package position

import "math"

// Generator holds the bounds established by homing.
type Generator struct {
	PosMin, PosMax int32
}

// New returns a Generator for the given homed bounds.
func New(posMin, posMax int32) Generator {
	return Generator{PosMin: posMin, PosMax: posMax}
}

// Generate maps y in [0,1] to a position in [PosMin, PosMax], rounding to
// the nearest count, and scales yDot by the same span to get counts/second.
func (g Generator) Generate(y, yDot float64) (position int32, speed float64) {
	span := float64(g.PosMax - g.PosMin)
	position = int32(math.Round(y*span + float64(g.PosMin)))
	speed = yDot * span
	return position, speed
}
