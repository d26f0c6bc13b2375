package mathx

import "golang.org/x/exp/constraints"

// Map maps x in [inMin,inMax] to [outMin,outMax]. Does not clamp the input;
// callers that need a saturating map should Clamp x first.
func Map[T constraints.Float](x, inMin, inMax, outMin, outMax T) T {
	if inMax == inMin {
		return outMin
	}
	return outMin + (x-inMin)*(outMax-outMin)/(inMax-inMin)
}
