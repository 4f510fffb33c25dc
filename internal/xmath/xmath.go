// Package xmath holds the small generic numeric helpers used
// throughout the motion pipeline: clamping and range mapping.
package xmath

import "golang.org/x/exp/constraints"

// Constrain clamps value to [lo, hi].
func Constrain[T constraints.Ordered](value, lo, hi T) T {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// MapRange linearly maps value from [fromMin, fromMax] to [toMin, toMax].
func MapRange[T constraints.Float](value, fromMin, fromMax, toMin, toMax T) T {
	return (value-fromMin)/(fromMax-fromMin)*(toMax-toMin) + toMin
}
