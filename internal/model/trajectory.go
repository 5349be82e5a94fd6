// Package model defines the core trajectory data types.
package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// DefaultPrecision is the number of decimal digits kept per component.
const DefaultPrecision = 3

// ErrInvalidTime is returned for a negative or non-finite total time.
var ErrInvalidTime = errors.New("invalid total time")

// Vec3 is a position or scale triple.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quat is an orientation. It is stored as captured and never renormalized.
type Quat struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Sample is one tick's spatial state.
type Sample struct {
	Position Vec3 `json:"position"`
	Rotation Quat `json:"rotation"`
	Scale    Vec3 `json:"scale"`
}

// Trajectory is one completed capture. Sample index is the only time
// reference; no per-sample timestamp is kept.
type Trajectory struct {
	ID        string   `json:"id"`
	TotalTime float64  `json:"time"`
	Samples   []Sample `json:"samples"`
}

// Validate checks the total time. ID checks belong to the codec, which owns
// the reserved characters.
func (t Trajectory) Validate() error {
	if math.IsNaN(t.TotalTime) || math.IsInf(t.TotalTime, 0) || t.TotalTime < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTime, t.TotalTime)
	}
	return nil
}

// Len returns the number of samples.
func (t Trajectory) Len() int {
	return len(t.Samples)
}

// Round rounds v to the given number of decimal digits, half to even on the
// exact binary value. Round(1.23456, 3) == 1.235, Round(0.0625, 3) == 0.062.
func Round(v float64, digits int) float64 {
	if digits < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', digits, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// RoundVec3 rounds every component of v.
func RoundVec3(v Vec3, digits int) Vec3 {
	return Vec3{X: Round(v.X, digits), Y: Round(v.Y, digits), Z: Round(v.Z, digits)}
}

// RoundQuat rounds every component of q.
func RoundQuat(q Quat, digits int) Quat {
	return Quat{
		X: Round(q.X, digits),
		Y: Round(q.Y, digits),
		Z: Round(q.Z, digits),
		W: Round(q.W, digits),
	}
}
