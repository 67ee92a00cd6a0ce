package math

import (
	"errors"
	"math"
)

// ErrDivideByZero is returned by Perpendicular when both points share the
// same Y coordinate, which leaves the in-plane slope undefined.
var ErrDivideByZero = errors.New("division by zero: points share the same Y coordinate")

// DistanceYZ returns the Euclidean distance between p1 and p2 measured in the
// Y-Z plane. The depth axis (X) is ignored.
func DistanceYZ(p1, p2 Vec3) float64 {
	return p1.YZ().Distance(p2.YZ())
}

// Perpendicular returns a vector in the X-Y plane (Z = 0) that is
// perpendicular to the X-Y projection of the segment p1-p2 and whose length
// equals DistanceYZ(p1, p2). The X component is always non-negative.
func Perpendicular(p1, p2 Vec3) (Vec3, error) {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	if dy == 0 {
		return Vec3{}, ErrDivideByZero
	}
	t := -dx / dy
	s := DistanceYZ(p1, p2) / math.Sqrt(t*t+1)
	return Vec3{s, s * t, 0}, nil
}

// Displacement returns Perpendicular(p1, p2) scaled by rate. A positive rate
// pushes along +X, a negative one pulls along -X.
func Displacement(p1, p2 Vec3, rate float64) (Vec3, error) {
	v, err := Perpendicular(p1, p2)
	if err != nil {
		return Vec3{}, err
	}
	return v.Scale(rate), nil
}
