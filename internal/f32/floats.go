// Package f32 provides the float32 vector kernels shared by the distance
// package. This is an internal package - external users should go through
// the distance package.
package f32

import "github.com/chewxy/math32"

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

// SquaredL2 calculates the squared L2 distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var ret float32
	for i := range a {
		d := a[i] - b[i]
		ret += d * d
	}

	return ret
}

// Norm calculates the L2 norm (magnitude) of a vector.
func Norm(v []float32) float32 {
	return math32.Sqrt(Dot(v, v))
}

// Sqrt returns the float32 square root of x.
func Sqrt(x float32) float32 {
	return math32.Sqrt(x)
}

// ScaleInPlace multiplies all elements of a by scalar.
//
// This is primarily used by distance normalization.
func ScaleInPlace(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}
