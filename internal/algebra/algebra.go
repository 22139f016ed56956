// Package algebra provides the small vector-space arithmetic a damper needs
// from its value type.
//
// The damper engine is written once against [Algebra] and reused for every
// value type:
//
//   - [Scalar]: plain float64
//   - [Vec3Algebra]: 3D displacement
//   - [QuatAlgebra]: orientation treated as a flat 4-tuple
//   - [VectorAlgebra]: arbitrary-length state vectors
package algebra

// Algebra is add/subtract/scale/divide over T. Implementations must satisfy
// the vector-space laws; Div(a, s) equals Scale(a, 1/s) up to rounding.
type Algebra[T any] interface {
	Add(a, b T) T
	Sub(a, b T) T
	Scale(a T, s float64) T
	Div(a T, s float64) T
}

// Checker is implemented by algebras that can tell whether a value is free
// of NaN and Inf components.
type Checker[T any] interface {
	Finite(v T) bool
}

// Shaper is implemented by algebras whose values carry a runtime shape,
// such as a length. Operands of different shapes must not be combined.
type Shaper[T any] interface {
	SameShape(a, b T) bool
}

// Zero returns the additive identity shaped like v.
func Zero[T any](alg Algebra[T], v T) T {
	return alg.Scale(v, 0)
}
