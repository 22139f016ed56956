package algebra

import "math"

// Quat is an orientation stored as four raw components. Filtering treats it
// as a flat 4-tuple, so results are generally not unit length; callers that
// need a rotation must call Normalize themselves.
type Quat struct {
	X, Y, Z, W float64
}

// Identity is the unit quaternion with no rotation.
var Identity = Quat{W: 1}

func (q Quat) Norm() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns q scaled to unit length. The zero tuple maps to Identity.
func (q Quat) Normalize() Quat {
	n := q.Norm()
	if n < 1e-12 {
		return Identity
	}
	return Quat{q.X / n, q.Y / n, q.Z / n, q.W / n}
}

// QuatAlgebra is componentwise arithmetic on Quat with no renormalization.
type QuatAlgebra struct{}

func (QuatAlgebra) Add(a, b Quat) Quat {
	return Quat{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W}
}

func (QuatAlgebra) Sub(a, b Quat) Quat {
	return Quat{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W}
}

func (QuatAlgebra) Scale(a Quat, s float64) Quat {
	return Quat{a.X * s, a.Y * s, a.Z * s, a.W * s}
}

func (QuatAlgebra) Div(a Quat, s float64) Quat {
	return Quat{a.X / s, a.Y / s, a.Z / s, a.W / s}
}

func (QuatAlgebra) Finite(q Quat) bool {
	return finite(q.X) && finite(q.Y) && finite(q.Z) && finite(q.W)
}
