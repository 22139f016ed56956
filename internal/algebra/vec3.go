package algebra

import "math"

// Vec3 is a 3D displacement.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Vec3Algebra adapts the Vec3 methods to Algebra.
type Vec3Algebra struct{}

func (Vec3Algebra) Add(a, b Vec3) Vec3           { return a.Add(b) }
func (Vec3Algebra) Sub(a, b Vec3) Vec3           { return a.Sub(b) }
func (Vec3Algebra) Scale(a Vec3, s float64) Vec3 { return a.Scale(s) }

func (Vec3Algebra) Div(a Vec3, s float64) Vec3 {
	return Vec3{a.X / s, a.Y / s, a.Z / s}
}

func (Vec3Algebra) Finite(v Vec3) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
