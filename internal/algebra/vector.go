package algebra

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Vector is an arbitrary-length state vector. Operations never alias their
// inputs; every result is a fresh slice.
type Vector []float64

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

// VectorAlgebra runs componentwise arithmetic through the vecmath block
// kernels. Add and Sub panic on operands of different lengths; callers that
// accept untrusted input check SameShape first.
type VectorAlgebra struct{}

func (VectorAlgebra) Add(a, b Vector) Vector {
	mustMatch("Add", a, b)
	out := make(Vector, len(a))
	copy(out, a)
	vecmath.AddBlockInPlace(out, b)
	return out
}

func (VectorAlgebra) Sub(a, b Vector) Vector {
	mustMatch("Sub", a, b)
	out := make(Vector, len(a))
	vecmath.ScaleBlock(out, b, -1)
	vecmath.AddBlockInPlace(out, a)
	return out
}

func (VectorAlgebra) SameShape(a, b Vector) bool { return len(a) == len(b) }

func (VectorAlgebra) Scale(a Vector, s float64) Vector {
	out := make(Vector, len(a))
	vecmath.ScaleBlock(out, a, s)
	return out
}

func (VectorAlgebra) Div(a Vector, s float64) Vector {
	out := make(Vector, len(a))
	for i, x := range a {
		out[i] = x / s
	}
	return out
}

func (VectorAlgebra) Finite(v Vector) bool {
	for _, x := range v {
		if !finite(x) {
			return false
		}
	}
	return true
}

func mustMatch(op string, a, b Vector) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("algebra: Vector.%s length mismatch: %d != %d", op, len(a), len(b)))
	}
}
