package algebra

import "math"

type Scalar struct{}

func (Scalar) Add(a, b float64) float64           { return a + b }
func (Scalar) Sub(a, b float64) float64           { return a - b }
func (Scalar) Scale(a float64, s float64) float64 { return a * s }
func (Scalar) Div(a float64, s float64) float64   { return a / s }

func (Scalar) Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
