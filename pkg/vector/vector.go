package vector

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

var ErrDimensionMismatch = errors.New("parameter vectors have different lengths")

// Vector is a dense view over a model's flattened parameters.
type Vector []float64

func Zeros(n int) Vector {
	return make(Vector, n)
}

func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)

	return out
}

// Add accumulates o into v element-wise.
func (v Vector) Add(o Vector) error {
	if len(v) != len(o) {
		return ErrDimensionMismatch
	}
	floats.Add(v, o)

	return nil
}

// Scale multiplies every element of v by c in place.
func (v Vector) Scale(c float64) {
	floats.Scale(c, v)
}

// Dot returns the inner product of v and o.
func (v Vector) Dot(o Vector) (float64, error) {
	if len(v) != len(o) {
		return 0, ErrDimensionMismatch
	}

	return floats.Dot(v, o), nil
}
