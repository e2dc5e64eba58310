package model

import (
	"fmt"
	"math"

	"github.com/flotilla-ml/flotilla/pkg/optimizer"
	"github.com/flotilla-ml/flotilla/pkg/vector"
)

// gradient computes the mean-squared-error loss of the batch and its
// gradient with respect to the flattened parameters (weights then bias).
// predict maps one example's features to a prediction under the current
// parameters.
func gradient(params vector.Vector, batch []Example, predict func(Example) float64) (vector.Vector, float64, error) {
	grad := vector.Zeros(len(params))
	loss := 0.0
	for _, ex := range batch {
		if len(ex.Features) != len(params)-1 {
			return nil, 0, fmt.Errorf("%w: got %d features, want %d", ErrBadExample, len(ex.Features), len(params)-1)
		}
		diff := predict(ex) - ex.Label
		loss += diff * diff
		for i, x := range ex.Features {
			grad[i] += 2 * diff * x
		}
		grad[len(grad)-1] += 2 * diff
	}
	n := float64(len(batch))
	grad.Scale(1 / n)

	return grad, loss / n, nil
}

// step applies one optimizer update to params in place. A nil state means
// plain SGD.
func step(params, grad vector.Vector, lr float64, state optimizer.State) error {
	switch s := state.(type) {
	case nil:
		for i := range params {
			params[i] -= lr * grad[i]
		}
	case *optimizer.Momentum:
		if len(s.Velocity) != len(params) {
			return optimizer.ErrIncompatibleState
		}
		for i := range params {
			s.Velocity[i] = s.Mu*s.Velocity[i] - lr*grad[i]
			params[i] += s.Velocity[i]
		}
	case *optimizer.Adam:
		if len(s.M) != len(params) || len(s.V) != len(params) {
			return optimizer.ErrIncompatibleState
		}
		s.Step++
		c1 := 1 - math.Pow(s.Beta1, float64(s.Step))
		c2 := 1 - math.Pow(s.Beta2, float64(s.Step))
		for i := range params {
			s.M[i] = s.Beta1*s.M[i] + (1-s.Beta1)*grad[i]
			s.V[i] = s.Beta2*s.V[i] + (1-s.Beta2)*grad[i]*grad[i]
			params[i] -= lr * (s.M[i] / c1) / (math.Sqrt(s.V[i]/c2) + s.Epsilon)
		}
	default:
		return optimizer.ErrIncompatibleState
	}

	return nil
}
