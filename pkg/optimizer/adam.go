package optimizer

import "github.com/flotilla-ml/flotilla/pkg/vector"

// Adam keeps first and second moment estimates plus the step count used for
// bias correction.
type Adam struct {
	Beta1   float64       `json:"beta1"   cbor:"1,keyasint"`
	Beta2   float64       `json:"beta2"   cbor:"2,keyasint"`
	Epsilon float64       `json:"epsilon" cbor:"3,keyasint"`
	M       vector.Vector `json:"m"       cbor:"4,keyasint"`
	V       vector.Vector `json:"v"       cbor:"5,keyasint"`
	Step    int           `json:"step"    cbor:"6,keyasint"`
}

func NewAdam(beta1, beta2, epsilon float64, dim int) *Adam {
	return &Adam{
		Beta1:   beta1,
		Beta2:   beta2,
		Epsilon: epsilon,
		M:       vector.Zeros(dim),
		V:       vector.Zeros(dim),
	}
}

func (a *Adam) Merge(other State) (State, error) {
	o, ok := other.(*Adam)
	if !ok {
		return nil, ErrIncompatibleState
	}
	if err := a.M.Add(o.M); err != nil {
		return nil, ErrIncompatibleState
	}
	if err := a.V.Add(o.V); err != nil {
		return nil, ErrIncompatibleState
	}
	// Bias correction needs a single step count. Workers of one round share
	// the same schedule, so the largest observed count wins.
	if o.Step > a.Step {
		a.Step = o.Step
	}

	return a, nil
}

func (a *Adam) Average(n int) State {
	if n > 1 {
		a.M.Scale(1 / float64(n))
		a.V.Scale(1 / float64(n))
	}

	return a
}

func (a *Adam) Clone() State {
	return &Adam{
		Beta1:   a.Beta1,
		Beta2:   a.Beta2,
		Epsilon: a.Epsilon,
		M:       a.M.Clone(),
		V:       a.V.Clone(),
		Step:    a.Step,
	}
}
