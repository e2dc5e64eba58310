package optimizer

import "github.com/flotilla-ml/flotilla/pkg/vector"

// Momentum keeps a velocity vector for SGD with classical momentum.
type Momentum struct {
	Mu       float64       `json:"mu"       cbor:"1,keyasint"`
	Velocity vector.Vector `json:"velocity" cbor:"2,keyasint"`
}

func NewMomentum(mu float64, dim int) *Momentum {
	return &Momentum{
		Mu:       mu,
		Velocity: vector.Zeros(dim),
	}
}

func (m *Momentum) Merge(other State) (State, error) {
	o, ok := other.(*Momentum)
	if !ok {
		return nil, ErrIncompatibleState
	}
	if err := m.Velocity.Add(o.Velocity); err != nil {
		return nil, ErrIncompatibleState
	}

	return m, nil
}

func (m *Momentum) Average(n int) State {
	if n > 1 {
		m.Velocity.Scale(1 / float64(n))
	}

	return m
}

func (m *Momentum) Clone() State {
	return &Momentum{
		Mu:       m.Mu,
		Velocity: m.Velocity.Clone(),
	}
}
