package model

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/flotilla-ml/flotilla/pkg/optimizer"
	"github.com/flotilla-ml/flotilla/pkg/vector"
)

// Snapshot is a point-in-time copy of a model's parameters and optimizer
// state, distributed to every worker for one round. Workers never mutate a
// snapshot; Instantiate derives a private trainable copy from it.
type Snapshot struct {
	Topology Topology
	Params   vector.Vector
	State    optimizer.State
	LR       float64
}

func newSnapshot(topo Topology, params vector.Vector, state optimizer.State, lr float64) Snapshot {
	var st optimizer.State
	if state != nil {
		st = state.Clone()
	}

	return Snapshot{
		Topology: topo,
		Params:   params.Clone(),
		State:    st,
		LR:       lr,
	}
}

// Instantiate builds a fresh trainable seeded from the snapshot. Every call
// returns an independent copy, so concurrent workers never share state.
func (s Snapshot) Instantiate() (Trainable, error) {
	var st optimizer.State
	if s.State != nil {
		st = s.State.Clone()
	}
	m, err := New(s.Topology, s.LR, st)
	if err != nil {
		return nil, err
	}
	m.ApplyAverage(s.Params.Clone(), st, 0)

	return m, nil
}

// snapshotWire is the CBOR envelope. The optimizer state is an interface, so
// each known family gets its own optional slot.
type snapshotWire struct {
	Topology Topology            `cbor:"1,keyasint"`
	Params   vector.Vector       `cbor:"2,keyasint"`
	LR       float64             `cbor:"3,keyasint"`
	Momentum *optimizer.Momentum `cbor:"4,keyasint,omitempty"`
	Adam     *optimizer.Adam     `cbor:"5,keyasint,omitempty"`
}

func (s Snapshot) MarshalBinary() ([]byte, error) {
	w := snapshotWire{
		Topology: s.Topology,
		Params:   s.Params,
		LR:       s.LR,
	}
	switch st := s.State.(type) {
	case nil:
	case *optimizer.Momentum:
		w.Momentum = st
	case *optimizer.Adam:
		w.Adam = st
	default:
		return nil, fmt.Errorf("snapshot: %w", optimizer.ErrIncompatibleState)
	}

	return cbor.Marshal(w)
}

func (s *Snapshot) UnmarshalBinary(data []byte) error {
	var w snapshotWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	*s = Snapshot{
		Topology: w.Topology,
		Params:   w.Params,
		LR:       w.LR,
	}
	switch {
	case w.Momentum != nil:
		s.State = w.Momentum
	case w.Adam != nil:
		s.State = w.Adam
	}

	return nil
}
