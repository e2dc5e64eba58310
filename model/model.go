// Package model defines the capability the training master and its workers
// need from a model: produce an immutable snapshot for distribution, run a
// local optimization step on a private copy, and accept the averaged update
// once per round. Two topologies implement it, a layer-stack Network and a
// vertex Graph; the orchestration path is the same for both.
package model

import (
	"errors"
	"fmt"

	"github.com/flotilla-ml/flotilla/pkg/optimizer"
	"github.com/flotilla-ml/flotilla/pkg/vector"
)

var (
	ErrUnknownTopology = errors.New("unknown model topology kind")
	ErrBadExample      = errors.New("example feature length does not match model input")
)

// Example is one labeled training record.
type Example struct {
	Features vector.Vector `json:"features" cbor:"1,keyasint"`
	Label    float64       `json:"label"    cbor:"2,keyasint"`
}

// Kind distinguishes the supported model topologies.
type Kind string

const (
	KindNetwork Kind = "network"
	KindGraph   Kind = "graph"
)

// Topology describes a model's shape: layer widths for networks, vertex
// widths for graphs. It travels inside every snapshot so a worker can build
// its private trainable copy without any out-of-band coordination.
type Topology struct {
	Kind  Kind  `json:"kind"  cbor:"1,keyasint"`
	Units []int `json:"units" cbor:"2,keyasint"`
}

func (t Topology) inputs() int {
	n := 0
	for _, u := range t.Units {
		n += u
	}

	return n
}

// ParameterCount is the length of the flattened parameter vector.
func (t Topology) ParameterCount() int {
	return t.inputs() + 1
}

// Trainable is a model the master can orchestrate. The master reads a
// snapshot at every round boundary and writes back exactly once per round
// via ApplyAverage; workers only ever touch private copies built from
// snapshots.
type Trainable interface {
	Topology() Topology
	Params() vector.Vector
	OptimizerState() optimizer.State
	Score() float64

	// Snapshot returns an immutable copy of parameters and optimizer state
	// suitable for broadcast.
	Snapshot() Snapshot

	// FitBatch runs one local optimization step over the batch and returns
	// the batch loss.
	FitBatch(batch []Example) (float64, error)

	// ApplyAverage installs the round's averaged parameters, optimizer state
	// (nil resets it) and score.
	ApplyAverage(params vector.Vector, state optimizer.State, score float64)
}

// New builds a fresh trainable for the given topology.
func New(t Topology, lr float64, state optimizer.State) (Trainable, error) {
	switch t.Kind {
	case KindNetwork:
		return NewNetwork(t.Units, lr, state), nil
	case KindGraph:
		return NewGraph(t.Units, lr, state), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTopology, t.Kind)
	}
}
