package optimizer

import "errors"

var ErrIncompatibleState = errors.New("optimizer states belong to different families or shapes")

// State is the per-parameter auxiliary history an optimizer keeps beyond the
// parameters themselves (momentum, moment estimates, ...). The training core
// never looks inside it: it only merges states from different workers and
// finalizes the merged aggregate once per round.
type State interface {
	// Merge folds another worker's state of the same family into the
	// receiver and returns the merged aggregate. Merge must be commutative
	// and associative in the value it represents.
	Merge(other State) (State, error)

	// Average finalizes an aggregate built from n merged states.
	Average(n int) State

	Clone() State
}
