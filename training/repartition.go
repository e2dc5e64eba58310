package training

import "fmt"

// Repartition controls whether a round's data is physically redistributed
// across the configured number of workers before dispatch. Uneven partition
// counts stall a round on the slowest worker, but repartitioning costs a
// shuffle, so the default is Never.
type Repartition int

const (
	Never Repartition = iota
	WhenPartitionCountDiffers
	Always
)

func (r Repartition) String() string {
	switch r {
	case Never:
		return "never"
	case WhenPartitionCountDiffers:
		return "when-partition-count-differs"
	case Always:
		return "always"
	default:
		return fmt.Sprintf("repartition(%d)", int(r))
	}
}

// ShouldRepartition reports whether data spread over the given number of
// partitions must be redistributed for the given worker count.
func (r Repartition) ShouldRepartition(partitions, workers int) (bool, error) {
	switch r {
	case Never:
		return false, nil
	case WhenPartitionCountDiffers:
		return partitions != workers, nil
	case Always:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %d", ErrUnknownRepartition, int(r))
	}
}
