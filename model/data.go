package model

import (
	"math/rand"

	"github.com/flotilla-ml/flotilla/pkg/vector"
)

// GenerateExamples produces n labeled examples from a random linear target
// with additive noise. Used by the daemon's synthetic passes and the CLI
// when no data source is configured.
func GenerateExamples(n, features int, noise float64, seed int64) []Example {
	rng := rand.New(rand.NewSource(seed))

	target := vector.Zeros(features)
	for i := range target {
		target[i] = rng.NormFloat64()
	}
	bias := rng.NormFloat64()

	out := make([]Example, n)
	for i := range out {
		x := vector.Zeros(features)
		label := bias
		for j := range x {
			x[j] = rng.NormFloat64()
			label += target[j] * x[j]
		}
		out[i] = Example{
			Features: x,
			Label:    label + noise*rng.NormFloat64(),
		}
	}

	return out
}
