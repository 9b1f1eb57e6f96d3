package statistics

import (
	"math"
	"math/rand"
	"sort"
)

// ConfidenceInterval is a percentile bootstrap interval around the mean of a
// set of report totals.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	Mean            float64 `json:"mean"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NumBootstraps   int     `json:"num_bootstraps"`
}

// DefaultBootstrapIterations is the number of bootstrap resamples.
const DefaultBootstrapIterations = 10000

// DefaultSeed keeps batch summaries reproducible between runs over the same dataset.
const DefaultSeed int64 = 42

// BootstrapCI computes a bootstrap confidence interval over the given totals
// using the percentile method and DefaultSeed. confidenceLevel should be in (0, 1).
// With fewer than 2 values the interval collapses onto the mean.
func BootstrapCI(totals []float64, confidenceLevel float64) ConfidenceInterval {
	return BootstrapCIWithSeed(totals, confidenceLevel, DefaultSeed)
}

// BootstrapCIWithSeed is like BootstrapCI with an explicit seed.
// A negative seed uses a non-deterministic source.
func BootstrapCIWithSeed(totals []float64, confidenceLevel float64, seed int64) ConfidenceInterval {
	n := len(totals)
	m := mean(totals)
	if n < 2 {
		return ConfidenceInterval{
			Lower:           m,
			Upper:           m,
			Mean:            m,
			ConfidenceLevel: confidenceLevel,
		}
	}

	if seed < 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	iters := DefaultBootstrapIterations
	resampled := make([]float64, iters)
	sample := make([]float64, n)
	for i := range iters {
		for j := range n {
			sample[j] = totals[rng.Intn(n)]
		}
		resampled[i] = mean(sample)
	}
	sort.Float64s(resampled)

	alpha := 1.0 - confidenceLevel
	loIdx := int(math.Floor(alpha / 2.0 * float64(iters)))
	hiIdx := min(int(math.Floor((1.0-alpha/2.0)*float64(iters))), iters-1)

	return ConfidenceInterval{
		Lower:           resampled[loIdx],
		Upper:           resampled[hiIdx],
		Mean:            m,
		ConfidenceLevel: confidenceLevel,
		NumBootstraps:   iters,
	}
}

// Contains reports whether v lies inside the interval.
func (ci ConfidenceInterval) Contains(v float64) bool {
	return v >= ci.Lower && v <= ci.Upper
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
