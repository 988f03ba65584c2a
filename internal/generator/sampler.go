package generator

import (
	"math"
	"math/rand"
)

// Small distribution samplers over the shared rng. Enough fidelity for
// synthetic traffic shaping; not a statistics library.

// poisson draws from Poisson(lambda) using Knuth's method
func poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}

	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}

// binomial draws from Binomial(n, p)
func binomial(rng *rand.Rand, n int, p float64) int {
	count := 0
	for i := 0; i < n; i++ {
		if rng.Float64() < p {
			count++
		}
	}
	return count
}

// gamma draws from Gamma(shape, 1) via Marsaglia-Tsang, with the
// standard boost for shape < 1
func gamma(rng *rand.Rand, shape float64) float64 {
	if shape < 1 {
		return gamma(rng, shape+1) * math.Pow(rng.Float64(), 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// beta draws from Beta(a, b)
func beta(rng *rand.Rand, a, b float64) float64 {
	x := gamma(rng, a)
	y := gamma(rng, b)
	return x / (x + y)
}

// logNormal draws from LogNormal(mu, sigma)
func logNormal(rng *rand.Rand, mu, sigma float64) float64 {
	return math.Exp(mu + sigma*rng.NormFloat64())
}

// softmaxDecay returns day-join probabilities decaying over the span,
// so most users join early
func softmaxDecay(days int, scale float64) []float64 {
	probs := make([]float64, days)
	var sum float64
	for d := 0; d < days; d++ {
		probs[d] = math.Exp(-float64(d) / scale)
		sum += probs[d]
	}
	for d := range probs {
		probs[d] /= sum
	}
	return probs
}

// pickWeighted draws an index according to the given probabilities
func pickWeighted(rng *rand.Rand, probs []float64) int {
	r := rng.Float64()
	var acc float64
	for i, p := range probs {
		acc += p
		if r < acc {
			return i
		}
	}
	return len(probs) - 1
}
