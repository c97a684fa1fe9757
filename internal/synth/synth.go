// Package synth generates synthetic training data: every unit is an independent Gaussian.
package synth

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Source is the random source used for sampling. *math/rand.Rand satisfies it.
type Source interface {
	NormFloat64() float64
}

// Normal draws one sample of len(mu) units, unit i from N(mu[i], sigma[i]²).
func Normal(src Source, mu, sigma []float32) ([]float32, error) {
	if len(mu) != len(sigma) {
		return nil, errors.Errorf("%d means but %d standard deviations", len(mu), len(sigma))
	}
	retVal := make([]float32, len(mu))
	for i := range retVal {
		retVal[i] = mu[i] + sigma[i]*float32(src.NormFloat64())
	}
	return retVal, nil
}

// Arange returns 0, 1, ..., n-1.
func Arange(n int) []float32 {
	retVal := make([]float32, n)
	for i := range retVal {
		retVal[i] = float32(i)
	}
	return retVal
}

// Fill returns n copies of v.
func Fill(n int, v float32) []float32 {
	retVal := make([]float32, n)
	for i := range retVal {
		retVal[i] = v
	}
	return retVal
}

// Dataset stacks n samples from Normal into an n×len(mu) matrix.
func Dataset(src Source, n int, mu, sigma []float32) (*tensor.Dense, error) {
	if n < 1 {
		return nil, errors.Errorf("cannot generate %d samples", n)
	}
	backing := make([]float32, 0, n*len(mu))
	for i := 0; i < n; i++ {
		row, err := Normal(src, mu, sigma)
		if err != nil {
			return nil, err
		}
		backing = append(backing, row...)
	}
	return tensor.New(tensor.WithShape(n, len(mu)), tensor.WithBacking(backing)), nil
}
