package rbm

import (
	"fmt"
	"math"

	G "gorgonia.org/gorgonia"
)

// Config configures a factored three-way RBM.
type Config struct {
	V1, H, V2 int // unit group sizes
	Factors   int // number of shared factors

	BatchSize  int     // batch size
	K          int     // Gibbs sweeps per contrastive divergence step
	LearnRate  float64 // learning rate
	Persistent bool    // keep the negative phase chain across steps

	Var1, Var2 []float32 // fixed visible variances. nil means all ones
	Init       G.InitWFn // factor matrix initializer. nil means a truncated Gaussian
}

// DefaultConf returns a configuration for the given group sizes.
func DefaultConf(v1, h, v2 int) Config {
	return Config{
		V1:      v1,
		H:       h,
		V2:      v2,
		Factors: 10,

		BatchSize: 10,
		K:         1,
		LearnRate: 0.1,
	}
}

func (conf Config) IsValid() bool { return conf.Validate() == nil }

// Validate returns a DegenerateConfig error describing the first problem found.
func (conf Config) Validate() error {
	switch {
	case conf.V1 < 1 || conf.H < 1 || conf.V2 < 1:
		return degenerate("unit group sizes must be positive. Got v1 %d, h %d, v2 %d", conf.V1, conf.H, conf.V2)
	case conf.Factors < 1:
		return degenerate("factor count must be positive. Got %d", conf.Factors)
	case conf.BatchSize < 1:
		return degenerate("batch size must be positive. Got %d", conf.BatchSize)
	case conf.K < 1:
		return degenerate("chain length k must be at least 1. Got %d", conf.K)
	case !(conf.LearnRate > 0) || math.IsInf(conf.LearnRate, 1):
		return degenerate("learning rate must be positive and finite. Got %v", conf.LearnRate)
	}
	if err := validVariance("v1", conf.Var1, conf.V1); err != nil {
		return err
	}
	return validVariance("v2", conf.Var2, conf.V2)
}

// InitStdDev is the standard deviation of the default factor initializer.
func (conf Config) InitStdDev() float64 {
	return 1.0 / math.Sqrt(float64(conf.V1+conf.V2)/2)
}

func validVariance(name string, v []float32, size int) error {
	if v == nil {
		return nil
	}
	if len(v) != size {
		return degenerate("%s variance has %d entries, expected %d", name, len(v), size)
	}
	for i, x := range v {
		if !(x > 0) {
			return degenerate("%s variance %d must be positive. Got %v", name, i, x)
		}
	}
	return nil
}

func ones(n int) []float32 {
	retVal := make([]float32, n)
	for i := range retVal {
		retVal[i] = 1
	}
	return retVal
}

func (conf Config) String() string {
	return fmt.Sprintf("v1 %d, h %d, v2 %d, F %d, batch %d, k %d, lr %v, persistent %t",
		conf.V1, conf.H, conf.V2, conf.Factors, conf.BatchSize, conf.K, conf.LearnRate, conf.Persistent)
}
