package rbm

import (
	"math/rand"
	"testing"

	"gorgonia.org/tensor"
)

func testConf(v1, h, v2, factors, batch int) Config {
	conf := DefaultConf(v1, h, v2)
	conf.Factors = factors
	conf.BatchSize = batch
	conf.LearnRate = 0.01
	return conf
}

func newTestParams(t *testing.T, conf Config, seed int64) *Params {
	p, err := NewParams(conf, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	return p
}

// randomBatch returns a rows×cols matrix of draws from N(0, 1).
func randomBatch(r *rand.Rand, rows, cols int) *tensor.Dense {
	backing := make([]float32, rows*cols)
	for i := range backing {
		backing[i] = float32(r.NormFloat64())
	}
	return tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(backing))
}

func matrix(rows, cols int, backing ...float32) *tensor.Dense {
	return tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(backing))
}

func setData(t *tensor.Dense, vals ...float32) { copy(t.Data().([]float32), vals) }
