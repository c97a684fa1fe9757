package synth

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestArangeFill(t *testing.T) {
	assert.Equal(t, []float32{0, 1, 2, 3}, Arange(4))
	assert.Equal(t, []float32{2, 2, 2}, Fill(3, 2))
	assert.Empty(t, Arange(0))
}

func TestNormal(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	_, err := Normal(r, Arange(3), Fill(2, 1))
	assert.Error(t, err)

	v, err := Normal(r, []float32{5, -5}, []float32{0, 0})
	require.NoError(t, err)
	assert.Equal(t, []float32{5, -5}, v, "zero spread returns the means")
}

func TestDataset(t *testing.T) {
	const n = 5000
	mu := Arange(4)
	r := rand.New(rand.NewSource(1337))
	data, err := Dataset(r, n, mu, Fill(4, 1))
	require.NoError(t, err)
	assert.True(t, tensor.Shape{n, 4}.Eq(data.Shape()))

	backing := data.Data().([]float32)
	for j := range mu {
		var sum, sq float64
		for i := 0; i < n; i++ {
			v := float64(backing[i*4+j])
			sum += v
			sq += v * v
		}
		mean := sum / n
		variance := sq/n - mean*mean
		assert.InDelta(t, float64(mu[j]), mean, 0.1, "column %d", j)
		assert.InDelta(t, 1, variance, 0.1, "column %d", j)
	}

	_, err = Dataset(r, 0, mu, Fill(4, 1))
	assert.Error(t, err)
}
