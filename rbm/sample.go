package rbm

import (
	"github.com/chewxy/math32"
	"gorgonia.org/tensor"
)

// Source is a source of random numbers. *rand.Rand implements it.
type Source interface {
	Float64() float64
	NormFloat64() float64
}

// SampleHidden draws a Bernoulli sample of every hidden unit from P(h|v1,v2):
// a unit is 1 where its probability exceeds a uniform draw from [0, 1), 0 otherwise.
func SampleHidden(p *Params, v1, v2 *tensor.Dense, src Source) (*tensor.Dense, error) {
	probs, err := HiddenGivenVisibles(p, v1, v2)
	if err != nil {
		return nil, err
	}
	return bernoulli(probs, src), nil
}

// SampleVisible1 draws v1 from independent Gaussians with mean E[v1|v2,h] and variance Var1.
func SampleVisible1(p *Params, v2, h *tensor.Dense, src Source) (*tensor.Dense, error) {
	mean, err := Visible1GivenOthers(p, v2, h)
	if err != nil {
		return nil, err
	}
	return gaussian(mean, p.Var1, src)
}

// SampleVisible2 draws v2 from independent Gaussians with mean E[v2|v1,h] and variance Var2.
func SampleVisible2(p *Params, v1, h *tensor.Dense, src Source) (*tensor.Dense, error) {
	mean, err := Visible2GivenOthers(p, v1, h)
	if err != nil {
		return nil, err
	}
	return gaussian(mean, p.Var2, src)
}

// bernoulli overwrites probs with its sample.
func bernoulli(probs *tensor.Dense, src Source) *tensor.Dense {
	data := probs.Data().([]float32)
	for i, prob := range data {
		if prob > float32(src.Float64()) {
			data[i] = 1
		} else {
			data[i] = 0
		}
	}
	return probs
}

// gaussian adds noise to mean in place.
func gaussian(mean *tensor.Dense, variance []float32, src Source) (*tensor.Dense, error) {
	var m maebe
	rows := m.rows(mean)
	if m.err != nil {
		return nil, m.err
	}
	stddev := make([]float32, len(variance))
	for i, v := range variance {
		stddev[i] = math32.Sqrt(v)
	}
	for _, row := range rows {
		for j := range row {
			row[j] += stddev[j] * float32(src.NormFloat64())
		}
	}
	return mean, nil
}
