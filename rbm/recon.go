package rbm

import "gorgonia.org/tensor"

// Reconstruct draws a one-step reconstruction of both visible groups: h = P(h|v1,v2),
// then one sample of v1 given (v2, h) and one sample of v2 given (v1, h).
func Reconstruct(p *Params, v1, v2 *tensor.Dense, src Source) (r1, r2 *tensor.Dense, err error) {
	var h *tensor.Dense
	if h, err = HiddenGivenVisibles(p, v1, v2); err != nil {
		return nil, nil, err
	}
	if r1, err = SampleVisible1(p, v2, h, src); err != nil {
		return nil, nil, err
	}
	if r2, err = SampleVisible2(p, v1, h, src); err != nil {
		return nil, nil, err
	}
	return r1, r2, nil
}

// ReconstructionError is the squared error of a one-step reconstruction,
// summed over both visible groups and the whole batch. It is only a diagnostic.
func ReconstructionError(p *Params, v1, v2 *tensor.Dense, src Source) (float32, error) {
	r1, r2, err := Reconstruct(p, v1, v2, src)
	if err != nil {
		return 0, err
	}
	return sumSquaredDiff(v1, r1) + sumSquaredDiff(v2, r2), nil
}

func sumSquaredDiff(a, b *tensor.Dense) (retVal float32) {
	x, y := a.Data().([]float32), b.Data().([]float32)
	for i := range x {
		d := x[i] - y[i]
		retVal += d * d
	}
	return
}
