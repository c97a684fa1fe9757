package rbm

import "gorgonia.org/tensor"

// Sweeper advances a (v1, h, v2) triple by one full Gibbs sweep.
//
// Every implementation must update in the same order: v1 from the old (v2, h),
// then v2 from the new v1 and the old h, then h from the new v1 and v2.
type Sweeper interface {
	Sweep(p *Params, v1, h, v2 *tensor.Dense) (nv1, nh, nv2 *tensor.Dense, err error)
}

// MeanField is the default sweep. Each step propagates expected values, so the sweep is deterministic.
type MeanField struct{}

func (MeanField) Sweep(p *Params, v1, h, v2 *tensor.Dense) (nv1, nh, nv2 *tensor.Dense, err error) {
	if nv1, err = Visible1GivenOthers(p, v2, h); err != nil {
		return nil, nil, nil, err
	}
	if nv2, err = Visible2GivenOthers(p, nv1, h); err != nil {
		return nil, nil, nil, err
	}
	if nh, err = HiddenGivenVisibles(p, nv1, nv2); err != nil {
		return nil, nil, nil, err
	}
	return nv1, nh, nv2, nil
}

// Sampling draws every step from its conditional distribution instead of taking the mean.
type Sampling struct {
	Src Source
}

func (s Sampling) Sweep(p *Params, v1, h, v2 *tensor.Dense) (nv1, nh, nv2 *tensor.Dense, err error) {
	if nv1, err = SampleVisible1(p, v2, h, s.Src); err != nil {
		return nil, nil, nil, err
	}
	if nv2, err = SampleVisible2(p, nv1, h, s.Src); err != nil {
		return nil, nil, nil, err
	}
	if nh, err = SampleHidden(p, nv1, nv2, s.Src); err != nil {
		return nil, nil, nil, err
	}
	return nv1, nh, nv2, nil
}

// Chain is a (v1, h, v2) state of the Markov chain.
//
// As the persistent chain of a trainer it starts out empty, is seeded from the first data batch,
// and from then on only moves by Gibbs sweeps.
type Chain struct {
	V1, H, V2 *tensor.Dense
}

// Seeded reports whether the chain holds a state.
func (c *Chain) Seeded() bool { return c != nil && c.V1 != nil && c.H != nil && c.V2 != nil }

// Reset empties the chain so the next step seeds it from data again.
func (c *Chain) Reset() { c.V1, c.H, c.V2 = nil, nil, nil }

// Run applies k sweeps starting from the chain's state and returns the end state.
// The receiver is not modified.
func (c Chain) Run(p *Params, s Sweeper, k int) (retVal Chain, err error) {
	retVal = c
	for i := 0; i < k; i++ {
		if retVal.V1, retVal.H, retVal.V2, err = s.Sweep(p, retVal.V1, retVal.H, retVal.V2); err != nil {
			return Chain{}, err
		}
	}
	return retVal, nil
}
