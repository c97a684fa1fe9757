package rbm

import "gorgonia.org/tensor"

// Deltas are the additive adjustments of one contrastive divergence step,
// one per trainable tensor and shaped like it.
type Deltas struct {
	Wv1, Wv2, Wh *tensor.Dense
	Bv1, Bv2, Bh *tensor.Dense

	PositiveH  *tensor.Dense // P(h|v1,v2) of the data batch
	Start, End Chain         // the chain before and after the k sweeps
}

// Model returns the deltas in the same order as (*Params).Model.
func (d *Deltas) Model() []*tensor.Dense {
	return []*tensor.Dense{d.Wv1, d.Wv2, d.Wh, d.Bv1, d.Bv2, d.Bh}
}

// Estimator computes k-step (persistent) contrastive divergence updates.
type Estimator struct {
	K         int
	LearnRate float64
	Sweeper   Sweeper // nil means MeanField
}

// NewEstimator returns an estimator with the chain length and learning rate of conf.
func NewEstimator(conf Config, s Sweeper) Estimator {
	return Estimator{K: conf.K, LearnRate: conf.LearnRate, Sweeper: s}
}

// Estimate contrasts the data batch against the chain after K sweeps.
//
// A nil chain starts every estimate from the data. A non-nil chain is the persistent chain:
// when empty it is seeded from the data, otherwise its state is the start of the sweeps and
// the data only enters the positive phase. Either way a non-nil chain holds the end state afterwards.
//
// Estimate does not modify p. Every delta is computed from the same parameter values.
func (e Estimator) Estimate(p *Params, v1, v2 *tensor.Dense, chain *Chain) (*Deltas, error) {
	if e.K < 1 {
		return nil, degenerate("chain length k must be at least 1. Got %d", e.K)
	}
	if !(e.LearnRate > 0) {
		return nil, degenerate("learning rate must be positive. Got %v", e.LearnRate)
	}
	sweeper := e.Sweeper
	if sweeper == nil {
		sweeper = MeanField{}
	}

	startH, err := HiddenGivenVisibles(p, v1, v2)
	if err != nil {
		return nil, err
	}
	start := Chain{V1: v1, H: startH, V2: v2}
	if chain.Seeded() {
		start = *chain
	}
	end, err := start.Run(p, sweeper, e.K)
	if err != nil {
		return nil, err
	}
	if rows, chainRows := v1.Shape()[0], end.V1.Shape()[0]; rows != chainRows {
		return nil, mismatch("Estimate (persistent chain)", end.V1.Shape(), v1.Shape())
	}

	lr := float32(e.LearnRate)
	var m maebe
	dataV1, dataV2 := m.divCols(v1, p.Var1), m.divCols(v2, p.Var2)
	mcmcV1, mcmcV2 := m.divCols(end.V1, p.Var1), m.divCols(end.V2, p.Var2)

	retVal := &Deltas{PositiveH: startH, Start: start, End: end}
	retVal.Wv1 = m.contrast(lr,
		m.deltaProduct(dataV1, startH, p.Wh, dataV2, p.Wv2),
		m.deltaProduct(mcmcV1, end.H, p.Wh, mcmcV2, p.Wv2))
	retVal.Wv2 = m.contrast(lr,
		m.deltaProduct(dataV2, startH, p.Wh, dataV1, p.Wv1),
		m.deltaProduct(mcmcV2, end.H, p.Wh, mcmcV1, p.Wv1))
	retVal.Wh = m.contrast(lr,
		m.deltaProduct(startH, dataV2, p.Wv2, dataV1, p.Wv1),
		m.deltaProduct(end.H, mcmcV2, p.Wv2, mcmcV1, p.Wv1))

	// biases use the raw visible values
	retVal.Bv1 = m.scale(m.colMean(m.sub(v1, end.V1)), lr)
	retVal.Bv2 = m.scale(m.colMean(m.sub(v2, end.V2)), lr)
	retVal.Bh = m.scale(m.colMean(m.sub(startH, end.H)), lr)
	if m.err != nil {
		return nil, m.err
	}

	if chain != nil {
		*chain = end
	}
	return retVal, nil
}
