package rbm

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// HiddenGivenVisibles computes P(h=1|v1,v2) = sigmoid(((v1·Wv1) ⊙ (v2·Wv2))·Whᵀ + Bh).
// Each hidden unit is independent given the visibles.
func HiddenGivenVisibles(p *Params, v1, v2 *tensor.Dense) (*tensor.Dense, error) {
	if err := p.checkPair("HiddenGivenVisibles", v1, p.V1, v2, p.V2); err != nil {
		return nil, err
	}
	var m maebe
	pre := m.addRow(m.interact(v1, p.Wv1, v2, p.Wv2, p.Wh), p.Bh)
	retVal := m.sigmoid(pre)
	return retVal, m.err
}

// Visible2GivenOthers computes the Gaussian mean E[v2|v1,h] = ((v1·Wv1) ⊙ (h·Wh))·Wv2ᵀ + Bv2.
func Visible2GivenOthers(p *Params, v1, h *tensor.Dense) (*tensor.Dense, error) {
	if err := p.checkPair("Visible2GivenOthers", v1, p.V1, h, p.H); err != nil {
		return nil, err
	}
	var m maebe
	retVal := m.addRow(m.interact(v1, p.Wv1, h, p.Wh, p.Wv2), p.Bv2)
	return retVal, m.err
}

// Visible1GivenOthers computes the Gaussian mean E[v1|v2,h] = ((v2·Wv2) ⊙ (h·Wh))·Wv1ᵀ + Bv1.
func Visible1GivenOthers(p *Params, v2, h *tensor.Dense) (*tensor.Dense, error) {
	if err := p.checkPair("Visible1GivenOthers", v2, p.V2, h, p.H); err != nil {
		return nil, err
	}
	var m maebe
	retVal := m.addRow(m.interact(v2, p.Wv2, h, p.Wh, p.Wv1), p.Bv1)
	return retVal, m.err
}

// checkPair checks that a and b are matrices with the given column counts and the same number of rows.
func (p *Params) checkPair(op string, a *tensor.Dense, aCols int, b *tensor.Dense, bCols int) error {
	if err := checkMatrix(op, a, aCols); err != nil {
		return err
	}
	if err := checkMatrix(op, b, bCols); err != nil {
		return err
	}
	if a.Shape()[0] != b.Shape()[0] {
		return mismatch(op, tensor.Shape{a.Shape()[0], bCols}, b.Shape())
	}
	return nil
}

func checkMatrix(op string, a *tensor.Dense, cols int) error {
	if a == nil {
		return mismatch(op, tensor.Shape{1, cols}, nil)
	}
	s := a.Shape()
	if s.Dims() == 2 && s[1] == cols {
		if a.Dtype() != Float {
			return errors.Errorf("%s: expected %v. Got %v", op, Float, a.Dtype())
		}
		return nil
	}
	rows := 1
	if s.Dims() > 0 {
		rows = s[0]
	}
	return mismatch(op, tensor.Shape{rows, cols}, s)
}
