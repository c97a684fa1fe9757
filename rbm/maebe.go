package rbm

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/tensor/native"
	"gorgonia.org/vecf32"
)

// maebe carries the first error of a chain of tensor operations.
// Once an error is set every further operation is a no-op returning nil.
type maebe struct {
	err error
}

func (m *maebe) do(f func() (*tensor.Dense, error)) (retVal *tensor.Dense) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = f(); m.err != nil {
		m.err = errors.WithStack(m.err)
	}
	return
}

func (m *maebe) matmul(a, b *tensor.Dense) *tensor.Dense {
	return m.do(func() (*tensor.Dense, error) { return a.MatMul(b) })
}

func (m *maebe) hadamard(a, b *tensor.Dense) *tensor.Dense {
	return m.do(func() (*tensor.Dense, error) { return a.Mul(b) })
}

func (m *maebe) sub(a, b *tensor.Dense) *tensor.Dense {
	return m.do(func() (*tensor.Dense, error) { return a.Sub(b) })
}

// transpose returns a materialized transpose. The input is left untouched.
func (m *maebe) transpose(a *tensor.Dense) *tensor.Dense {
	return m.do(func() (*tensor.Dense, error) {
		t, err := tensor.T(a)
		if err != nil {
			return nil, err
		}
		return t.(*tensor.Dense), nil
	})
}

// interact computes ((a·wa) ⊙ (b·wb)) · wtᵀ, the three-way projection onto the target group.
func (m *maebe) interact(a, wa, b, wb, wt *tensor.Dense) *tensor.Dense {
	inter := m.hadamard(m.matmul(a, wa), m.matmul(b, wb))
	return m.matmul(inter, m.transpose(wt))
}

// deltaProduct computes tᵀ · ((a·wa) ⊙ (b·wb)), summed over the batch.
func (m *maebe) deltaProduct(t, a, wa, b, wb *tensor.Dense) *tensor.Dense {
	inter := m.hadamard(m.matmul(a, wa), m.matmul(b, wb))
	return m.matmul(m.transpose(t), inter)
}

func (m *maebe) rows(a *tensor.Dense) (retVal [][]float32) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = native.MatrixF32(a); m.err != nil {
		m.err = errors.Wrapf(m.err, "unable to view %v as rows", a.Shape())
	}
	return
}

// addRow adds the 1×n row vector to every row of a copy of a.
func (m *maebe) addRow(a, row *tensor.Dense) *tensor.Dense {
	if m.err != nil {
		return nil
	}
	retVal := a.Clone().(*tensor.Dense)
	bias := row.Data().([]float32)
	for _, r := range m.rows(retVal) {
		vecf32.Add(r, bias)
	}
	return retVal
}

// divCols returns a copy of a with every row divided elementwise by v.
func (m *maebe) divCols(a *tensor.Dense, v []float32) *tensor.Dense {
	if m.err != nil {
		return nil
	}
	retVal := a.Clone().(*tensor.Dense)
	for _, r := range m.rows(retVal) {
		vecf32.Div(r, v)
	}
	return retVal
}

// colMean averages over the batch dimension, returning a 1×n row vector.
func (m *maebe) colMean(a *tensor.Dense) *tensor.Dense {
	if m.err != nil {
		return nil
	}
	rows := m.rows(a)
	if m.err != nil {
		return nil
	}
	mean := make([]float32, a.Shape()[1])
	for _, r := range rows {
		vecf32.Add(mean, r)
	}
	vecf32.Scale(mean, 1/float32(len(rows)))
	return tensor.New(tensor.WithShape(1, len(mean)), tensor.WithBacking(mean))
}

// scale returns s·a as a new tensor.
func (m *maebe) scale(a *tensor.Dense, s float32) *tensor.Dense {
	if m.err != nil {
		return nil
	}
	retVal := a.Clone().(*tensor.Dense)
	vecf32.Scale(retVal.Data().([]float32), s)
	return retVal
}

// contrast is lr·(pos - neg).
func (m *maebe) contrast(lr float32, pos, neg *tensor.Dense) *tensor.Dense {
	return m.scale(m.sub(pos, neg), lr)
}

// sigmoid squashes a in place.
func (m *maebe) sigmoid(a *tensor.Dense) *tensor.Dense {
	if m.err != nil {
		return nil
	}
	data := a.Data().([]float32)
	for i, x := range data {
		data[i] = 1 / (1 + math32.Exp(-x))
	}
	return a
}
