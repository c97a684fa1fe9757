package rbm

import (
	"bytes"
	"log"

	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// graphMaebe is maebe for graph construction.
type graphMaebe struct {
	err error
}

func (m *graphMaebe) do(f func() (*G.Node, error)) (retVal *G.Node) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = f(); m.err != nil {
		m.err = errors.WithStack(m.err)
	}
	return
}

// Inferencer holds an expression graph computing P(h|v1,v2) for a fixed batch size, and the VM running it.
// The parameters are copied in at construction; later updates to the source Params are not seen.
type Inferencer struct {
	g      *G.ExprGraph
	m      G.VM
	v1, v2 *G.Node
	prob   G.Value

	batchSize int
	in1, in2  *tensor.Dense
	buf       *bytes.Buffer
}

// Infer compiles the hidden conditional of p for batches of batchSize rows.
// With toLog, the VM traces its execution and watches for NaNs; see ExecLog.
func Infer(p *Params, batchSize int, toLog bool) (*Inferencer, error) {
	if batchSize < 1 {
		return nil, degenerate("batch size must be positive. Got %d", batchSize)
	}
	g := G.NewGraph()
	retVal := &Inferencer{
		g:         g,
		batchSize: batchSize,
		in1:       tensor.New(tensor.WithShape(batchSize, p.V1), tensor.Of(Float)),
		in2:       tensor.New(tensor.WithShape(batchSize, p.V2), tensor.Of(Float)),
		buf:       new(bytes.Buffer),
	}
	retVal.v1 = G.NewMatrix(g, Float, G.WithShape(batchSize, p.V1), G.WithName("v1"))
	retVal.v2 = G.NewMatrix(g, Float, G.WithShape(batchSize, p.V2), G.WithName("v2"))
	wv1 := G.NewMatrix(g, Float, G.WithShape(p.V1, p.Factors), G.WithName("Wv1"), G.WithValue(p.Wv1.Clone().(*tensor.Dense)))
	wv2 := G.NewMatrix(g, Float, G.WithShape(p.V2, p.Factors), G.WithName("Wv2"), G.WithValue(p.Wv2.Clone().(*tensor.Dense)))
	wh := G.NewMatrix(g, Float, G.WithShape(p.H, p.Factors), G.WithName("Wh"), G.WithValue(p.Wh.Clone().(*tensor.Dense)))
	bh := G.NewMatrix(g, Float, G.WithShape(1, p.H), G.WithName("Bh"), G.WithValue(p.Bh.Clone().(*tensor.Dense)))

	var m graphMaebe
	a := m.do(func() (*G.Node, error) { return G.Mul(retVal.v1, wv1) })
	b := m.do(func() (*G.Node, error) { return G.Mul(retVal.v2, wv2) })
	inter := m.do(func() (*G.Node, error) { return G.HadamardProd(a, b) })
	whT := m.do(func() (*G.Node, error) { return G.Transpose(wh) })
	pre := m.do(func() (*G.Node, error) { return G.Mul(inter, whT) })
	pre = m.do(func() (*G.Node, error) { return G.BroadcastAdd(pre, bh, nil, []byte{0}) })
	out := m.do(func() (*G.Node, error) { return G.Sigmoid(pre) })
	if m.err != nil {
		return nil, m.err
	}
	G.Read(out, &retVal.prob)

	if toLog {
		logger := log.New(retVal.buf, "", 0)
		retVal.m = G.NewTapeMachine(g,
			G.WithLogger(logger),
			G.WithWatchlist(),
			G.TraceExec(),
			G.WithValueFmt("%+1.3v"),
			G.WithNaNWatch(),
		)
	} else {
		retVal.m = G.NewTapeMachine(g)
	}
	return retVal, nil
}

// Infer takes row-major batches of v1 and v2 and returns P(h|v1,v2) row-major.
func (inf *Inferencer) Infer(v1, v2 []float32) ([]float32, error) {
	d1, d2 := inf.in1.Data().([]float32), inf.in2.Data().([]float32)
	if len(v1) != len(d1) {
		return nil, mismatch("Infer v1", inf.in1.Shape(), tensor.Shape{len(v1)})
	}
	if len(v2) != len(d2) {
		return nil, mismatch("Infer v2", inf.in2.Shape(), tensor.Shape{len(v2)})
	}
	copy(d1, v1)
	copy(d2, v2)

	inf.m.Reset()
	inf.buf.Reset()
	if err := G.Let(inf.v1, inf.in1); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := G.Let(inf.v2, inf.in2); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := inf.m.RunAll(); err != nil {
		return nil, errors.WithStack(err)
	}
	out := inf.prob.Data().([]float32)
	retVal := make([]float32, len(out))
	copy(retVal, out)
	return retVal, nil
}

// BatchSize is the number of rows each call to Infer takes.
func (inf *Inferencer) BatchSize() int { return inf.batchSize }

// ExecLog returns the execution log. It is empty unless the Inferencer was built with toLog.
func (inf *Inferencer) ExecLog() string { return inf.buf.String() }

// Close implements a closer, because well, a gorgonia VM is a resource.
func (inf *Inferencer) Close() error { return inf.m.Close() }
