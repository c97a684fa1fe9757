package rbm

import (
	"bytes"
	"encoding/gob"
	"math/rand"
	"time"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
	"gorgonia.org/vecf32"
)

// Float is the dtype of every tensor in the model.
var Float = tensor.Float32

// Params is the mutable parameter store of a factored three-way RBM.
//
// The three factor matrices share their second dimension (the factor count).
// Biases are 1×n row vectors. The variances are fixed and never trained.
type Params struct {
	Config

	Wv1, Wv2, Wh *tensor.Dense // n×F factor matrices
	Bv1, Bv2, Bh *tensor.Dense // 1×n biases
}

// modelNames names the tensors returned by Model, in order.
var modelNames = [...]string{"Wv1", "Wv2", "Wh", "Bv1", "Bv2", "Bh"}

// NewParams allocates a parameter store. Biases are zero; factor matrices are drawn from conf.Init,
// or from a truncated Gaussian with standard deviation conf.InitStdDev() using src.
// A nil src is seeded from the clock.
func NewParams(conf Config, src Source) (*Params, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	init := conf.Init
	if init == nil {
		init = TruncatedNormal(src, conf.InitStdDev())
	}

	p := &Params{Config: conf}
	if p.Var1 == nil {
		p.Var1 = ones(conf.V1)
	}
	if p.Var2 == nil {
		p.Var2 = ones(conf.V2)
	}
	// the variances are owned by the store
	p.Var1 = append([]float32(nil), p.Var1...)
	p.Var2 = append([]float32(nil), p.Var2...)

	var err error
	if p.Wv1, err = factorMatrix(init, conf.V1, conf.Factors); err != nil {
		return nil, err
	}
	if p.Wv2, err = factorMatrix(init, conf.V2, conf.Factors); err != nil {
		return nil, err
	}
	if p.Wh, err = factorMatrix(init, conf.H, conf.Factors); err != nil {
		return nil, err
	}
	p.Bv1 = tensor.New(tensor.WithShape(1, conf.V1), tensor.Of(Float))
	p.Bv2 = tensor.New(tensor.WithShape(1, conf.V2), tensor.Of(Float))
	p.Bh = tensor.New(tensor.WithShape(1, conf.H), tensor.Of(Float))
	return p, nil
}

func factorMatrix(init G.InitWFn, rows, factors int) (*tensor.Dense, error) {
	backing, ok := init(Float, rows, factors).([]float32)
	if !ok || len(backing) != rows*factors {
		return nil, errors.Errorf("initializer did not return %d float32s", rows*factors)
	}
	return tensor.New(tensor.WithShape(rows, factors), tensor.WithBacking(backing)), nil
}

// TruncatedNormal is an initializer drawing from N(0, stddev²), redrawing anything beyond two standard deviations.
func TruncatedNormal(src Source, stddev float64) G.InitWFn {
	return func(dt tensor.Dtype, s ...int) interface{} {
		size := tensor.Shape(s).TotalSize()
		draw := func() float64 {
			for {
				if x := src.NormFloat64(); x > -2 && x < 2 {
					return x * stddev
				}
			}
		}
		switch dt {
		case tensor.Float64:
			retVal := make([]float64, size)
			for i := range retVal {
				retVal[i] = draw()
			}
			return retVal
		case tensor.Float32:
			retVal := make([]float32, size)
			for i := range retVal {
				retVal[i] = float32(draw())
			}
			return retVal
		default:
			panic(errors.Errorf("TruncatedNormal does not handle %v", dt))
		}
	}
}

// Model returns the six trainable tensors: Wv1, Wv2, Wh, Bv1, Bv2, Bh.
func (p *Params) Model() []*tensor.Dense {
	return []*tensor.Dense{p.Wv1, p.Wv2, p.Wh, p.Bv1, p.Bv2, p.Bh}
}

// Apply adds the deltas to the parameters, each tensor exactly once.
//
// Nothing is written unless every updated value is finite; on error the store keeps its previous values.
func (p *Params) Apply(d *Deltas) error {
	model := p.Model()
	deltas := d.Model()
	candidates := make([][]float32, len(model))
	for i, w := range model {
		dw := deltas[i]
		if dw == nil {
			return errors.Errorf("Apply: missing delta for %s", modelNames[i])
		}
		if !w.Shape().Eq(dw.Shape()) {
			return mismatch("Apply "+modelNames[i], w.Shape(), dw.Shape())
		}
		c := make([]float32, w.Shape().TotalSize())
		copy(c, w.Data().([]float32))
		vecf32.Add(c, dw.Data().([]float32))
		if err := checkFinite(modelNames[i], c); err != nil {
			return err
		}
		candidates[i] = c
	}
	for i, w := range model {
		copy(w.Data().([]float32), candidates[i])
	}
	return nil
}

// CheckFinite returns a NumericalInstability error for the first NaN or Inf found in the model.
func (p *Params) CheckFinite() error {
	for i, w := range p.Model() {
		if err := checkFinite(modelNames[i], w.Data().([]float32)); err != nil {
			return err
		}
	}
	return nil
}

func checkFinite(name string, data []float32) error {
	for i, v := range data {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return errors.WithStack(NumericalInstability{Tensor: name, Index: i, Value: v})
		}
	}
	return nil
}

// Clone returns a deep copy.
func (p *Params) Clone() *Params {
	retVal := &Params{
		Config: p.Config,
		Wv1:    p.Wv1.Clone().(*tensor.Dense),
		Wv2:    p.Wv2.Clone().(*tensor.Dense),
		Wh:     p.Wh.Clone().(*tensor.Dense),
		Bv1:    p.Bv1.Clone().(*tensor.Dense),
		Bv2:    p.Bv2.Clone().(*tensor.Dense),
		Bh:     p.Bh.Clone().(*tensor.Dense),
	}
	retVal.Var1 = append([]float32(nil), p.Var1...)
	retVal.Var2 = append([]float32(nil), p.Var2...)
	return retVal
}

func (p *Params) GobEncode() (retVal []byte, err error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	sizes := []int{p.V1, p.H, p.V2, p.Factors}
	if err = enc.Encode(sizes); err != nil {
		return nil, errors.WithStack(err)
	}
	for _, t := range p.Model() {
		if err = enc.Encode(t); err != nil {
			return nil, errors.Wrapf(err, "encoding %v", t.Shape())
		}
	}
	if err = enc.Encode(p.Var1); err != nil {
		return nil, errors.WithStack(err)
	}
	if err = enc.Encode(p.Var2); err != nil {
		return nil, errors.WithStack(err)
	}
	return buf.Bytes(), nil
}

// GobDecode restores the parameter values. Training settings in Config are left as they are.
func (p *Params) GobDecode(buf []byte) error {
	dec := gob.NewDecoder(bytes.NewBuffer(buf))
	var sizes []int
	if err := dec.Decode(&sizes); err != nil {
		return errors.WithStack(err)
	}
	if len(sizes) != 4 {
		return errors.Errorf("expected 4 sizes in encoded parameters. Got %d", len(sizes))
	}
	p.V1, p.H, p.V2, p.Factors = sizes[0], sizes[1], sizes[2], sizes[3]

	model := make([]*tensor.Dense, len(modelNames))
	for i := range model {
		t := new(tensor.Dense)
		if err := dec.Decode(t); err != nil {
			return errors.Wrapf(err, "decoding %s", modelNames[i])
		}
		model[i] = t
	}
	p.Wv1, p.Wv2, p.Wh, p.Bv1, p.Bv2, p.Bh = model[0], model[1], model[2], model[3], model[4], model[5]
	if err := dec.Decode(&p.Var1); err != nil {
		return errors.WithStack(err)
	}
	if err := dec.Decode(&p.Var2); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
