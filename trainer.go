package facrbm

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/chewxy/math32"
	"github.com/gorgonia/facrbm/rbm"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Trainer is the top level structure and the entry point of the API.
// It owns the parameters of a factored three-way RBM and, in persistent mode, the negative phase chain,
// and trains them with k-step contrastive divergence.
type Trainer struct {
	Statistics

	conf   Config
	params *rbm.Params
	est    rbm.Estimator
	chain  *rbm.Chain // nil unless persistent
	src    rbm.Source

	// state
	epoch   int
	lastErr float32

	// io
	enc    OutputEncoder
	buf    bytes.Buffer
	logger *log.Logger
}

// New creates a Trainer with freshly initialized parameters.
func New(conf Config) (*Trainer, error) {
	if err := conf.RBMConf.Validate(); err != nil {
		return nil, err
	}
	if conf.Epochs < 1 {
		return nil, errors.WithStack(rbm.DegenerateConfig(fmt.Sprintf("epoch count must be positive. Got %d", conf.Epochs)))
	}
	src := conf.Src
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	params, err := rbm.NewParams(conf.RBMConf, src)
	if err != nil {
		return nil, err
	}

	retVal := &Trainer{
		Statistics: makeStatistics(),
		conf:       conf,
		params:     params,
		est:        rbm.NewEstimator(conf.RBMConf, conf.Sweeper),
		src:        src,
		lastErr:    math32.NaN(),
		enc:        conf.Encoder,
	}
	if conf.RBMConf.Persistent {
		retVal.chain = new(rbm.Chain)
	}
	if retVal.logger = conf.Logger; retVal.logger == nil {
		retVal.logger = log.New(&retVal.buf, "", log.Ltime)
	}
	return retVal, nil
}

// Train runs the configured number of epochs over the data. Rows are cut into contiguous batches
// of the configured batch size; trailing rows that do not fill a batch are never trained on.
// Batches are visited in the same order every epoch.
//
// When the error is tracked, Train returns the mean batch reconstruction error of every epoch.
// Cancelling ctx stops training after the batch in progress. Any error stops training and leaves the
// parameters as they were after the last successful batch.
func (t *Trainer) Train(ctx context.Context, v1, v2 *tensor.Dense) (errs []float32, err error) {
	if v1.Shape()[0] != v2.Shape()[0] {
		return nil, errors.WithStack(rbm.ShapeMismatch{Op: "Train", Want: tensor.Shape{v1.Shape()[0], t.conf.RBMConf.V2}, Got: v2.Shape()})
	}
	batchSize := t.conf.RBMConf.BatchSize
	var v1s, v2s []*tensor.Dense
	if v1s, err = Split(v1, batchSize); err != nil {
		return nil, err
	}
	if v2s, err = Split(v2, batchSize); err != nil {
		return nil, err
	}
	if len(v1s) == 0 {
		return nil, errors.WithStack(rbm.DegenerateConfig(fmt.Sprintf("batch size %d exceeds the %d rows of data", batchSize, v1.Shape()[0])))
	}
	if rem := v1.Shape()[0] % batchSize; rem != 0 {
		log.Printf("Dropping the last %d rows: %d rows do not divide into batches of %d", rem, v1.Shape()[0], batchSize)
	}

	t.logger.Printf("Training %q: %v over %d batches for %d epochs", t.conf.Name, t.conf.RBMConf, len(v1s), t.conf.Epochs)
	for e := 0; e < t.conf.Epochs; e++ {
		var total float32
		for bat := range v1s {
			select {
			case <-ctx.Done():
				t.logger.Printf("Stopped at epoch %d, batch %d", t.epoch, bat)
				return errs, errors.WithStack(ctx.Err())
			default:
			}
			if err = t.Step(v1s[bat], v2s[bat]); err != nil {
				return errs, errors.WithMessage(err, fmt.Sprintf("epoch %d, batch %d", t.epoch, bat))
			}
			if t.conf.TrackError {
				var cost float32
				if cost, err = t.Cost(v1s[bat], v2s[bat]); err != nil {
					return errs, err
				}
				total += cost
			}
		}

		if t.conf.TrackError {
			t.lastErr = total / float32(len(v1s))
			errs = append(errs, t.lastErr)
			t.update(t.epoch, t.lastErr)
			t.logger.Printf("Epoch %d: squared reconstruction average batch error %v", t.epoch, t.lastErr)
		}
		if t.enc != nil {
			if err = t.enc.Encode(t); err != nil {
				return errs, errors.WithMessage(err, "Encoding failed")
			}
		}
		t.epoch++
	}
	if t.enc != nil {
		if err = t.enc.Flush(); err != nil {
			return errs, errors.WithMessage(err, "Flushing failed")
		}
	}
	return errs, nil
}

// Step runs one contrastive divergence update on a single batch.
// In persistent mode the chain carries over from the previous Step.
func (t *Trainer) Step(v1, v2 *tensor.Dense) error {
	d, err := t.est.Estimate(t.params, v1, v2, t.chain)
	if err != nil {
		return err
	}
	return t.params.Apply(d)
}

// Cost is the one-step reconstruction error of a batch under the current parameters.
func (t *Trainer) Cost(v1, v2 *tensor.Dense) (float32, error) {
	return rbm.ReconstructionError(t.params, v1, v2, t.src)
}

// Hidden returns P(h|v1,v2) under the current parameters.
func (t *Trainer) Hidden(v1, v2 *tensor.Dense) (*tensor.Dense, error) {
	return rbm.HiddenGivenVisibles(t.params, v1, v2)
}

// Reconstruct returns a one-step reconstruction of both visible groups.
func (t *Trainer) Reconstruct(v1, v2 *tensor.Dense) (r1, r2 *tensor.Dense, err error) {
	return rbm.Reconstruct(t.params, v1, v2, t.src)
}

// Save the parameters into filename.
func (t *Trainer) Save(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	enc := gob.NewEncoder(f)
	return enc.Encode(t.params)
}

// Load the parameters from filename. The loaded sizes must match the configured ones.
// A persistent chain is emptied, as it belongs to the old parameters.
func (t *Trainer) Load(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	p := &rbm.Params{Config: t.conf.RBMConf}
	dec := gob.NewDecoder(f)
	if err = dec.Decode(p); err != nil {
		return errors.WithStack(err)
	}
	conf := t.conf.RBMConf
	if p.V1 != conf.V1 || p.H != conf.H || p.V2 != conf.V2 || p.Factors != conf.Factors {
		return errors.WithStack(rbm.ShapeMismatch{
			Op:   "Load " + filename,
			Want: tensor.Shape{conf.V1, conf.H, conf.V2, conf.Factors},
			Got:  tensor.Shape{p.V1, p.H, p.V2, p.Factors},
		})
	}
	if err = p.CheckFinite(); err != nil {
		return err
	}
	t.params = p
	if t.chain != nil {
		t.chain.Reset()
	}
	return nil
}

// Chain is the persistent chain. It is nil when persistence is off.
func (t *Trainer) Chain() *rbm.Chain { return t.chain }

// Log writes the training log. It is empty when a Logger was configured.
func (t *Trainer) Log(w io.Writer) { fmt.Fprint(w, t.buf.String()) }

func (t *Trainer) Name() string        { return t.conf.Name }
func (t *Trainer) Epoch() int          { return t.epoch }
func (t *Trainer) Err() float32        { return t.lastErr }
func (t *Trainer) Params() *rbm.Params { return t.params }
