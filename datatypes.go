package facrbm

import (
	"bytes"
	"fmt"
	"log"

	"github.com/gorgonia/facrbm/rbm"
)

// Config configures a Trainer.
type Config struct {
	Name       string
	RBMConf    rbm.Config
	Epochs     int
	TrackError bool // compute the reconstruction error of every epoch

	Sweeper rbm.Sweeper // nil means rbm.MeanField
	Src     rbm.Source  // random source for initialization and diagnostics. nil is seeded from the clock

	// extensions
	Encoder OutputEncoder
	Logger  *log.Logger // training log. nil keeps it in memory; see (*Trainer).Log
}

// DefaultConfig mirrors the reference run: 10, 12 and 12 units, batches of 10, 500 epochs at a learning rate of 0.01.
func DefaultConfig() Config {
	conf := rbm.DefaultConf(10, 12, 12)
	conf.LearnRate = 0.01
	return Config{
		Name:       "factored RBM",
		RBMConf:    conf,
		Epochs:     500,
		TrackError: true,
	}
}

func (conf Config) IsValid() bool { return conf.RBMConf.IsValid() && conf.Epochs >= 1 }

// OutputEncoder encodes the training progress as whatever.
//
// An example OutputEncoder is the GifEncoder. Another example would be a logger.
type OutputEncoder interface {
	Encode(ms rbm.MetaState) error
	Flush() error
}

// Encoders fans out to several OutputEncoders.
type Encoders []OutputEncoder

func (encs Encoders) Encode(ms rbm.MetaState) error {
	var allErrs manyErr
	for _, enc := range encs {
		if err := enc.Encode(ms); err != nil {
			allErrs = append(allErrs, err)
		}
	}
	if len(allErrs) > 0 {
		return allErrs
	}
	return nil
}

func (encs Encoders) Flush() error {
	var allErrs manyErr
	for _, enc := range encs {
		if err := enc.Flush(); err != nil {
			allErrs = append(allErrs, err)
		}
	}
	if len(allErrs) > 0 {
		return allErrs
	}
	return nil
}

type manyErr []error

func (err manyErr) Error() string {
	var buf bytes.Buffer
	for _, e := range err {
		fmt.Fprintln(&buf, e.Error())
	}
	return buf.String()
}
