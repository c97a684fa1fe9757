package rbm

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// ShapeMismatch is returned when tensors disagree with each other or with the configured sizes.
type ShapeMismatch struct {
	Op        string
	Want, Got tensor.Shape
}

func (err ShapeMismatch) Error() string {
	return fmt.Sprintf("%s: shape mismatch. Want %v. Got %v", err.Op, err.Want, err.Got)
}

// DegenerateConfig is returned when a configuration cannot be trained with.
type DegenerateConfig string

func (err DegenerateConfig) Error() string { return "degenerate configuration: " + string(err) }

// NumericalInstability is returned when an update would leave a non-finite parameter.
type NumericalInstability struct {
	Tensor string
	Index  int
	Value  float32
}

func (err NumericalInstability) Error() string {
	return fmt.Sprintf("non-finite value %v at index %d of %s", err.Value, err.Index, err.Tensor)
}

func IsShapeMismatch(err error) bool {
	_, ok := errors.Cause(err).(ShapeMismatch)
	return ok
}

func IsDegenerate(err error) bool {
	_, ok := errors.Cause(err).(DegenerateConfig)
	return ok
}

func IsUnstable(err error) bool {
	_, ok := errors.Cause(err).(NumericalInstability)
	return ok
}

func degenerate(format string, args ...interface{}) error {
	return errors.WithStack(DegenerateConfig(fmt.Sprintf(format, args...)))
}

func mismatch(op string, want, got tensor.Shape) error {
	return errors.WithStack(ShapeMismatch{Op: op, Want: want, Got: got})
}
