package facrbm

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/tensor/native"
)

// FromRows packs equal-length rows into a rows×cols float32 matrix.
func FromRows(rows [][]float32) (*tensor.Dense, error) {
	if len(rows) == 0 {
		return nil, errors.New("FromRows: no rows")
	}
	cols := len(rows[0])
	backing := make([]float32, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, errors.Errorf("FromRows: row %d has %d columns, expected %d", i, len(r), cols)
		}
		backing = append(backing, r...)
	}
	return tensor.New(tensor.WithShape(len(rows), cols), tensor.WithBacking(backing)), nil
}

// Rows views a matrix as its rows. The rows share the matrix's backing.
func Rows(t *tensor.Dense) ([][]float32, error) {
	rows, err := native.MatrixF32(t)
	if err != nil {
		return nil, errors.Wrapf(err, "Rows of %v", t.Shape())
	}
	return rows, nil
}

// Split cuts a matrix into contiguous batches of batchSize rows.
// Trailing rows that do not fill a whole batch are dropped.
func Split(t *tensor.Dense, batchSize int) ([]*tensor.Dense, error) {
	if batchSize < 1 {
		return nil, errors.Errorf("Split: batch size must be positive. Got %d", batchSize)
	}
	s := t.Shape()
	if s.Dims() != 2 {
		return nil, errors.Errorf("Split: expected a matrix. Got shape %v", s)
	}
	data, ok := t.Data().([]float32)
	if !ok {
		return nil, errors.Errorf("Split: expected float32 data. Got %T", t.Data())
	}
	batches := s[0] / batchSize
	stride := batchSize * s[1]
	retVal := make([]*tensor.Dense, batches)
	for bat := range retVal {
		backing := make([]float32, stride)
		copy(backing, data[bat*stride:(bat+1)*stride])
		retVal[bat] = tensor.New(tensor.WithShape(batchSize, s[1]), tensor.WithBacking(backing))
	}
	return retVal, nil
}
