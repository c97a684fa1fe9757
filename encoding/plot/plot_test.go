package plot

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "err.png")
	err := Save("test", []int{1, 2, 3}, []float32{3, 2, 1}, filename)
	require.NoError(t, err)

	fi, err := os.Stat(filename)
	require.NoError(t, err)
	assert.True(t, fi.Size() > 0)
}

func TestErrorCurve(t *testing.T) {
	nan := float32(math.NaN())

	_, err := ErrorCurve("", []int{1, 2}, []float32{1})
	assert.Error(t, err, "length mismatch")

	_, err = ErrorCurve("", []int{1, 2}, []float32{nan, nan})
	assert.Error(t, err, "all NaN")

	p, err := ErrorCurve("skips", []int{1, 2, 3}, []float32{nan, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, "skips", p.Title.Text)
}
