package mjpeg

import (
	"math/rand"
	"testing"

	"github.com/gorgonia/facrbm/rbm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type state struct{ p *rbm.Params }

func (s state) Name() string        { return "mjpeg" }
func (s state) Epoch() int          { return 1 }
func (s state) Err() float32        { return 0 }
func (s state) Params() *rbm.Params { return s.p }

func TestEncoder(t *testing.T) {
	p, err := rbm.NewParams(rbm.DefaultConf(3, 4, 2), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	enc := NewEncoder(2)
	assert.NoError(t, enc.Encode(state{p}))
	assert.NoError(t, enc.Encode(state{p}))
	assert.NoError(t, enc.Flush())
	assert.True(t, enc.W > 0 && enc.H > 0)
}
