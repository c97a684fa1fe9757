package facrbm

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/gorgonia/facrbm/rbm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func smallConf(seed int64) Config {
	rconf := rbm.DefaultConf(4, 5, 3)
	rconf.Factors = 2
	rconf.BatchSize = 2
	rconf.K = 1
	rconf.LearnRate = 0.01
	return Config{
		Name:    "small",
		RBMConf: rconf,
		Epochs:  1,
		Src:     rand.New(rand.NewSource(seed)),
	}
}

// two fixed batches of two rows
func fixedData() (v1, v2 *tensor.Dense) {
	v1 = tensor.New(tensor.WithShape(4, 4), tensor.WithBacking([]float32{
		0.5, 1.0, -0.5, 2.0,
		1.5, -1.0, 0.0, 1.0,
		-0.5, 0.5, 1.0, -2.0,
		2.0, 0.0, -1.5, 0.5,
	}))
	v2 = tensor.New(tensor.WithShape(4, 3), tensor.WithBacking([]float32{
		1.0, -1.0, 0.5,
		0.0, 2.0, -0.5,
		-1.5, 0.5, 1.0,
		0.5, 1.5, -2.0,
	}))
	return
}

func TestTrainEndToEnd(t *testing.T) {
	tr, err := New(smallConf(1337))
	require.NoError(t, err)
	initial := tr.Params().Clone()
	assert.Nil(t, tr.Chain(), "no chain without persistence")

	v1, v2 := fixedData()
	errs, err := tr.Train(context.Background(), v1, v2)
	require.NoError(t, err)
	assert.Nil(t, errs, "errors are not tracked")

	names := []string{"Wv1", "Wv2", "Wh", "Bv1", "Bv2", "Bh"}
	for i, w := range tr.Params().Model() {
		assert.NotEqual(t, initial.Model()[i].Data(), w.Data(), "%s did not change", names[i])
		for _, v := range w.Data().([]float32) {
			if math32.IsNaN(v) || math32.IsInf(v, 0) {
				t.Errorf("%s has a non-finite value %v", names[i], v)
			}
		}
	}
	assert.Equal(t, 1, tr.Epoch())
}

func TestTrainMatchesSteps(t *testing.T) {
	v1, v2 := fixedData()
	tr, err := New(smallConf(1))
	require.NoError(t, err)
	_, err = tr.Train(context.Background(), v1, v2)
	require.NoError(t, err)

	stepper, err := New(smallConf(1))
	require.NoError(t, err)
	v1s, _ := Split(v1, 2)
	v2s, _ := Split(v2, 2)
	for i := range v1s {
		require.NoError(t, stepper.Step(v1s[i], v2s[i]))
	}
	for i, w := range tr.Params().Model() {
		assert.Equal(t, stepper.Params().Model()[i].Data(), w.Data())
	}
}

func TestTrainDropsRemainder(t *testing.T) {
	v1, v2 := fixedData()
	tr, err := New(smallConf(7))
	require.NoError(t, err)
	_, err = tr.Train(context.Background(), v1, v2)
	require.NoError(t, err)

	// a fifth row that never fills a batch
	extra1 := append(append([]float32(nil), v1.Data().([]float32)...), 9, 9, 9, 9)
	extra2 := append(append([]float32(nil), v2.Data().([]float32)...), 9, 9, 9)
	tr2, err := New(smallConf(7))
	require.NoError(t, err)
	_, err = tr2.Train(context.Background(),
		tensor.New(tensor.WithShape(5, 4), tensor.WithBacking(extra1)),
		tensor.New(tensor.WithShape(5, 3), tensor.WithBacking(extra2)))
	require.NoError(t, err)

	for i, w := range tr.Params().Model() {
		assert.Equal(t, w.Data(), tr2.Params().Model()[i].Data())
	}
}

func TestTrainTracksError(t *testing.T) {
	conf := smallConf(1337)
	conf.Epochs = 5
	conf.TrackError = true
	rec := &recorder{}
	conf.Encoder = rec
	tr, err := New(conf)
	require.NoError(t, err)

	v1, v2 := fixedData()
	errs, err := tr.Train(context.Background(), v1, v2)
	require.NoError(t, err)
	assert.Len(t, errs, 5)
	for _, e := range errs {
		assert.True(t, e >= 0, "reconstruction error %v", e)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, tr.Statistics.Epochs)
	assert.Equal(t, errs, tr.Statistics.Errors)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, rec.epochs)
	assert.Equal(t, errs, rec.errs)
	assert.True(t, rec.flushed)

	var buf strings.Builder
	tr.Log(&buf)
	assert.Contains(t, buf.String(), "Epoch 4")

	filename := filepath.Join(t.TempDir(), "stats.csv")
	require.NoError(t, tr.Dump(filename))
	csv, err := os.ReadFile(filename)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csv)), "\n")
	assert.Equal(t, "epoch,error", lines[0])
	assert.Len(t, lines, 6)
}

func TestTrainPersistent(t *testing.T) {
	conf := smallConf(1337)
	conf.RBMConf.Persistent = true
	conf.Epochs = 2
	tr, err := New(conf)
	require.NoError(t, err)
	require.NotNil(t, tr.Chain())
	assert.False(t, tr.Chain().Seeded())

	v1, v2 := fixedData()
	_, err = tr.Train(context.Background(), v1, v2)
	require.NoError(t, err)
	assert.True(t, tr.Chain().Seeded())
	assert.Equal(t, tensor.Shape{2, 4}, tr.Chain().V1.Shape())
	assert.Equal(t, tensor.Shape{2, 5}, tr.Chain().H.Shape())
	assert.Equal(t, tensor.Shape{2, 3}, tr.Chain().V2.Shape())
}

func TestTrainStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := smallConf(1337)
	conf.Epochs = 10
	conf.TrackError = true
	conf.Encoder = &recorder{onEncode: cancel}
	tr, err := New(conf)
	require.NoError(t, err)

	v1, v2 := fixedData()
	errs, err := tr.Train(ctx, v1, v2)
	assert.Equal(t, context.Canceled, errors.Cause(err))
	assert.Len(t, errs, 1)
	assert.Equal(t, 1, tr.Epoch())
}

func TestTrainBadInput(t *testing.T) {
	tr, err := New(smallConf(1))
	require.NoError(t, err)
	v1, v2 := fixedData()

	_, err = tr.Train(context.Background(), v1, tensor.New(tensor.WithShape(3, 3), tensor.Of(tensor.Float32)))
	assert.True(t, rbm.IsShapeMismatch(err), "%v", err)

	one1, _ := Split(v1, 1)
	one2, _ := Split(v2, 1)
	_, err = tr.Train(context.Background(), one1[0], one2[0])
	assert.True(t, rbm.IsDegenerate(err), "%v", err)

	_, err = tr.Train(context.Background(), v1, tensor.New(tensor.WithShape(4, 2), tensor.Of(tensor.Float32)))
	assert.True(t, rbm.IsShapeMismatch(err), "%v", err)
}

func TestNewDegenerate(t *testing.T) {
	conf := smallConf(1)
	conf.Epochs = 0
	_, err := New(conf)
	assert.True(t, rbm.IsDegenerate(err))

	conf = smallConf(1)
	conf.RBMConf.K = 0
	_, err = New(conf)
	assert.True(t, rbm.IsDegenerate(err))
}

func TestSaveLoad(t *testing.T) {
	tr, err := New(smallConf(1337))
	require.NoError(t, err)
	v1, v2 := fixedData()
	_, err = tr.Train(context.Background(), v1, v2)
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, tr.Save(filename))

	tr2, err := New(smallConf(1))
	require.NoError(t, err)
	require.NoError(t, tr2.Load(filename))
	for i, w := range tr.Params().Model() {
		assert.Equal(t, w.Data(), tr2.Params().Model()[i].Data())
	}

	h1, err := tr.Hidden(v1, v2)
	require.NoError(t, err)
	h2, err := tr2.Hidden(v1, v2)
	require.NoError(t, err)
	assert.Equal(t, h1.Data(), h2.Data())

	other := smallConf(1)
	other.RBMConf.H = 6
	tr3, err := New(other)
	require.NoError(t, err)
	assert.True(t, rbm.IsShapeMismatch(tr3.Load(filename)))
}

func TestDefaultConfig(t *testing.T) {
	if !DefaultConfig().IsValid() {
		t.Errorf("Expected Default Config to be correct")
	}
}

type recorder struct {
	epochs   []int
	errs     []float32
	flushed  bool
	onEncode func()
}

func (r *recorder) Encode(ms rbm.MetaState) error {
	r.epochs = append(r.epochs, ms.Epoch())
	r.errs = append(r.errs, ms.Err())
	if ms.Params() == nil {
		return errors.New("no params")
	}
	if r.onEncode != nil {
		r.onEncode()
	}
	return nil
}

func (r *recorder) Flush() error {
	r.flushed = true
	return nil
}
