// Package encoding renders the training state of a factored RBM as images.
package encoding

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/chewxy/math32"
	"github.com/golang/freetype/truetype"
	"github.com/gorgonia/facrbm/rbm"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
	"gorgonia.org/tensor/native"
)

var regular *truetype.Font

const (
	dpi             = 144.0
	fontsize        = 12.0
	lineheight      = 1.2
	dummyLongString = `Epoch 100000, Error: 1000.000`
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

// Palette is 256 shades of gray; index i is color.Gray{i}.
var Palette = func() color.Palette {
	retVal := make(color.Palette, 256)
	for i := range retVal {
		retVal[i] = color.Gray{uint8(i)}
	}
	return retVal
}()

// Renderer draws the three factor matrices side by side as heatmaps, one cell per weight,
// with the model name, epoch and error underneath.
// Mid gray is zero; lighter is positive, darker negative, scaled by the largest magnitude.
type Renderer struct {
	H, W int
	font.Drawer

	Cell       int // side of a weight cell in pixels
	padH, padW int // padding so everything don't start at the topleft
	gap        int // space between heatmaps
	colW       int // width reserved for each heatmap

	initialized bool
}

// NewRenderer makes a Renderer with cells of the given size.
func NewRenderer(cell int) *Renderer {
	if cell < 1 {
		cell = 1
	}
	return &Renderer{
		H:    -1,
		W:    -1,
		Cell: cell,
		padH: 10,
		padW: 10,
		gap:  10,

		Drawer: font.Drawer{
			Src: image.Black,
		},
	}
}

func (r *Renderer) lineHeight() int { return int(math.Ceil(fontsize * lineheight * dpi / 72)) }

func (r *Renderer) init(p *rbm.Params) {
	r.Drawer.Face = truetype.NewFace(regular, &truetype.Options{
		Size:    fontsize,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})

	rows := maxInt(p.V1, maxInt(p.H, p.V2))
	r.colW = maxInt(p.Factors*r.Cell, font.MeasureString(r.Face, "Wv2").Ceil())
	mapsW := 3*r.colW + 2*r.gap
	textW := font.MeasureString(r.Face, dummyLongString).Ceil()
	r.W = maxInt(mapsW, textW) + 2*r.padW
	r.H = rows*r.Cell + 3*r.lineHeight() + 2*r.padH + r.padH/2 // 3 lines: labels, name, epoch and error
	r.initialized = true
}

// Render draws one frame.
func (r *Renderer) Render(ms rbm.MetaState) (*image.Paletted, error) {
	p := ms.Params()
	if !r.initialized {
		r.init(p)
	}
	im := image.NewPaletted(image.Rect(0, 0, r.W, r.H), Palette)
	draw.Draw(im, im.Bounds(), image.White, image.Point{}, draw.Src)
	r.Dst = im

	dy := r.lineHeight()
	y := r.padH + dy
	mapsTop := y + r.padH/2
	for i, label := range []string{"Wv1", "Wh", "Wv2"} {
		x := r.padW + i*(r.colW+r.gap)
		r.Dot = fixed.P(x, y)
		r.DrawString(label)
		if err := r.heatmap(im, p, label, x, mapsTop); err != nil {
			return nil, err
		}
	}

	y = r.H - r.padH - dy
	r.Dot = fixed.P(r.padW, y)
	r.DrawString(ms.Name())
	y += dy
	r.Dot = fixed.P(r.padW, y)
	r.DrawString(fmt.Sprintf("Epoch %d, Error: %.3f", ms.Epoch(), ms.Err()))
	return im, nil
}

// heatmap draws the named factor matrix with its top left corner at (x, y).
func (r *Renderer) heatmap(im *image.Paletted, p *rbm.Params, name string, x, y int) error {
	t := p.Wv1
	switch name {
	case "Wh":
		t = p.Wh
	case "Wv2":
		t = p.Wv2
	}
	rows, err := native.MatrixF32(t)
	if err != nil {
		return errors.Wrapf(err, "rendering %s", name)
	}
	var maxAbs float32
	for _, v := range t.Data().([]float32) {
		maxAbs = math32.Max(maxAbs, math32.Abs(v))
	}
	if maxAbs == 0 || math32.IsInf(maxAbs, 0) || math32.IsNaN(maxAbs) {
		maxAbs = 1
	}
	for i, row := range rows {
		for j, v := range row {
			shade := uint8(127.5 + 127.5*v/maxAbs)
			cell := image.Rect(x+j*r.Cell, y+i*r.Cell, x+(j+1)*r.Cell, y+(i+1)*r.Cell)
			draw.Draw(im, cell, &image.Uniform{color.Gray{shade}}, image.Point{}, draw.Src)
		}
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
