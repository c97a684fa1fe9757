package gif

import (
	"image/gif"
	"io"

	"github.com/gorgonia/facrbm/encoding"
	"github.com/gorgonia/facrbm/rbm"
)

// Encoder collects one frame per epoch and writes an animated gif on Flush.
// It satisfies facrbm.OutputEncoder.
type Encoder struct {
	*encoding.Renderer
	Delay int // per frame, in hundredths of a second

	out *gif.GIF
	io.Writer
}

// NewGifEncoder writes into w, drawing every weight as a cell x cell square.
func NewGifEncoder(w io.Writer, cell int) *Encoder {
	return &Encoder{
		Renderer: encoding.NewRenderer(cell),
		Delay:    10,
		out:      &gif.GIF{LoopCount: 0},
		Writer:   w,
	}
}

// Encode renders the state as the next frame.
func (enc *Encoder) Encode(ms rbm.MetaState) error {
	im, err := enc.Render(ms)
	if err != nil {
		return err
	}
	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, enc.Delay)
	return nil
}

// Frames is the number of frames encoded so far.
func (enc *Encoder) Frames() int { return len(enc.out.Image) }

// Flush writes the gif into the writer
func (enc *Encoder) Flush() error {
	if len(enc.out.Image) == 0 {
		return nil
	}
	// hold the last frame
	enc.out.Delay[len(enc.out.Delay)-1] = 300
	return gif.EncodeAll(enc.Writer, enc.out)
}
