package mjpeg

import (
	"bytes"
	"image/jpeg"
	"log"
	"net/http"

	"github.com/gorgonia/facrbm/encoding"
	"github.com/gorgonia/facrbm/rbm"
	"github.com/mattn/go-mjpeg"
)

// Encoder streams the latest rendered state as motion jpeg. It satisfies facrbm.OutputEncoder.
type Encoder struct {
	*encoding.Renderer

	stream *mjpeg.Stream
}

func (e *Encoder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.stream.ServeHTTP(w, r)
}

// NewEncoder draws every weight as a cell x cell square.
func NewEncoder(cell int) *Encoder {
	return &Encoder{
		Renderer: encoding.NewRenderer(cell),
		stream:   mjpeg.NewStream(),
	}
}

// Encode renders the state and pushes it to every connected client.
func (enc *Encoder) Encode(ms rbm.MetaState) error {
	im, err := enc.Render(ms)
	if err != nil {
		return err
	}
	var b bytes.Buffer
	err = jpeg.Encode(&b, im, nil)
	if err != nil {
		log.Println(err)
		return err
	}
	err = enc.stream.Update(b.Bytes())
	if err != nil {
		log.Println(err)
		return err
	}
	return nil
}

func (enc *Encoder) Flush() error { return nil }
