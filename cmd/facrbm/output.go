package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorgonia/facrbm/rbm"
	"github.com/gorilla/websocket"
)

type info struct {
	Name  string  `json:"name"`
	Epoch int     `json:"epoch"`
	Error float64 `json:"error,omitempty"`
}

// Encoder pushes the progress of every epoch to websocket clients.
type Encoder struct {
	info chan info
}

var upgrader = websocket.Upgrader{} // use default options

func (enc *Encoder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer c.Close()
	for {
		var b []byte
		select {
		case in := <-enc.info:
			b, _ = json.Marshal(in)
		case <-r.Context().Done():
			return
		}
		if err = c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Println("write:", err)
			return
		}
	}
}

func NewEncoder() *Encoder {
	return &Encoder{info: make(chan info)}
}

// Encode never blocks training: with no client listening the epoch is dropped.
func (enc *Encoder) Encode(ms rbm.MetaState) error {
	in := info{Name: ms.Name(), Epoch: ms.Epoch()}
	if e := ms.Err(); e == e {
		in.Error = float64(e)
	}
	select {
	case enc.info <- in:
	default:
	}
	return nil
}

func (enc *Encoder) Flush() error { return nil }
