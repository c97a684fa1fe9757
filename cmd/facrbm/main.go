package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorgonia/facrbm"
	"github.com/gorgonia/facrbm/encoding/gif"
	"github.com/gorgonia/facrbm/encoding/mjpeg"
	"github.com/gorgonia/facrbm/encoding/plot"
	"github.com/gorgonia/facrbm/internal/synth"
	"github.com/gorgonia/facrbm/rbm"

	_ "net/http/pprof"
)

var (
	nv1        = flag.Int("v1", 10, "size of the first visible group")
	nv2        = flag.Int("v2", 12, "size of the second visible group")
	nh         = flag.Int("h", 12, "number of hidden units")
	factors    = flag.Int("factors", 10, "number of factors")
	samples    = flag.Int("samples", 50, "number of synthetic samples")
	batchSize  = flag.Int("batch", 10, "batch size")
	learnRate  = flag.Float64("lr", 0.01, "learning rate")
	epochs     = flag.Int("epochs", 500, "number of epochs")
	k          = flag.Int("k", 1, "Gibbs steps per estimate")
	persistent = flag.Bool("persistent", false, "persistent contrastive divergence")
	sampling   = flag.Bool("sampling", false, "sample the negative phase chain instead of taking means")
	seed       = flag.Int64("seed", 0, "random seed. 0 seeds from the clock")

	plotFile = flag.String("plot", "", "write the error curve to this file (png, svg, pdf...)")
	gifFile  = flag.String("gif", "", "write an animation of the factor matrices to this file")
	csvFile  = flag.String("csv", "", "write the per epoch errors to this CSV file")
	saveFile = flag.String("save", "", "save the trained parameters to this file")
	loadFile = flag.String("load", "", "start from the parameters saved in this file")
	dotFile  = flag.String("dot", "", "write the factor graph of the trained model as DOT to this file")
	addr     = flag.String("addr", "", "serve progress (/ws), the live factor matrices (/mjpeg) and pprof on this address")
)

func main() {
	flag.Parse()
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(*seed))

	conf := facrbm.DefaultConfig()
	conf.RBMConf = rbm.DefaultConf(*nv1, *nh, *nv2)
	conf.RBMConf.Factors = *factors
	conf.RBMConf.BatchSize = *batchSize
	conf.RBMConf.LearnRate = *learnRate
	conf.RBMConf.K = *k
	conf.RBMConf.Persistent = *persistent
	conf.Epochs = *epochs
	conf.Src = r
	conf.Logger = log.New(os.Stderr, "", log.LstdFlags)
	if *sampling {
		conf.Sweeper = rbm.Sampling{Src: r}
	}
	if err := conf.RBMConf.Validate(); err != nil {
		log.Fatalf("%+v", err)
	}

	var encs facrbm.Encoders
	if *gifFile != "" {
		f, err := os.Create(*gifFile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		encs = append(encs, gif.NewGifEncoder(f, 4))
	}
	if *addr != "" {
		ws := NewEncoder()
		mj := mjpeg.NewEncoder(8)
		encs = append(encs, ws, mj)
		go func() {
			mux := http.DefaultServeMux // carries pprof
			mux.Handle("/ws", ws)
			mux.Handle("/mjpeg", mj)
			log.Printf("http://%v", *addr)
			log.Println(http.ListenAndServe(*addr, mux))
		}()
	}
	if len(encs) > 0 {
		conf.Encoder = encs
	}

	v1, err := synth.Dataset(r, *samples, synth.Arange(*nv1), synth.Fill(*nv1, 1))
	if err != nil {
		log.Fatalf("%+v", err)
	}
	v2, err := synth.Dataset(r, *samples, synth.Arange(*nv2), synth.Fill(*nv2, 1))
	if err != nil {
		log.Fatalf("%+v", err)
	}

	t, err := facrbm.New(conf)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if *loadFile != "" {
		if err = t.Load(*loadFile); err != nil {
			log.Fatalf("%+v", err)
		}
	}
	log.Printf("%v", conf.RBMConf)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	errs, err := t.Train(ctx, v1, v2)
	if err != nil {
		log.Printf("training stopped: %+v", err)
	}
	fmt.Println(errs)

	if *csvFile != "" {
		if err := t.Dump(*csvFile); err != nil {
			log.Printf("%+v", err)
		}
	}
	if *plotFile != "" {
		if err := plot.Save(conf.Name, t.Statistics.Epochs, t.Statistics.Errors, *plotFile); err != nil {
			log.Printf("%+v", err)
		}
	}
	if *dotFile != "" {
		if err := os.WriteFile(*dotFile, []byte(rbm.ToDot(t.Params())), 0644); err != nil {
			log.Printf("%+v", err)
		}
	}
	if *saveFile != "" {
		if err := t.Save(*saveFile); err != nil {
			log.Printf("%+v", err)
		}
	}
}
