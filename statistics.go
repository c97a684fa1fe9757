package facrbm

import (
	"encoding/csv"
	"os"
	"strconv"
)

// Statistics records the reconstruction error of every tracked epoch.
type Statistics struct {
	Epochs []int
	Errors []float32
}

func makeStatistics() Statistics {
	return Statistics{
		Epochs: make([]int, 0, 64),
		Errors: make([]float32, 0, 64),
	}
}

func (s *Statistics) update(epoch int, err float32) {
	s.Epochs = append(s.Epochs, epoch)
	s.Errors = append(s.Errors, err)
}

// Dump writes the statistics as CSV with an epoch,error header.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"epoch", "error"}); err != nil {
		return err
	}
	records := make([][]string, 0, len(s.Epochs))
	for i, epoch := range s.Epochs {
		records = append(records, []string{
			strconv.Itoa(epoch),
			strconv.FormatFloat(float64(s.Errors[i]), 'f', 6, 32),
		})
	}
	// WriteAll flushes
	return w.WriteAll(records)
}
