package waveform

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds basic statistics of the waveform samples
type Summary struct {
	NumSamples int     `json:"numSamples"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"stdDev"` // Sample standard deviation, 0 for fewer than 2 samples
	RMS        float64 `json:"rms"`
}

// Summary computes the sample statistics. An empty waveform yields a zero Summary.
func (w *Waveform) Summary() Summary {
	n := len(w.Samples)
	if n == 0 {
		return Summary{}
	}

	s := Summary{
		NumSamples: n,
		Min:        floats.Min(w.Samples),
		Max:        floats.Max(w.Samples),
		Mean:       stat.Mean(w.Samples, nil),
		RMS:        math.Sqrt(floats.Dot(w.Samples, w.Samples) / float64(n)),
	}
	if n > 1 {
		s.StdDev = stat.StdDev(w.Samples, nil)
	}
	return s
}
