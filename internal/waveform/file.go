package waveform

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk representation of an imported channel segment along
// with the signal detections picked on it.
//
// Example:
//
//	station: ASAR
//	channel: SHZ
//	startTime: 1546300800
//	sampleRateHz: 40
//	samples: [0.1, 0.4, 1.2, 0.7, -0.3]
//	detections:
//	  - arrivalTime: 1546300800.05
//	    pickTime: 1546300800.05
//	    phase: P
type File struct {
	Station    string          `yaml:"station"`
	Channel    string          `yaml:"channel"`
	Waveform   `yaml:",inline"`
	Detections []FileDetection `yaml:"detections"`
}

// FileDetection is a signal detection attached to a waveform file
type FileDetection struct {
	ArrivalTime float64  `yaml:"arrivalTime"`        // Detection arrival time in epoch seconds
	PickTime    *float64 `yaml:"pickTime,omitempty"` // Time the analyst marked, defaults to the arrival time
	Phase       string   `yaml:"phase,omitempty"`    // Seismic phase label, e.g. "P"
}

// Pick returns the time the peak/trough search starts from
func (d FileDetection) Pick() float64 {
	if d.PickTime != nil {
		return *d.PickTime
	}
	return d.ArrivalTime
}

// LoadFile reads and validates a YAML waveform file
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening waveform file: %w", err)
	}
	defer f.Close()

	wf, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return wf, nil
}

// Decode reads and validates a YAML waveform file from r
func Decode(r io.Reader) (*File, error) {
	var wf File
	if err := yaml.NewDecoder(r).Decode(&wf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("decoding waveform file: empty document")
		}
		return nil, fmt.Errorf("decoding waveform file: %w", err)
	}
	if err := wf.Validate(); err != nil {
		return nil, err
	}
	return &wf, nil
}

// Validate checks the channel identity, the samples and every detection
func (f *File) Validate() error {
	if f.Station == "" {
		return errors.New("waveform file: station is required")
	}
	if f.Channel == "" {
		return errors.New("waveform file: channel is required")
	}
	if err := f.Waveform.Validate(); err != nil {
		return err
	}
	for i, d := range f.Detections {
		if !f.Waveform.Contains(d.Pick()) {
			return fmt.Errorf("waveform file: detection %d: pick time %f outside of waveform [%f, %f]",
				i, d.Pick(), f.StartTime, f.EndTime())
		}
	}
	return nil
}
