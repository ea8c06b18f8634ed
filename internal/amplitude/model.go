package amplitude

const (
	// Unitless is the units tag of a freshly built measurement, before scaling
	Unitless            Units = "UNITLESS"
	Counts              Units = "COUNTS"
	Nanometers          Units = "NANOMETERS"
	NanometersPerSecond Units = "NANOMETERS_PER_SECOND"
)

var validUnits = map[Units]struct{}{
	Unitless:            {},
	Counts:              {},
	Nanometers:          {},
	NanometersPerSecond: {},
}

// Units is the physical units tag of an amplitude value
type Units string

func (u Units) String() string {
	return string(u)
}

// IsValid reports whether u is one of the known units
func (u Units) IsValid() bool {
	_, ok := validUnits[u]
	return ok
}

// Extremum is a position within a sample sequence and the sample value there
type Extremum struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// MinMax is a pair of extrema found around a start index
type MinMax struct {
	Min Extremum `json:"min"`
	Max Extremum `json:"max"`
}

// DoubleValue is a measured value with its uncertainty and units
type DoubleValue struct {
	Value             float64 `json:"value"`
	StandardDeviation float64 `json:"standardDeviation"`
	Units             Units   `json:"units"`
}

// Measurement is an amplitude measurement derived from a peak/trough pair
type Measurement struct {
	Amplitude DoubleValue `json:"amplitude"`
	Period    float64     `json:"period"`    // Period in seconds, twice the peak to trough distance
	StartTime float64     `json:"startTime"` // Earlier of the peak and trough times, epoch seconds
}

// PeakTrough holds the extrema found on a waveform along with their absolute times
type PeakTrough struct {
	MinTimeSecs float64 `json:"minTimeSecs"`
	Min         float64 `json:"min"`
	MaxTimeSecs float64 `json:"maxTimeSecs"`
	Max         float64 `json:"max"`
}

// IsZero reports whether p is the "no data" result
func (p PeakTrough) IsZero() bool {
	return p == PeakTrough{}
}

// Detection is a signal detection on a stored waveform that needs an amplitude measurement
type Detection struct {
	ID          int64   `json:"id"`
	WaveformID  int64   `json:"waveformID"`
	ArrivalTime float64 `json:"arrivalTime"` // Arrival time in epoch seconds
	PickTime    float64 `json:"pickTime"`    // Time the peak/trough search starts from
	Phase       string  `json:"phase,omitempty"`
}

// Result is the outcome of measuring a single detection
type Result struct {
	Detection   Detection       `json:"detection"`
	PeakTrough  PeakTrough      `json:"peakTrough"`
	Measurement Measurement     `json:"measurement"` // Raw measurement as built from the peak/trough
	Scaled      Measurement     `json:"scaled"`      // Measurement normalised against the calibration curve
	Warnings    []WarningReason `json:"warnings,omitempty"`
}

// InWarning reports whether the measurement should be flagged for review
func (r *Result) InWarning() bool {
	return len(r.Warnings) > 0
}
