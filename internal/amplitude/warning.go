package amplitude

const (
	WarningPeriodBelowMinimum  WarningReason = "period-below-minimum"
	WarningPeriodAboveMaximum  WarningReason = "period-above-maximum"
	WarningPeakBeforeTrough    WarningReason = "peak-before-trough"
	WarningTroughOutsideWindow WarningReason = "trough-outside-window"
	WarningPeakOutsideWindow   WarningReason = "peak-outside-window"
)

// WarningReason names a single check a peak/trough measurement failed
type WarningReason string

func (r WarningReason) String() string {
	return string(r)
}

// PeriodBounds is the accepted measurement period range in seconds
type PeriodBounds struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// WindowBounds is the accepted peak/trough time window, in seconds relative
// to the detection arrival time
type WindowBounds struct {
	StartOffset float64 `yaml:"startOffset" json:"startOffset"`
	EndOffset   float64 `yaml:"endOffset" json:"endOffset"`
}

// WarningBounds holds the thresholds past which a measurement is flagged
type WarningBounds struct {
	Period PeriodBounds `yaml:"period" json:"period"`
	Window WindowBounds `yaml:"window" json:"window"`
}

// Reasons lists every check the peak/trough selection fails, in a fixed
// order. A nil slice means the selection is acceptable.
func (b WarningBounds) Reasons(arrivalTime, period, troughTime, peakTime float64) []WarningReason {
	var reasons []WarningReason

	if period < b.Period.Min {
		reasons = append(reasons, WarningPeriodBelowMinimum)
	}
	if period > b.Period.Max {
		reasons = append(reasons, WarningPeriodAboveMaximum)
	}
	if peakTime < troughTime {
		reasons = append(reasons, WarningPeakBeforeTrough)
	}

	start := arrivalTime + b.Window.StartOffset
	end := arrivalTime + b.Window.EndOffset
	if troughTime < start || troughTime > end {
		reasons = append(reasons, WarningTroughOutsideWindow)
	}
	if peakTime < start || peakTime > end {
		reasons = append(reasons, WarningPeakOutsideWindow)
	}

	return reasons
}

// IsPeakTroughInWarning reports whether a peak/trough selection is outside
// the accepted period range, out of order, or outside the time window around
// the arrival.
func IsPeakTroughInWarning(arrivalTime, period, troughTime, peakTime float64, bounds WarningBounds) bool {
	return len(bounds.Reasons(arrivalTime, period, troughTime, peakTime)) > 0
}
