package amplitude

// FindMinMaxAmplitudeForPeakTrough locates the nearest local minimum and
// maximum around startIndex.
//
// The samples are split into the part left of startIndex (walked backwards)
// and the part right of it, startIndex belonging to both. Each side is walked
// outward in the direction it initially trends, flat runs included, until the
// first reversal. Of the four resulting candidates the smallest and largest
// values win, ties going to the candidate farther from startIndex. When the
// whole region is flat the widest span of candidate indices is reported.
//
// Empty samples or a startIndex outside of the samples yields the zero MinMax.
func FindMinMaxAmplitudeForPeakTrough(startIndex int, samples []float64) MinMax {
	if len(samples) == 0 || startIndex < 0 || startIndex >= len(samples) {
		return MinMax{}
	}

	left := walk(samples, startIndex, -1)
	right := walk(samples, startIndex, 1)

	candidates := [4]Extremum{left.Min, left.Max, right.Min, right.Max}

	minimum, maximum := candidates[0], candidates[0]
	for _, c := range candidates[1:] {
		if c.Value < minimum.Value || (c.Value == minimum.Value && farther(startIndex, c, minimum)) {
			minimum = c
		}
		if c.Value > maximum.Value || (c.Value == maximum.Value && farther(startIndex, c, maximum)) {
			maximum = c
		}
	}

	if minimum.Value == maximum.Value {
		lo, hi := candidates[0].Index, candidates[0].Index
		for _, c := range candidates[1:] {
			lo = min(lo, c.Index)
			hi = max(hi, c.Index)
		}
		return MinMax{
			Min: Extremum{Index: lo, Value: minimum.Value},
			Max: Extremum{Index: hi, Value: maximum.Value},
		}
	}

	return MinMax{Min: minimum, Max: maximum}
}

// walk follows samples from start in the given direction (-1 or 1) while they
// keep trending the way they initially move. Indices are absolute.
func walk(samples []float64, start, step int) MinMax {
	first := samples[start]
	at := func(i int) bool { return i >= 0 && i < len(samples) }

	rising := false
	for i := start + step; at(i); i += step {
		if samples[i] != first {
			rising = samples[i] > first
			break
		}
	}

	result := MinMax{
		Min: Extremum{Index: start, Value: first},
		Max: Extremum{Index: start, Value: first},
	}
	for i := start + step; at(i); i += step {
		prev, cur := samples[i-step], samples[i]
		if rising {
			if cur < prev {
				break
			}
			result.Max = Extremum{Index: i, Value: cur}
			continue
		}
		if cur > prev {
			break
		}
		result.Min = Extremum{Index: i, Value: cur}
	}
	return result
}

func farther(start int, a, b Extremum) bool {
	return abs(a.Index-start) > abs(b.Index-start)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
