package charts

import "math"

// NiceTicks returns about n evenly spaced round values covering [lo, hi].
// The first tick is <= lo and the last is >= hi.
func NiceTicks(lo, hi float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return []float64{0, 1}
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		if hi == 0 {
			hi = 1
		} else {
			lo, hi = math.Min(0, lo), math.Max(0, hi)
		}
	}

	step, decimals := niceStep((hi - lo) / float64(n-1))
	start := math.Floor(lo/step) * step
	end := math.Ceil(hi/step) * step
	pow := math.Pow(10, float64(decimals))

	var ticks []float64
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v > end+step/2 {
			break
		}
		ticks = append(ticks, math.Round(v*pow)/pow)
	}
	return ticks
}

// niceStep rounds raw to 1, 2 or 5 times a power of ten and reports how
// many decimals the step needs.
func niceStep(raw float64) (float64, int) {
	if raw <= 0 {
		return 1, 0
	}
	exp := math.Floor(math.Log10(raw))
	frac := raw / math.Pow(10, exp)
	var nice float64
	switch {
	case frac >= 7.07:
		nice = 10
	case frac >= 3.16:
		nice = 5
	case frac >= 1.41:
		nice = 2
	default:
		nice = 1
	}
	decimals := 0
	if exp < 0 {
		decimals = int(-exp)
	}
	return nice * math.Pow(10, exp), decimals
}

// linear maps a domain onto a range
type linear struct {
	d0, d1, r0, r1 float64
}

func (l linear) at(v float64) float64 {
	if l.d1 == l.d0 {
		return l.r0
	}
	return l.r0 + (v-l.d0)/(l.d1-l.d0)*(l.r1-l.r0)
}
