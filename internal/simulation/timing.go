package simulation

import (
	"math"
	"math/rand/v2"
	"time"
)

const (
	peakProbability = 0.7
	minGapSeconds   = 5
	maxGapSeconds   = 300

	amountMu    = 11.0
	amountSigma = 0.5
	amountUnit  = 100.0
)

// late-morning and evening windows
var peakHours = []int{11, 12, 13, 20, 21, 22, 23}

// sampleTimeOfDay returns a timestamp on date's calendar day, landing in a peak hour 70% of the time
func sampleTimeOfDay(rng *rand.Rand, date time.Time) time.Time {
	var hour int
	if rng.Float64() < peakProbability {
		hour = peakHours[rng.IntN(len(peakHours))]
	} else {
		hour = rng.IntN(24)
	}
	minute := rng.IntN(60)
	second := rng.IntN(60)

	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, second, 0, time.UTC)
}

// nextGap returns the uniform 5..300 second delay between consecutive events
func nextGap(rng *rand.Rand) time.Duration {
	return time.Duration(minGapSeconds+rng.IntN(maxGapSeconds-minGapSeconds+1)) * time.Second
}

// sampleAmount draws a log-normal purchase amount rounded to the nearest 100, never below 100
func sampleAmount(rng *rand.Rand) float64 {
	v := math.Exp(amountMu + amountSigma*rng.NormFloat64())
	v = math.Round(v/amountUnit) * amountUnit
	if v < amountUnit {
		return amountUnit
	}
	return v
}

// dayOf truncates t to its UTC calendar date
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole days from a to b, both UTC dates
func daysBetween(a, b time.Time) int {
	return int(dayOf(b).Sub(dayOf(a)).Hours() / 24)
}
