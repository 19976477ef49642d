package simulation

import (
	"math/rand/v2"
	"time"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
)

var testStart = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func testProfile(start, end string, seed int64) *config.Profile {
	p := config.DefaultProfile()
	p.StartDate = start
	p.EndDate = end
	p.Days = 0
	p.Seed = &seed
	p.Sinks = []string{config.SinkMemory}
	return p
}
