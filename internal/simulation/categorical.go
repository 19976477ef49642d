package simulation

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
)

// categorical samples names from a normalized weight vector
type categorical struct {
	names []string
	cum   []float64
}

func newCategorical(name string, d config.Distribution) (*categorical, error) {
	if len(d) == 0 {
		return nil, fmt.Errorf("%s: empty distribution", name)
	}
	return newWeighted(name, d.Names(), d.Weights())
}

func newWeighted(name string, names []string, weights []float64) (*categorical, error) {
	if len(names) != len(weights) {
		return nil, fmt.Errorf("%s: %d names but %d weights", name, len(names), len(weights))
	}

	var total float64
	for i, w := range weights {
		if !(w > 0) {
			return nil, fmt.Errorf("%s: weight for %q must be > 0", name, names[i])
		}
		total += w
	}

	c := &categorical{names: names, cum: make([]float64, len(weights))}
	var acc float64
	for i, w := range weights {
		acc += w / total
		c.cum[i] = acc
	}
	c.cum[len(c.cum)-1] = 1

	return c, nil
}

func (c *categorical) sample(rng *rand.Rand) string {
	u := rng.Float64()
	i := sort.SearchFloat64s(c.cum, u)
	// SearchFloat64s returns the first index with cum >= u; equality belongs to the next bucket
	if i < len(c.cum) && c.cum[i] == u {
		i++
	}
	if i >= len(c.names) {
		i = len(c.names) - 1
	}
	return c.names[i]
}

// probability returns the normalized weight of name, 0 when absent
func (c *categorical) probability(name string) float64 {
	prev := 0.0
	for i, n := range c.names {
		if n == name {
			return c.cum[i] - prev
		}
		prev = c.cum[i]
	}
	return 0
}
