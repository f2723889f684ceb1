package stream

import (
	"math/rand"
	"sync"

	tabular "github.com/colstack/tabular"
)

// Reservoir implements reservoir sampling with capacity k, per
// spec.md §4.6 (Algorithm R): the fill phase stores the first k items;
// thereafter, for the m-th item overall, j is drawn uniformly from
// [0, m) and item m replaces sample[j] when j<k. After observing N
// items, every item has been selected with probability min(1, k/N),
// and the reservoir is a uniform sample of size min(k, N).
type Reservoir struct {
	mu       sync.Mutex
	capacity int
	seen     int
	sample   []tabular.Row
	rng      *rand.Rand
}

func NewReservoir(capacity int) *Reservoir {
	return &Reservoir{capacity: capacity, rng: rand.New(rand.NewSource(rand.Int63()))}
}

func (r *Reservoir) Add(row tabular.Row) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen < r.capacity {
		r.sample = append(r.sample, row)
		r.seen++
		return
	}
	r.seen++
	j := r.rng.Intn(r.seen)
	if j < r.capacity {
		r.sample[j] = row
	}
}

func (r *Reservoir) Sample() []tabular.Row {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]tabular.Row, len(r.sample))
	copy(out, r.sample)
	return out
}
