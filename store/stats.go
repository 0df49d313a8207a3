package store

import "github.com/rcrowley/go-metrics"

// StatsBundle is the atomic counters bundle of spec §6: lock-free
// counters registered into a go-metrics Registry so operators can wire
// them into any reporter (graphite, statsd, expvar, ...) the way
// integration_test/load_test.go in the teacher repo does for its own
// ad hoc counters.
type StatsBundle struct {
	registry metrics.Registry

	TotalRequests    metrics.Counter
	Hits             metrics.Counter
	Misses           metrics.Counter
	Evictions        metrics.Counter
	Adds             metrics.Counter
	Updates          metrics.Counter
	Deletes          metrics.Counter
	Defragmentations metrics.Counter
	Coalesces        metrics.Counter
}

func NewStatsBundle() *StatsBundle {
	r := metrics.NewRegistry()
	b := &StatsBundle{
		registry:         r,
		TotalRequests:    metrics.NewCounter(),
		Hits:             metrics.NewCounter(),
		Misses:           metrics.NewCounter(),
		Evictions:        metrics.NewCounter(),
		Adds:             metrics.NewCounter(),
		Updates:          metrics.NewCounter(),
		Deletes:          metrics.NewCounter(),
		Defragmentations: metrics.NewCounter(),
		Coalesces:        metrics.NewCounter(),
	}
	r.Register("total_requests", b.TotalRequests)
	r.Register("hits", b.Hits)
	r.Register("misses", b.Misses)
	r.Register("evictions", b.Evictions)
	r.Register("adds", b.Adds)
	r.Register("updates", b.Updates)
	r.Register("deletes", b.Deletes)
	r.Register("defragmentations", b.Defragmentations)
	r.Register("coalesces", b.Coalesces)
	return b
}

// Registry exposes the underlying go-metrics registry for external
// reporters to consume.
func (b *StatsBundle) Registry() metrics.Registry { return b.registry }

// HitRatio is the derived statistic of spec §6: hits over the total
// number of get attempts observed so far, 0 when there have been none.
func (b *StatsBundle) HitRatio() float64 {
	hits := b.Hits.Count()
	misses := b.Misses.Count()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// Stat is one named counter value, as rendered by the STATS wire
// command (SPEC_FULL §6).
type Stat struct {
	Name  string
	Value interface{}
}

// Snapshot renders the bundle as an ordered list of name/value pairs,
// in the fixed order spec §6 lists them, plus the derived hit_ratio.
func (b *StatsBundle) Snapshot() []Stat {
	return []Stat{
		{"total_requests", b.TotalRequests.Count()},
		{"hits", b.Hits.Count()},
		{"misses", b.Misses.Count()},
		{"evictions", b.Evictions.Count()},
		{"adds", b.Adds.Count()},
		{"updates", b.Updates.Count()},
		{"deletes", b.Deletes.Count()},
		{"defragmentations", b.Defragmentations.Count()},
		{"coalesces", b.Coalesces.Count()},
		{"hit_ratio", b.HitRatio()},
	}
}

// Reset zeroes every counter (the Core API's reset_stats, spec §6).
func (b *StatsBundle) Reset() {
	b.TotalRequests.Clear()
	b.Hits.Clear()
	b.Misses.Clear()
	b.Evictions.Clear()
	b.Adds.Clear()
	b.Updates.Clear()
	b.Deletes.Clear()
	b.Defragmentations.Clear()
	b.Coalesces.Clear()
}
