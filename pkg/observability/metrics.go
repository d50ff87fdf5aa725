package observability

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Metrics records application measurements.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Histogram(name string, value float64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag labels a metric series.
type Tag struct {
	Key   string
	Value string
}

// T creates a new Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)        {}
func (NoopMetrics) Gauge(string, float64, ...Tag)        {}
func (NoopMetrics) Histogram(string, float64, ...Tag)    {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag) {}

// MetricKind identifies how a series aggregates.
type MetricKind string

const (
	KindCounter   MetricKind = "counter"
	KindGauge     MetricKind = "gauge"
	KindHistogram MetricKind = "histogram"
	KindTiming    MetricKind = "timing"
)

// Sample summarizes one series. Counters and gauges report their current
// value; histograms and timings report the observation count and mean, with
// timings in milliseconds.
type Sample struct {
	Series string
	Kind   MetricKind
	Count  int
	Value  float64
}

type series struct {
	kind    MetricKind
	total   float64
	values  []float64
	timings []time.Duration
}

// InMemoryMetrics keeps every series in process. A series is identified by
// its name and tag set; tag order is irrelevant.
type InMemoryMetrics struct {
	mu     sync.RWMutex
	series map[string]*series
}

// NewInMemoryMetrics creates an empty collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{series: make(map[string]*series)}
}

func (m *InMemoryMetrics) record(kind MetricKind, name string, tags []Tag, update func(*series)) {
	key := seriesKey(name, tags)

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.series[key]
	if !ok {
		s = &series{kind: kind}
		m.series[key] = s
	}
	update(s)
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.record(KindCounter, name, tags, func(s *series) { s.total += float64(value) })
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.record(KindGauge, name, tags, func(s *series) { s.total = value })
}

func (m *InMemoryMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.record(KindHistogram, name, tags, func(s *series) { s.values = append(s.values, value) })
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.record(KindTiming, name, tags, func(s *series) { s.timings = append(s.timings, duration) })
}

func (m *InMemoryMetrics) lookup(name string, tags []Tag) *series {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.series[seriesKey(name, tags)]
}

// GetCounter returns the counter total, zero when never recorded.
func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	if s := m.lookup(name, tags); s != nil && s.kind == KindCounter {
		return int64(s.total)
	}
	return 0
}

// GetGauge returns the last gauge value.
func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	if s := m.lookup(name, tags); s != nil && s.kind == KindGauge {
		return s.total
	}
	return 0
}

// GetHistogram returns a copy of the recorded observations.
func (m *InMemoryMetrics) GetHistogram(name string, tags ...Tag) []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s := m.series[seriesKey(name, tags)]; s != nil {
		return slices.Clone(s.values)
	}
	return nil
}

// GetTimings returns a copy of the recorded durations.
func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s := m.series[seriesKey(name, tags)]; s != nil {
		return slices.Clone(s.timings)
	}
	return nil
}

// Snapshot summarizes every series, sorted by series key.
func (m *InMemoryMetrics) Snapshot() []Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()

	samples := make([]Sample, 0, len(m.series))
	for key, s := range m.series {
		sample := Sample{Series: key, Kind: s.kind}
		switch s.kind {
		case KindCounter, KindGauge:
			sample.Count = 1
			sample.Value = s.total
		case KindHistogram:
			sample.Count = len(s.values)
			sample.Value = mean(s.values)
		case KindTiming:
			ms := make([]float64, len(s.timings))
			for i, d := range s.timings {
				ms[i] = float64(d) / float64(time.Millisecond)
			}
			sample.Count = len(ms)
			sample.Value = mean(ms)
		}
		samples = append(samples, sample)
	}
	slices.SortFunc(samples, func(a, b Sample) int { return strings.Compare(a.Series, b.Series) })
	return samples
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// seriesKey renders name{k=v,...} with tags sorted by key.
func seriesKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := slices.Clone(tags)
	slices.SortStableFunc(sorted, func(a, b Tag) int { return strings.Compare(a.Key, b.Key) })

	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('{')
	for i, t := range sorted {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(t.Key)
		sb.WriteByte('=')
		sb.WriteString(t.Value)
	}
	sb.WriteByte('}')
	return sb.String()
}

// Metric names.
const (
	MetricOperationTotal    = "taskmatch.operation.total"
	MetricOperationDuration = "taskmatch.operation.duration"
	MetricOperationErrors   = "taskmatch.operation.errors"
	MetricOperationCanceled = "taskmatch.operation.canceled"

	MetricRankDuration   = "taskmatch.rank.duration"
	MetricRankCandidates = "taskmatch.rank.candidates"
	MetricRankExcluded   = "taskmatch.rank.excluded"
	MetricMatchScore     = "taskmatch.match.score"

	MetricMembersSkipped = "taskmatch.members.skipped"

	MetricCacheHits      = "taskmatch.cache.hits"
	MetricCacheMisses    = "taskmatch.cache.misses"
	MetricBreakerChanges = "taskmatch.breaker.state_changes"

	MetricEventsPublished = "taskmatch.events.published"
)
