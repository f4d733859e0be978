package prometheus

import "time"

// PerceptionMetrics holds all metrics emitted by the perception pipeline.
type PerceptionMetrics struct {
	// Normalisation
	MoleculesNormalisedTotal CounterVec // labels: outcome ("ok" | "error")
	NormaliseDuration        HistogramVec
	RingsDetectedTotal       CounterVec
	RingSystemsTotal         CounterVec
	AromaticRingsTotal       CounterVec

	// SDF input
	SDFMoleculesParsedTotal CounterVec // labels: outcome ("ok" | "error")
	SDFParseDuration        HistogramVec
}

// DefaultPerceptionBuckets spans sub-millisecond small molecules through
// pathological dense polycyclics near the Frèrejacque cap.
var DefaultPerceptionBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5}

// NewPerceptionMetrics registers all perception metrics on the given
// collector and returns the populated struct.
func NewPerceptionMetrics(collector MetricsCollector) *PerceptionMetrics {
	m := &PerceptionMetrics{}

	m.MoleculesNormalisedTotal = collector.RegisterCounter("molecules_normalised_total", "Molecules run through normalise", "outcome")
	m.NormaliseDuration = collector.RegisterHistogram("normalise_duration_seconds", "Wall time of one normalise call", DefaultPerceptionBuckets)
	m.RingsDetectedTotal = collector.RegisterCounter("rings_detected_total", "Rings retained after perception")
	m.RingSystemsTotal = collector.RegisterCounter("ring_systems_total", "Ring systems formed")
	m.AromaticRingsTotal = collector.RegisterCounter("aromatic_rings_total", "Rings classified aromatic")

	m.SDFMoleculesParsedTotal = collector.RegisterCounter("sdf_molecules_parsed_total", "SDF molecule blocks parsed", "outcome")
	m.SDFParseDuration = collector.RegisterHistogram("sdf_parse_duration_seconds", "Wall time of one SDF block parse", DefaultPerceptionBuckets)

	return m
}

// ObserveNormalise records one normalise call.
func (m *PerceptionMetrics) ObserveNormalise(d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.MoleculesNormalisedTotal.WithLabelValues(outcome).Inc()
	m.NormaliseDuration.WithLabelValues().Observe(d.Seconds())
}
