package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "textcnn_prepare"

//RunMetrics keeps gauges of one data preparation run.
//They go to a node exporter textfile, the run is too short to be scraped.
type RunMetrics struct {
	registry    *prometheus.Registry
	Examples    prometheus.Gauge
	VocabSize   prometheus.Gauge
	Classes     prometheus.Gauge
	MaxLen      prometheus.Gauge
	MissingRows prometheus.Gauge
	Duration    prometheus.Gauge
}

//NewRunMetrics creates gauges in a private registry
func NewRunMetrics() (*RunMetrics, error) {
	res := &RunMetrics{registry: prometheus.NewRegistry()}
	res.Examples = res.gauge("examples", "Number of encoded training examples")
	res.VocabSize = res.gauge("vocabulary_size", "Number of tokens in vocabulary")
	res.Classes = res.gauge("classes", "Number of distinct labels")
	res.MaxLen = res.gauge("max_sequence_length", "Padded sequence width")
	res.MissingRows = res.gauge("missing_vectors", "Vocabulary tokens without pre-trained vector")
	res.Duration = res.gauge("duration_seconds", "Duration of the run")
	for _, c := range []prometheus.Collector{res.Examples, res.VocabSize, res.Classes,
		res.MaxLen, res.MissingRows, res.Duration} {
		if err := res.registry.Register(c); err != nil {
			return nil, errors.Wrap(err, "can't register metric")
		}
	}
	return res, nil
}

func (m *RunMetrics) gauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
}

//Gatherer returns registry with run metrics
func (m *RunMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

//WriteTo writes metrics in text format to file
func (m *RunMetrics) WriteTo(file string) error {
	return errors.Wrapf(prometheus.WriteToTextfile(file, m.registry), "can't write metrics to %s", file)
}
