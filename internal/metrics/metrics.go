// Package metrics collects Prometheus metrics for rdfcanon runs and writes
// them in the text exposition format.
package metrics

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/geoknoesis/rdfc-go/rdfc"
)

const namespace = "rdfcanon"

// Recorder holds the collectors for one process on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	runs         *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	quads        prometheus.Counter
	blankNodes   prometheus.Counter
	ndegreeCalls prometheus.Counter
	permutations prometheus.Counter
	ties         prometheus.Counter
}

// New returns a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		// Labels: algorithm, outcome ("ok" or an rdfc error code)
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Canonicalization runs by algorithm and outcome",
		}, []string{"algorithm", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Canonicalization latency in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"algorithm"}),
		quads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quads_total",
			Help:      "Quads canonicalized",
		}),
		blankNodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blank_nodes_total",
			Help:      "Blank nodes relabeled",
		}),
		ndegreeCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ndegree_calls_total",
			Help:      "N-degree hash invocations",
		}),
		permutations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "permutations_total",
			Help:      "Related blank node permutations explored",
		}),
		ties: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ties_total",
			Help:      "Equal N-degree hashes encountered",
		}),
	}
	r.registry.MustRegister(r.runs, r.duration, r.quads, r.blankNodes, r.ndegreeCalls, r.permutations, r.ties)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Observe records one canonicalization. res may be nil when err is set.
func (r *Recorder) Observe(alg rdfc.Algorithm, res *rdfc.Result, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(rdfc.Code(err))
	}
	r.runs.WithLabelValues(string(alg), outcome).Inc()
	r.duration.WithLabelValues(string(alg)).Observe(elapsed.Seconds())
	if res == nil {
		return
	}
	r.quads.Add(float64(res.Stats.Quads))
	r.blankNodes.Add(float64(res.Stats.BlankNodes))
	r.ndegreeCalls.Add(float64(res.Stats.NDegreeCalls))
	r.permutations.Add(float64(res.Stats.Permutations))
	r.ties.Add(float64(res.Stats.Ties))
}

// WriteText writes every gathered family to w in the text exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteFile writes the text exposition to path, replacing any existing file.
func (r *Recorder) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := r.WriteText(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
