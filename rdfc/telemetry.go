package rdfc

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/geoknoesis/rdfc-go/rdfc"

// Metrics for canonicalization calls, created from the global meter provider.
var (
	canonDuration    metric.Float64Histogram
	canonTotal       metric.Int64Counter
	ndegreeCallsHist metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

func tracer() trace.Tracer { return otel.Tracer(instrumentationName) }

// initMetrics creates the instruments once.
func initMetrics() error {
	metricsOnce.Do(func() {
		meter := otel.Meter(instrumentationName)
		var err error

		canonDuration, err = meter.Float64Histogram(
			"rdfc_canonicalize_duration_seconds",
			metric.WithDescription("Duration of dataset canonicalization"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		canonTotal, err = meter.Int64Counter(
			"rdfc_canonicalize_total",
			metric.WithDescription("Total number of canonicalization calls"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		ndegreeCallsHist, err = meter.Int64Histogram(
			"rdfc_ndegree_calls",
			metric.WithDescription("N-degree hash invocations per canonicalization"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startCanonicalizeSpan(ctx context.Context, alg Algorithm, quads int) (context.Context, trace.Span) {
	return tracer().Start(ctx, "rdfc.Canonicalize",
		trace.WithAttributes(
			attribute.String("rdfc.algorithm", alg.String()),
			attribute.Int("rdfc.quads", quads),
		),
	)
}

func finishCanonicalizeSpan(span trace.Span, res *Result, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(Code(err)))
		return
	}
	span.SetAttributes(
		attribute.Int("rdfc.blank_nodes", res.Stats.BlankNodes),
		attribute.Int("rdfc.ndegree_rounds", res.Stats.NDegreeRounds),
		attribute.Int64("rdfc.ndegree_calls", res.Stats.NDegreeCalls),
		attribute.Int("rdfc.ties", res.Stats.Ties),
	)
}

func recordCanonicalizeMetrics(ctx context.Context, alg Algorithm, duration time.Duration, res *Result, err error) {
	if initMetrics() != nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(Code(err))
	}
	attrs := metric.WithAttributes(
		attribute.String("algorithm", alg.String()),
		attribute.String("outcome", outcome),
	)
	canonDuration.Record(ctx, duration.Seconds(), attrs)
	canonTotal.Add(ctx, 1, attrs)
	if res != nil {
		ndegreeCallsHist.Record(ctx, res.Stats.NDegreeCalls, metric.WithAttributes(
			attribute.String("algorithm", alg.String()),
		))
	}
}
