package rdfc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTelemetryRecordsSpansAndMetrics(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prevTP := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prevTP) })

	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	_, err := Canonize(mustParse(t, twoCycle), "RDFC-1.0")
	require.NoError(t, err)
	_, err = Canonicalize(context.Background(), mustParse(t, fourCycle), OptMaxDeepIterations(1))
	require.ErrorIs(t, err, ErrTooComplex)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "rdfc.Canonicalize", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("rdfc.algorithm", "RDFC-1.0"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("rdfc.blank_nodes", 2))
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, string(ErrCodeTooComplex), spans[1].Status().Description)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	outcomes := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "rdfc_canonicalize_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				outcome, _ := dp.Attributes.Value("outcome")
				outcomes[outcome.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, int64(1), outcomes["ok"])
	assert.Equal(t, int64(1), outcomes[string(ErrCodeTooComplex)])
}
