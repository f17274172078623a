package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "townsquare-test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	span, ctx := NewSpan(context.Background(), "noop", attribute.String("k", "v"))
	assert.NotNil(t, ctx)
	span.AddAttributes(attribute.Int("n", 1))
	span.End(errors.New("ignored by noop tracer"))
}

func TestInitTracing_StdoutSampled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{
		ServiceName:  "townsquare-test",
		Environment:  "test",
		Enabled:      true,
		Exporter:     "stdout",
		SamplerRatio: 1.0,
	})
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	span, _ := NewSpan(context.Background(), "sampled")
	assert.Len(t, span.TraceID(), 32)
	span.End(nil)
}

func TestOutcomeAndTrackQuery(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "error", Outcome(errors.New("x")))

	before := testutil.CollectAndCount(DatabaseQueryLatency)
	TrackQuery("select_test", "posts")()
	assert.GreaterOrEqual(t, testutil.CollectAndCount(DatabaseQueryLatency), before)
}
