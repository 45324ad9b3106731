package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"

	"github.com/yungbote/worldgraph/internal/platform/logger"
)

func TestInitOTelDisabledReturnsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), nil, OtelConfig{})
	assert.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestClampRatio(t *testing.T) {
	assert.Equal(t, 0.0, clampRatio(0))
	assert.Equal(t, 0.0, clampRatio(-2))
	assert.Equal(t, 1.0, clampRatio(7))
	assert.Equal(t, 0.25, clampRatio(0.25))
}

func TestInitOTelZeroRatioSamplesNothing(t *testing.T) {
	ctx := context.Background()
	shutdown := InitOTel(ctx, logger.NewNop(), OtelConfig{Enabled: true, ServiceName: "worldgraph", SampleRatio: 0})
	defer func() { assert.NoError(t, shutdown(ctx)) }()

	_, span := otel.Tracer("worldgraph-test").Start(ctx, "ingest.run")
	defer span.End()
	assert.False(t, span.SpanContext().IsSampled())
}
