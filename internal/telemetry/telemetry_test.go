package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/comigor/prepbuddy/internal/config"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TelemetryConfig{Enabled: false, Dir: t.TempDir()}, "test")
	require.NoError(t, err)
	shutdown()
}

func TestInit_WritesTraces(t *testing.T) {
	t.Cleanup(func() {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		otel.SetMeterProvider(noop.NewMeterProvider())
	})

	dir := filepath.Join(t.TempDir(), "telemetry")
	shutdown, err := Init(context.Background(), config.TelemetryConfig{Enabled: true, Dir: dir}, "test")
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "relay.attempt")
	span.End()
	shutdown()

	data, err := os.ReadFile(filepath.Join(dir, "prepbuddy_traces.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "relay.attempt")
}
