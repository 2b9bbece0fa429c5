package serial

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/the-user-created/FERS/internal/serial"

// Conversion counters use the global OTel meter, a no-op unless the host
// application installs a provider.
var (
	conversions metric.Int64Counter
	failures    metric.Int64Counter
)

func init() {
	m := otel.Meter(instrumentationName)
	conversions, _ = m.Int64Counter(
		"serial.conversions",
		metric.WithDescription("Completed scenario conversions by direction"),
	)
	failures, _ = m.Int64Counter(
		"serial.failures",
		metric.WithDescription("Failed scenario conversions by direction"),
	)
}

func directionAttr(direction string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("direction", direction))
}
