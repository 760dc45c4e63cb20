package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	GenerationRequestsTotal   metric.Int64Counter
	GenerationDurationSeconds metric.Float64Histogram
	UpstreamErrorsTotal       metric.Int64Counter
	ImageLookupsTotal         metric.Int64Counter
	ImageCacheHitsTotal       metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider, so the
// tracer/metrics bootstrap must run first.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-trip-planner")
		var err error
		m := &AppMetrics{}

		m.GenerationRequestsTotal, err = meter.Int64Counter(
			"trip_generation_requests_total",
			metric.WithDescription("Total number of completed trip generation requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_generation_requests_total: %v", err)
		}

		m.GenerationDurationSeconds, err = meter.Float64Histogram(
			"trip_generation_duration_seconds",
			metric.WithDescription("Duration of trip generation requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_generation_duration_seconds: %v", err)
		}

		m.UpstreamErrorsTotal, err = meter.Int64Counter(
			"trip_upstream_errors_total",
			metric.WithDescription("Total number of generation API call failures"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_upstream_errors_total: %v", err)
		}

		m.ImageLookupsTotal, err = meter.Int64Counter(
			"image_lookups_total",
			metric.WithDescription("Total number of decorative image lookups"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create image_lookups_total: %v", err)
		}

		m.ImageCacheHitsTotal, err = meter.Int64Counter(
			"image_cache_hits_total",
			metric.WithDescription("Image lookups served from the session cache"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create image_cache_hits_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the initialized instruments, or nil when InitAppMetrics has
// not run (tests don't bootstrap the meter provider).
func Get() *AppMetrics {
	return appMetrics
}
