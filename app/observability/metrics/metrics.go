package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	TripsCreatedTotal      metric.Int64Counter
	StopsReorderedTotal    metric.Int64Counter
	CitySearchesTotal      metric.Int64Counter
	CityCacheHitsTotal     metric.Int64Counter
	DbQueryDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments only once.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("globetrotter")
		var err error
		m := &AppMetrics{}

		m.TripsCreatedTotal, err = meter.Int64Counter(
			"trips_created_total",
			metric.WithDescription("Total number of trips created"),
			metric.WithUnit("{trip}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trips_created_total: %v", err)
		}

		m.StopsReorderedTotal, err = meter.Int64Counter(
			"stops_reordered_total",
			metric.WithDescription("Total number of stop reorder operations"),
			metric.WithUnit("{operation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create stops_reordered_total: %v", err)
		}

		m.CitySearchesTotal, err = meter.Int64Counter(
			"city_searches_total",
			metric.WithDescription("Total number of city search requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create city_searches_total: %v", err)
		}

		m.CityCacheHitsTotal, err = meter.Int64Counter(
			"city_cache_hits_total",
			metric.WithDescription("City autocomplete results served from cache"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create city_cache_hits_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
