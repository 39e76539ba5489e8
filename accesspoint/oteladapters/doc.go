// Package oteladapters provides an OpenTelemetry implementation of accesspoint.MetricsCollector.
//
// It lives in its own module so that the OpenTelemetry dependencies stay out of the main module:
//
//	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
//	collector := oteladapters.NewMetricsCollector(provider.Meter("multicorn"))
//	ap, err := postgresengine.NewAccessPointFromPGXPool(pool, schema, postgresengine.WithMetrics(collector))
package oteladapters
