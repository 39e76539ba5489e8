// Package helper provides test doubles and fixtures shared by the tests of this module:
// a slog.Handler spy, a MetricsCollector spy, a schema-only access point, and the "things" table.
package helper
