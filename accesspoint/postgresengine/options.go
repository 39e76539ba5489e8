package postgresengine

import (
	"github.com/rbiro/Multicorn/accesspoint"
)

// Option defines a functional option for configuring AccessPoint.
type Option func(*AccessPoint) error

// WithTableName sets the table name for the AccessPoint.
func WithTableName(tableName string) Option {
	return func(ap *AccessPoint) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		ap.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the AccessPoint.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: Item counts and durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger accesspoint.Logger) Option {
	return func(ap *AccessPoint) error {
		ap.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the AccessPoint.
// The collector will receive operation durations, returned item counts, and database errors.
func WithMetrics(collector accesspoint.MetricsCollector) Option {
	return func(ap *AccessPoint) error {
		ap.metricsCollector = collector
		return nil
	}
}
