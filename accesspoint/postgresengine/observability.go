package postgresengine

import (
	"math"
	"time"
)

// logQueryWithDuration logs SQL statements with execution time at debug level if the logger is configured.
func (ap *AccessPoint) logQueryWithDuration(
	sqlQuery string,
	action string,
	duration time.Duration,
) {
	if ap.logger != nil {
		ap.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (ap *AccessPoint) logOperation(action string, args ...any) {
	if ap.logger != nil {
		ap.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (ap *AccessPoint) logError(
	message string,
	err error,
	args ...any,
) {
	if ap.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		ap.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func (ap *AccessPoint) recordErrorMetrics(operation, errorType string) {
	if ap.metricsCollector != nil {
		labels := map[string]string{
			metricLabelOperation: operation,
			metricLabelStatus:    statusError,
			metricLabelErrorType: errorType,
		}
		ap.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
	}
}

func (ap *AccessPoint) recordDurationMetrics(operation, status string, duration time.Duration) {
	if ap.metricsCollector != nil {
		labels := map[string]string{
			metricLabelOperation: operation,
			metricLabelStatus:    status,
		}
		ap.metricsCollector.RecordDuration(metricQueryDuration, duration, labels)
	}
}

func (ap *AccessPoint) recordValueMetrics(operation string, value float64) {
	if ap.metricsCollector != nil {
		labels := map[string]string{
			metricLabelOperation: operation,
			metricLabelStatus:    statusSuccess,
		}
		ap.metricsCollector.RecordValue(metricItemsReturned, value, labels)
	}
}
