package helper

import (
	"maps"
	"sync"
	"time"
)

// MetricsCollectorSpy is an accesspoint.MetricsCollector implementation that captures metrics calls for testing.
type MetricsCollectorSpy struct {
	durationRecords []DurationRecord
	counterRecords  []CounterRecord
	valueRecords    []ValueRecord
	mu              sync.Mutex
}

// DurationRecord represents a recorded duration metric call.
type DurationRecord struct {
	Metric   string
	Duration time.Duration
	Labels   map[string]string
}

// CounterRecord represents a recorded counter-increment call.
type CounterRecord struct {
	Metric string
	Labels map[string]string
}

// ValueRecord represents a recorded value metric call.
type ValueRecord struct {
	Metric string
	Value  float64
	Labels map[string]string
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{
		durationRecords: make([]DurationRecord, 0),
		counterRecords:  make([]CounterRecord, 0),
		valueRecords:    make([]ValueRecord, 0),
	}
}

// RecordDuration implements the MetricsCollector interface.
func (c *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.durationRecords = append(c.durationRecords, DurationRecord{Metric: metric, Duration: duration, Labels: maps.Clone(labels)})
}

// IncrementCounter implements the MetricsCollector interface.
func (c *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counterRecords = append(c.counterRecords, CounterRecord{Metric: metric, Labels: maps.Clone(labels)})
}

// RecordValue implements the MetricsCollector interface.
func (c *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valueRecords = append(c.valueRecords, ValueRecord{Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

// DurationRecords returns a copy of the recorded duration calls.
func (c *MetricsCollectorSpy) DurationRecords() []DurationRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]DurationRecord(nil), c.durationRecords...)
}

// CounterRecords returns a copy of the recorded counter calls.
func (c *MetricsCollectorSpy) CounterRecords() []CounterRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]CounterRecord(nil), c.counterRecords...)
}

// ValueRecords returns a copy of the recorded value calls.
func (c *MetricsCollectorSpy) ValueRecords() []ValueRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]ValueRecord(nil), c.valueRecords...)
}

// HasDuration checks if a duration was recorded for metric with the given operation and status labels.
func (c *MetricsCollectorSpy) HasDuration(metric, operation, status string) bool {
	for _, record := range c.DurationRecords() {
		if record.Metric == metric && record.Labels["operation"] == operation && record.Labels["status"] == status {
			return true
		}
	}

	return false
}

// HasCounter checks if a counter was incremented for metric with the given operation label.
func (c *MetricsCollectorSpy) HasCounter(metric, operation string) bool {
	for _, record := range c.CounterRecords() {
		if record.Metric == metric && record.Labels["operation"] == operation {
			return true
		}
	}

	return false
}
