// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

package metrics // import "github.com/tpcapture/tpcapture/metrics"

// MetricID is the type for metric IDs.
type MetricID uint16

// MetricValue is the type for metric values.
type MetricValue int64

// Metric is the type for a metric id/value pair.
type Metric struct {
	ID    MetricID
	Value MetricValue
}

// MetricType classifies how a metric value is to be interpreted.
type MetricType uint8

const (
	// MetricTypeCounter is a monotonically accumulating value, reported as
	// a delta since the previous report.
	MetricTypeCounter MetricType = iota + 1
	// MetricTypeGauge is an absolute value sampled at report time.
	MetricTypeGauge
)

// MetricDefinition describes one metric ID.
type MetricDefinition struct {
	ID          MetricID
	Type        MetricType
	Name        string
	Description string
	Unit        string
}

// Summary helps summarizing metrics of the same ID from different sources
// before processing it further.
type Summary map[MetricID]MetricValue
