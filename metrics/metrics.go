// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics buffers pipeline metrics per one-second timestamp and
// forwards them to OTel instruments and an optional reporter.
package metrics // import "github.com/tpcapture/tpcapture/metrics"

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/tpcapture/tpcapture/libtp"
	"github.com/tpcapture/tpcapture/vc"
)

// Reporter is implemented by consumers that want the raw per-timestamp
// batches in addition to the OTel instruments.
type Reporter interface {
	// ReportMetrics accepts a batch of metrics for one timestamp.
	ReportMetrics(timestamp uint32, ids []uint32, values []int64)
}

var (
	// prevTimestamp holds the timestamp of the buffered metrics
	prevTimestamp libtp.UnixTime32

	// metricsBuffer buffers the metrics for the timestamp assigned to
	// prevTimestamp
	metricsBuffer = make([]Metric, IDMax)

	// metricIDSet is a bitvector used for fast membership operations, to
	// avoid reporting the same metric ID multiple times in the same batch
	metricIDSet = make([]uint64, 1+(IDMax/64))

	// nMetrics is the number of the current entries in metricsBuffer
	nMetrics int

	// mutex serializes the concurrent calls to AddSlice()
	mutex sync.RWMutex

	// Used in fallback checks, e.g. to avoid sending "counters" with 0 values
	metricTypes map[MetricID]MetricType

	// OTel metric instrumentation
	meter = otel.Meter("github.com/tpcapture/tpcapture",
		metric.WithInstrumentationVersion(vc.Version()))
	counters = map[MetricID]metric.Int64Counter{}
	gauges   = map[MetricID]metric.Int64Gauge{}

	reporterImpl Reporter
)

// SetReporter sets the optional batch reporter.
func SetReporter(r Reporter) {
	reporterImpl = r
}

func init() {
	defs := GetDefinitions()
	metricTypes = make(map[MetricID]MetricType, len(defs))
	for _, md := range defs {
		metricTypes[md.ID] = md.Type
		switch typ := md.Type; typ {
		case MetricTypeCounter:
			counter, err := meter.Int64Counter(md.Name,
				metric.WithDescription(md.Description),
				metric.WithUnit(md.Unit))
			if err != nil {
				log.Errorf("Creating Int64Counter: %v", err)
				continue
			}
			counters[md.ID] = counter
		case MetricTypeGauge:
			gauge, err := meter.Int64Gauge(md.Name,
				metric.WithDescription(md.Description),
				metric.WithUnit(md.Unit))
			if err != nil {
				log.Errorf("Creating Int64Gauge: %v", err)
				continue
			}
			gauges[md.ID] = gauge
		default:
			panic(fmt.Sprintf("Unknown metric type: %v", typ))
		}
	}
}

// report converts and reports collected metrics via OTel metrics.
// Allow for report to be overridden in the test.
var report = func() {
	ctx := context.Background()
	if reporterImpl != nil {
		ids := make([]uint32, nMetrics)
		values := make([]int64, nMetrics)

		for i := 0; i < nMetrics; i++ {
			ids[i] = uint32(metricsBuffer[i].ID)
			values[i] = int64(metricsBuffer[i].Value)
		}
		reporterImpl.ReportMetrics(uint32(prevTimestamp), ids, values)
	}
	for i := range nMetrics {
		buffered := metricsBuffer[i]
		switch typ := metricTypes[buffered.ID]; typ {
		case MetricTypeCounter:
			if counter, ok := counters[buffered.ID]; ok {
				counter.Add(ctx, int64(buffered.Value))
			}
		case MetricTypeGauge:
			if gauge, ok := gauges[buffered.ID]; ok {
				gauge.Record(ctx, int64(buffered.Value))
			}
		}
	}
	nMetrics = 0
	for idx := range metricIDSet {
		metricIDSet[idx] = 0
	}
}

// AddSlice takes a slice of metrics from a metric provider.
// The function buffers the metrics and returns immediately.
//
// Here we collect all metrics until the timestamp changes.
// We then call report() to report all metrics from the previous timestamp.
// This ensures that the buffered metrics from the previous timestamp are
// sent with the correctly assigned timestamp.
func AddSlice(newMetrics []Metric) {
	now := libtp.UnixTime32(libtp.NowAsUInt32())

	mutex.Lock()
	defer mutex.Unlock()

	if prevTimestamp != now && nMetrics > 0 {
		report()
	}
	prevTimestamp = now

	if newMetrics == nil {
		return
	}

	for _, m := range newMetrics {
		if m.ID <= IDInvalid || m.ID >= IDMax {
			log.Errorf("Metric value %d out of range [%d,%d] - needs investigation",
				m.ID, IDInvalid+1, IDMax-1)
			continue
		}

		if _, ok := metricTypes[m.ID]; !ok {
			log.Warnf("Invalid metric id %d, skipping", m.ID)
			continue
		}

		if m.Value == 0 && metricTypes[m.ID] == MetricTypeCounter {
			continue
		}

		idx := m.ID / 64
		mask := uint64(1) << (m.ID % 64)
		if metricIDSet[idx]&mask > 0 {
			log.Warnf("Metric ID %d:%v reported multiple times", m.ID, m.Value)
			continue
		}

		if nMetrics >= len(metricsBuffer) {
			// Should not happen
			log.Errorf("AddSlice capped reporting to %d metrics - needs investigation",
				len(metricsBuffer))
			continue
		}

		metricIDSet[idx] |= mask
		metricsBuffer[nMetrics].ID = m.ID
		metricsBuffer[nMetrics].Value = m.Value
		nMetrics++
	}
}

// Add takes a single metric (id and value) from a metric provider.
// The function buffers the metric and returns immediately.
func Add(id MetricID, value MetricValue) {
	AddSlice([]Metric{{id, value}})
}
