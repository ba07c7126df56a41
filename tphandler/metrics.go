// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

package tphandler // import "github.com/tpcapture/tpcapture/tphandler"

import "github.com/tpcapture/tpcapture/metrics"

func (m *eventHandler) collectMetrics() {
	metrics.AddSlice([]metrics.Metric{
		{
			ID:    metrics.IDEventsIngested,
			Value: metrics.MetricValue(m.eventsTarget + m.eventsForeign),
		},
		{
			ID:    metrics.IDEventsTarget,
			Value: metrics.MetricValue(m.eventsTarget),
		},
		{
			ID:    metrics.IDEventsForeign,
			Value: metrics.MetricValue(m.eventsForeign),
		},
		{
			ID:    metrics.IDDefinitionCacheHit,
			Value: metrics.MetricValue(m.defCacheHit),
		},
		{
			ID:    metrics.IDDefinitionCacheMiss,
			Value: metrics.MetricValue(m.defCacheMiss),
		},
		{
			ID:    metrics.IDIndexBuckets,
			Value: metrics.MetricValue(len(m.index.BucketIDs())),
		},
		{
			ID:    metrics.IDIndexTotalEvents,
			Value: metrics.MetricValue(m.index.TotalEventCount()),
		},
	})

	m.eventsTarget = 0
	m.eventsForeign = 0
	m.defCacheHit = 0
	m.defCacheMiss = 0
}
