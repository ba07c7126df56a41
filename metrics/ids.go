// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

package metrics // import "github.com/tpcapture/tpcapture/metrics"

// Below are the different metric IDs that we currently implement.
// To add a new metric append an entry to the definitions table. ONLY APPEND!
const (
	// Leave out the 0 value. It's an indication of not explicitly
	// initialized variables.
	IDInvalid MetricID = 0

	// Number of tracepoint events accepted into the index.
	IDEventsIngested MetricID = 1

	// Number of ingested events attributed to the profiled target process.
	IDEventsTarget MetricID = 2

	// Number of ingested events that originated outside the target process.
	IDEventsForeign MetricID = 3

	// Tracepoint definition cache hits in the ingest handler.
	IDDefinitionCacheHit MetricID = 4

	// Tracepoint definition cache misses in the ingest handler.
	IDDefinitionCacheMiss MetricID = 5

	// Absolute number of buckets currently held by the index.
	IDIndexBuckets MetricID = 6

	// Absolute number of Ingest calls accepted by the index so far.
	IDIndexTotalEvents MetricID = 7

	// IDMax is the first unused metric ID.
	IDMax MetricID = 8
)

var definitions = []MetricDefinition{
	{
		ID:          IDEventsIngested,
		Type:        MetricTypeCounter,
		Name:        "events_ingested",
		Description: "Tracepoint events accepted into the index",
		Unit:        "{events}",
	},
	{
		ID:          IDEventsTarget,
		Type:        MetricTypeCounter,
		Name:        "events_target",
		Description: "Ingested events attributed to the target process",
		Unit:        "{events}",
	},
	{
		ID:          IDEventsForeign,
		Type:        MetricTypeCounter,
		Name:        "events_foreign",
		Description: "Ingested events from outside the target process",
		Unit:        "{events}",
	},
	{
		ID:          IDDefinitionCacheHit,
		Type:        MetricTypeCounter,
		Name:        "definition_cache_hit",
		Description: "Tracepoint definition cache hits",
		Unit:        "{lookups}",
	},
	{
		ID:          IDDefinitionCacheMiss,
		Type:        MetricTypeCounter,
		Name:        "definition_cache_miss",
		Description: "Tracepoint definition cache misses",
		Unit:        "{lookups}",
	},
	{
		ID:          IDIndexBuckets,
		Type:        MetricTypeGauge,
		Name:        "index_buckets",
		Description: "Buckets currently held by the index",
		Unit:        "{buckets}",
	},
	{
		ID:          IDIndexTotalEvents,
		Type:        MetricTypeGauge,
		Name:        "index_total_events",
		Description: "Ingest calls accepted by the index so far",
		Unit:        "{events}",
	},
}

// GetDefinitions returns the definitions of all known metric IDs.
func GetDefinitions() []MetricDefinition {
	return definitions
}
