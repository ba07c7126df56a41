// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

// Package stats summarizes the contents of a tracepoint event index for
// capture-wide reporting. It only uses the index's public read operations
// and can run while ingestion is still in progress.
package stats // import "github.com/tpcapture/tpcapture/stats"

import (
	log "github.com/sirupsen/logrus"

	"github.com/tpcapture/tpcapture/times"
	"github.com/tpcapture/tpcapture/tracepointindex"
)

// CaptureStats is a point-in-time summary of one capture session.
type CaptureStats struct {
	// TotalEvents is the number of accepted ingestion calls.
	TotalEvents uint64
	// TargetEvents is the number of events attributed to the target
	// process, counted via the aggregate bucket.
	TargetEvents int
	// ForeignEvents is the number of events from other processes.
	ForeignEvents int
	// ThreadCount is the number of distinct target threads that fired at
	// least one event.
	ThreadCount int
	// EventsPerThread holds the per-thread bucket sizes.
	EventsPerThread map[tracepointindex.BucketID]int
	// FirstTick and LastTick span the ticks observed across all target
	// threads. Both are zero when no target event was captured.
	FirstTick, LastTick times.Tick
}

// Collect summarizes the index. The summary is a snapshot: concurrent
// ingestion may already have moved on by the time it is returned.
func Collect(ix *tracepointindex.Index) CaptureStats {
	cs := CaptureStats{
		EventsPerThread: make(map[tracepointindex.BucketID]int),
	}

	for _, id := range ix.BucketIDs() {
		switch id {
		case tracepointindex.AllThreadsBucket:
			cs.TargetEvents = ix.CountForBucket(id)
		case tracepointindex.ForeignProcessBucket:
			cs.ForeignEvents = ix.CountForBucket(id)
		default:
			cs.EventsPerThread[id] = ix.CountForBucket(id)
		}
	}
	cs.ThreadCount = len(cs.EventsPerThread)

	aggregate := ix.Snapshot(tracepointindex.AllThreadsBucket)
	if len(aggregate) > 0 {
		cs.FirstTick = aggregate[0].Tick
		cs.LastTick = aggregate[len(aggregate)-1].Tick
	}

	cs.TotalEvents = ix.TotalEventCount()
	return cs
}

// Log writes the summary through the standard logger.
func (cs *CaptureStats) Log() {
	log.Infof("Capture stats: %d events total, %d target (%d threads), %d foreign",
		cs.TotalEvents, cs.TargetEvents, cs.ThreadCount, cs.ForeignEvents)
	if cs.TargetEvents > 0 {
		log.Infof("Capture span: ticks %d..%d (%v)",
			cs.FirstTick, cs.LastTick, cs.LastTick.Time().Sub(cs.FirstTick.Time()))
	}
}
