// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

// Package tracepointindex stores the tracepoint events of one capture
// session, bucketed per thread and ordered by capture tick, and serves point
// and range queries while ingestion is still running.
//
// One lock guards the whole index. Every operation, including the visitor
// callbacks of the iteration functions, runs while holding it. A visitor
// must therefore not call back into the index, directly or transitively:
// the lock is not re-entrant and such a call deadlocks.
package tracepointindex // import "github.com/tpcapture/tpcapture/tracepointindex"

import (
	"cmp"
	"maps"
	"slices"

	"github.com/tpcapture/tpcapture/times"
	"github.com/tpcapture/tpcapture/xsync"
)

// bucket keeps the events of one BucketID sorted by ascending tick, at most
// one event per exact tick value.
type bucket struct {
	events []Event
}

// seek returns the position of the first event with a tick >= the given one.
func (b *bucket) seek(tick times.Tick) int {
	idx, _ := slices.BinarySearchFunc(b.events, tick,
		func(ev Event, t times.Tick) int {
			return cmp.Compare(ev.Tick, t)
		})
	return idx
}

// insert adds ev at its sorted position. An event already stored under the
// same tick is replaced; the later insertion wins.
func (b *bucket) insert(ev Event) {
	idx, found := slices.BinarySearchFunc(b.events, ev.Tick,
		func(stored Event, t times.Tick) int {
			return cmp.Compare(stored.Tick, t)
		})
	if found {
		b.events[idx] = ev
		return
	}
	b.events = slices.Insert(b.events, idx, ev)
}

type indexData struct {
	buckets map[BucketID]*bucket

	// totalEvents counts accepted Ingest calls, independent of how many
	// buckets an event was fanned out into.
	totalEvents uint64
}

// Index is the concurrent, time-ordered, per-thread tracepoint event index
// of one capture session. It retains every accepted event until Reset is
// called or the Index is dropped; there is no eviction.
type Index struct {
	data xsync.RWMutex[indexData]
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		data: xsync.NewRWMutex(indexData{
			buckets: make(map[BucketID]*bucket),
		}),
	}
}

func (data *indexData) bucketFor(id BucketID) *bucket {
	b, ok := data.buckets[id]
	if !ok {
		b = &bucket{}
		data.buckets[id] = b
	}
	return b
}

// Ingest stores one decoded tracepoint firing and maps it to threads.
//
// Events of the profiled target process go into the per-thread bucket of
// their TID and are mirrored into AllThreadsBucket. Foreign-process events
// go into ForeignProcessBucket only: the aggregate view is defined as "all
// threads of the target process". Two events ingested into the same bucket
// with an identical tick leave only the later insertion.
//
// No input value is rejected; the caller has already determined whether the
// event's process is the profiled target.
func (ix *Index) Ingest(ev Event, isTargetProcess bool) {
	data := ix.data.WLock()
	defer ix.data.WUnlock(&data)

	if isTargetProcess {
		data.bucketFor(BucketID(ev.TID)).insert(ev)
		data.bucketFor(AllThreadsBucket).insert(ev)
	} else {
		data.bucketFor(ForeignProcessBucket).insert(ev)
	}
	data.totalEvents++
}

// Snapshot returns a copy of the named bucket's events in ascending tick
// order, or nil if the bucket does not exist. The copy stays valid while
// ingestion continues.
func (ix *Index) Snapshot(id BucketID) []Event {
	data := ix.data.RLock()
	defer ix.data.RUnlock(&data)

	b, ok := data.buckets[id]
	if !ok {
		return nil
	}
	return slices.Clone(b.events)
}

// ForEachInRange visits, in ascending tick order, every event in the named
// bucket whose tick lies in the closed interval [minTick, maxTick]. A
// missing bucket visits nothing. The visitor runs under the index lock and
// must not call back into the index.
func (ix *Index) ForEachInRange(id BucketID, minTick, maxTick times.Tick,
	visit func(Event)) {
	data := ix.data.RLock()
	defer ix.data.RUnlock(&data)

	b, ok := data.buckets[id]
	if !ok {
		return
	}
	for idx := b.seek(minTick); idx < len(b.events); idx++ {
		if b.events[idx].Tick > maxTick {
			break
		}
		visit(b.events[idx])
	}
}

// ForEachEvent visits every stored event, in ascending bucket id order and
// within each bucket in ascending tick order. Target-process events are
// visited twice, once in their thread bucket and once in AllThreadsBucket;
// consumers wanting a deduplicated view must skip the aggregate bucket
// themselves. The visitor runs under the index lock and must not call back
// into the index.
func (ix *Index) ForEachEvent(visit func(BucketID, Event)) {
	data := ix.data.RLock()
	defer ix.data.RUnlock(&data)

	for _, id := range slices.Sorted(maps.Keys(data.buckets)) {
		for _, ev := range data.buckets[id].events {
			visit(id, ev)
		}
	}
}

// BucketIDs returns the ids of all buckets that currently hold events, in
// ascending order.
func (ix *Index) BucketIDs() []BucketID {
	data := ix.data.RLock()
	defer ix.data.RUnlock(&data)

	return slices.Sorted(maps.Keys(data.buckets))
}

// CountForBucket returns the number of events currently stored in the named
// bucket, 0 if it does not exist.
func (ix *Index) CountForBucket(id BucketID) int {
	data := ix.data.RLock()
	defer ix.data.RUnlock(&data)

	b, ok := data.buckets[id]
	if !ok {
		return 0
	}
	return len(b.events)
}

// TotalEventCount returns the number of accepted Ingest calls, independent
// of bucket fan-out or tick collisions.
func (ix *Index) TotalEventCount() uint64 {
	data := ix.data.RLock()
	defer ix.data.RUnlock(&data)

	return data.totalEvents
}

// Reset drops all stored events and the total counter so the Index can be
// reused for a new capture session.
func (ix *Index) Reset() {
	data := ix.data.WLock()
	defer ix.data.WUnlock(&data)

	data.buckets = make(map[BucketID]*bucket)
	data.totalEvents = 0
}
