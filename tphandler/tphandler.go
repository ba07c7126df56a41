// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

// Package tphandler attributes decoded tracepoint events to the profiled
// target process and feeds them into the event index.
package tphandler // import "github.com/tpcapture/tpcapture/tphandler"

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/elastic/go-freelru"
	log "github.com/sirupsen/logrus"

	"github.com/tpcapture/tpcapture/host"
	"github.com/tpcapture/tpcapture/libtp"
	"github.com/tpcapture/tpcapture/times"
	"github.com/tpcapture/tpcapture/tracepointindex"
)

// Compile time check to make sure times.Times satisfies the interfaces.
var _ Times = (*times.Times)(nil)

// Times is a subset of times.IntervalsAndTimers.
type Times interface {
	MonitorInterval() time.Duration
}

// Default lifetime of elements in the cache to reduce recurring
// resolution efforts.
var definitionCacheLifetime = 5 * time.Minute

// Definition is the human-readable schema of a tracepoint, as registered
// under the kernel's tracefs.
type Definition struct {
	Category string
	Name     string
}

func (d Definition) String() string {
	return d.Category + ":" + d.Name
}

// TracepointResolver is an interface used by the handler to look up the
// definition behind a tracepoint schema id. Resolution typically involves
// reading tracefs format files, so results are cached.
type TracepointResolver interface {
	// ResolveTracepoint returns the definition registered for the given id.
	ResolveTracepoint(id libtp.TracepointID) (Definition, error)
}

// eventHandler routes decoded tracepoint events into the index and keeps
// the capture-session bookkeeping around them.
type eventHandler struct {
	// Metrics
	defCacheHit   uint64
	defCacheMiss  uint64
	eventsTarget  uint64
	eventsForeign uint64

	resolver TracepointResolver

	// defCache stores mappings from tracepoint ids to resolved definitions.
	// This allows avoiding the overhead of re-resolving tracepoints that we
	// have recently seen already.
	defCache *lru.SyncedLRU[libtp.TracepointID, Definition]

	// index receives every accepted event.
	index *tracepointindex.Index

	// targetPID is the process being profiled in this capture session.
	targetPID libtp.PID

	times Times
}

// newEventHandler creates a new eventHandler
func newEventHandler(ctx context.Context, index *tracepointindex.Index,
	resolver TracepointResolver, targetPID libtp.PID, intervals Times,
	cacheSize uint32) (*eventHandler, error) {
	defCache, err := lru.NewSynced[libtp.TracepointID, Definition](
		cacheSize, libtp.TracepointID.Hash32)
	if err != nil {
		return nil, err
	}
	// Do not hold elements indefinitely in the cache.
	defCache.SetLifetime(definitionCacheLifetime)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		wg.Done()
		ticker := time.NewTicker(definitionCacheLifetime)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				defCache.PurgeExpired()
			}
		}
	}()

	// Wait to make sure the purge routine did start.
	wg.Wait()

	return &eventHandler{
		resolver:  resolver,
		defCache:  defCache,
		index:     index,
		targetPID: targetPID,
		times:     intervals,
	}, nil
}

func (m *eventHandler) HandleEvent(raw *host.TracepointEvent) {
	isTargetProcess := raw.PID == m.targetPID

	if _, exists := m.defCache.GetAndRefresh(raw.Tracepoint,
		definitionCacheLifetime); exists {
		m.defCacheHit++
	} else {
		m.defCacheMiss++

		// Slow path: resolve the definition behind the schema id.
		def, err := m.resolver.ResolveTracepoint(raw.Tracepoint)
		if err != nil {
			// The event is still indexed; only its name stays unknown.
			log.Debugf("Failed to resolve tracepoint %s fired by %s (pid %d): %v",
				raw.Tracepoint, raw.Comm, raw.PID, err)
		} else {
			log.Debugf("Tracepoint remap %s -> %s", raw.Tracepoint, def)
			m.defCache.Add(raw.Tracepoint, def)
		}
	}

	if isTargetProcess {
		m.eventsTarget++
	} else {
		m.eventsForeign++
	}

	m.index.Ingest(tracepointindex.Event{
		Tick:       raw.Tick,
		Tracepoint: raw.Tracepoint,
		PID:        raw.PID,
		TID:        raw.TID,
		CPU:        raw.CPU,
	}, isTargetProcess)
}

// Start starts a goroutine that receives and indexes decoded tracepoint
// events over the given channel for the lifetime of one capture session.
// The returned channel allows the caller to wait for the background worker
// to exit after a cancellation through the context.
func Start(ctx context.Context, index *tracepointindex.Index,
	resolver TracepointResolver, targetPID libtp.PID,
	eventInChan <-chan *host.TracepointEvent, intervals Times, cacheSize uint32,
) (workerExited <-chan libtp.Void, err error) {
	handler, err :=
		newEventHandler(ctx, index, resolver, targetPID, intervals, cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create eventHandler: %v", err)
	}

	exitChan := make(chan libtp.Void)

	go func() {
		defer close(exitChan)

		metricsTicker := time.NewTicker(intervals.MonitorInterval())
		defer metricsTicker.Stop()

		// Poll the output channels
		for {
			select {
			case rawEvent := <-eventInChan:
				if rawEvent != nil {
					handler.HandleEvent(rawEvent)
				}
			case <-metricsTicker.C:
				handler.collectMetrics()
			case <-ctx.Done():
				return
			}
		}
	}()

	return exitChan, nil
}
