// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

package tphandler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpcapture/tpcapture/host"
	"github.com/tpcapture/tpcapture/libtp"
	"github.com/tpcapture/tpcapture/times"
	"github.com/tpcapture/tpcapture/tphandler"
	"github.com/tpcapture/tpcapture/tracepointindex"
)

type fakeTimes struct {
	monitorInterval time.Duration
}

func defaultTimes() *fakeTimes {
	return &fakeTimes{monitorInterval: 1 * time.Hour}
}

func (ft *fakeTimes) MonitorInterval() time.Duration { return ft.monitorInterval }

// fakeResolver implements a fake TracepointResolver used only within the
// test scope.
type fakeResolver struct {
	resolutions atomic.Uint32
}

// Compile time check to make sure fakeResolver satisfies the interfaces.
var _ tphandler.TracepointResolver = (*fakeResolver)(nil)

func (f *fakeResolver) ResolveTracepoint(id libtp.TracepointID) (tphandler.Definition, error) {
	f.resolutions.Add(1)
	return tphandler.Definition{Category: "sched", Name: id.String()}, nil
}

const targetPID = libtp.PID(42)

// arguments holds the inputs to test the appropriate functions.
type arguments struct {
	// event holds the arguments for the function HandleEvent().
	event *host.TracepointEvent
}

func rawEvent(tick uint64, tp uint64, pid, tid int32) *host.TracepointEvent {
	return &host.TracepointEvent{
		Tick:       times.Tick(tick),
		Tracepoint: libtp.TracepointID(tp),
		PID:        libtp.PID(pid),
		TID:        libtp.TID(tid),
	}
}

func TestEventHandler(t *testing.T) {
	tests := map[string]struct {
		input          []arguments
		expectedCounts map[tracepointindex.BucketID]int
		expectedTotal  uint64
	}{
		// no input simulates a case where no data is provided as input
		// to the functions of eventHandler.
		"no input": {input: []arguments{}},

		// simulates a single event of the profiled target being received.
		"single target event": {
			input: []arguments{
				{event: rawEvent(100, 7, 42, 50)},
			},
			expectedCounts: map[tracepointindex.BucketID]int{
				50:                                   1,
				tracepointindex.AllThreadsBucket:     1,
				tracepointindex.ForeignProcessBucket: 0,
			},
			expectedTotal: 1,
		},

		// events of other processes must only land in the foreign bucket.
		"mixed processes": {
			input: []arguments{
				{event: rawEvent(100, 7, 42, 50)},
				{event: rawEvent(200, 7, 99, 50)},
				{event: rawEvent(300, 7, 42, 60)},
			},
			expectedCounts: map[tracepointindex.BucketID]int{
				50:                                   1,
				60:                                   1,
				tracepointindex.AllThreadsBucket:     2,
				tracepointindex.ForeignProcessBucket: 1,
			},
			expectedTotal: 3,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ix := tracepointindex.New()
			resolver := &fakeResolver{}

			eventChan := make(chan *host.TracepointEvent)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			exitNotify, err := tphandler.Start(ctx, ix, resolver, targetPID,
				eventChan, defaultTimes(), 128)
			require.NoError(t, err)

			for _, input := range test.input {
				eventChan <- input.event
			}

			cancel()
			<-exitNotify

			assert.Equal(t, test.expectedTotal, ix.TotalEventCount())
			for id, count := range test.expectedCounts {
				assert.Equal(t, count, ix.CountForBucket(id), "bucket %d", id)
			}
		})
	}
}

func TestDefinitionCaching(t *testing.T) {
	ix := tracepointindex.New()
	resolver := &fakeResolver{}

	eventChan := make(chan *host.TracepointEvent)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	exitNotify, err := tphandler.Start(ctx, ix, resolver, targetPID,
		eventChan, defaultTimes(), 128)
	require.NoError(t, err)

	// The same tracepoint fires repeatedly; only the first occurrence may
	// hit the resolver.
	for tick := uint64(1); tick <= 16; tick++ {
		eventChan <- rawEvent(tick, 7, 42, 50)
	}

	cancel()
	<-exitNotify

	assert.EqualValues(t, 1, resolver.resolutions.Load())
	assert.EqualValues(t, 16, ix.TotalEventCount())
}
