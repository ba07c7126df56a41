// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

// Package times centralizes the clocks and intervals used across the capture
// pipeline.
package times // import "github.com/tpcapture/tpcapture/times"

import (
	"context"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/tpcapture/tpcapture/periodiccaller"
)

const (
	// Number of timing samples to use when retrieving the monotonic clock
	// offset.
	sampleSize = 5
)

// Compile time check for interface adherence
var _ IntervalsAndTimers = (*Times)(nil)

var (
	// Monotonic-to-unixtime delta that can be added to a monotonic
	// (CLOCK_MONOTONIC) tick to convert it to time-since-epoch.
	bootTimeUnixNano atomic.Int64
)

// Times holds the intervals used across the capture pipeline in a central
// place and comes with getters to read them.
type Times struct {
	monitorInterval time.Duration
	statsInterval   time.Duration
}

// IntervalsAndTimers is a meta-interface that exists purely to document its
// functionality.
type IntervalsAndTimers interface {
	// MonitorInterval defines the interval for handler metric collection.
	MonitorInterval() time.Duration
	// StatsInterval defines the interval at which capture statistics are
	// summarized and logged.
	StatsInterval() time.Duration
}

func (t *Times) MonitorInterval() time.Duration { return t.monitorInterval }

func (t *Times) StatsInterval() time.Duration { return t.statsInterval }

// StartRealtimeSync calculates a delta between the monotonic clock
// (CLOCK_MONOTONIC, rebased to unixtime) and the realtime clock. If
// syncInterval is greater than zero, it also starts a goroutine to perform
// that calculation periodically.
func StartRealtimeSync(ctx context.Context, syncInterval time.Duration) {
	bootTimeUnixNano.Store(getBootTimeUnixNano())

	if syncInterval > 0 {
		periodiccaller.Start(ctx, syncInterval, func() {
			bootTimeUnixNano.Store(getBootTimeUnixNano())
		})
	}
}

// New returns a new Times instance.
func New(monitorInterval, statsInterval time.Duration) *Times {
	return &Times{
		monitorInterval: monitorInterval,
		statsInterval:   statsInterval,
	}
}

// getBootTimeUnixNano returns system boot time in nanoseconds since the
// epoch, temporarily locking the calling goroutine to its OS thread.
func getBootTimeUnixNano() int64 {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	samples := make([]struct {
		t1    time.Time
		ktime int64
		t2    time.Time
	}, sampleSize)

	for i := range samples {
		// To avoid noise from scheduling / other delays, we perform a
		// series of measurements and pick the one with the lowest delta.
		samples[i].t1 = time.Now()
		samples[i].ktime = nanotime()
		samples[i].t2 = time.Now()
	}

	sort.Slice(samples, func(i, j int) bool {
		di := samples[i].t2.UnixNano() - samples[i].t1.UnixNano()
		dj := samples[j].t2.UnixNano() - samples[j].t1.UnixNano()
		if di < 0 {
			di = -di
		}
		if dj < 0 {
			dj = -dj
		}
		return di < dj
	})

	// This should never be negative, as t1.UnixNano() >> ktime
	return samples[0].t1.UnixNano() - samples[0].ktime
}
