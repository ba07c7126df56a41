// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

package times

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervals(t *testing.T) {
	tm := New(5*time.Second, 10*time.Second)
	assert.Equal(t, 5*time.Second, tm.MonitorInterval())
	assert.Equal(t, 10*time.Second, tm.StatsInterval())
}

func TestTickConversion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartRealtimeSync(ctx, 0)

	tick := Now()

	// The rebased tick must land close to the realtime clock.
	diff := time.Since(tick.Time())
	if diff < 0 {
		diff = -diff
	}
	assert.Less(t, diff, time.Minute)
}

func TestTickOrdering(t *testing.T) {
	t1 := Now()
	t2 := Now()
	assert.LessOrEqual(t, t1, t2)
}
