// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

package libtp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTracepointID(t *testing.T) {
	schedSwitch := NewTracepointID("sched", "sched_switch")

	// Ids are stable and depend on the full category:name.
	assert.Equal(t, schedSwitch, NewTracepointID("sched", "sched_switch"))
	assert.NotEqual(t, schedSwitch, NewTracepointID("sched", "sched_wakeup"))
	assert.NotEqual(t, schedSwitch, NewTracepointID("irq", "sched_switch"))
}

func TestAddJitter(t *testing.T) {
	baseDuration := 100 * time.Millisecond

	// Out of range jitter returns the base duration unchanged.
	assert.Equal(t, baseDuration, AddJitter(baseDuration, -0.1))
	assert.Equal(t, baseDuration, AddJitter(baseDuration, 1.1))

	for range 32 {
		d := AddJitter(baseDuration, 0.2)
		assert.GreaterOrEqual(t, d, 80*time.Millisecond)
		assert.LessOrEqual(t, d, 120*time.Millisecond)
	}
}
