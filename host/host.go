// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

// Package host implements the types the kernel-side tracepoint decoder hands
// to the rest of the capture pipeline.
package host // import "github.com/tpcapture/tpcapture/host"

import (
	"github.com/tpcapture/tpcapture/libtp"
	"github.com/tpcapture/tpcapture/times"
)

// TracepointEvent is one decoded tracepoint firing as delivered by the
// decoder, before it is attributed to the profiled target and indexed.
type TracepointEvent struct {
	// Tick is the monotonic capture timestamp of the firing.
	Tick times.Tick
	// Tracepoint identifies the schema of the event.
	Tracepoint libtp.TracepointID
	// PID and TID name the task the event fired on, as reported by the
	// kernel at capture time.
	PID libtp.PID
	TID libtp.TID
	// CPU is the logical CPU the event fired on.
	CPU libtp.CPUID
	// Comm is the command name of the task, if the decoder resolved it.
	Comm string
}
