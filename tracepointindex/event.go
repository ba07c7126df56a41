// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

package tracepointindex // import "github.com/tpcapture/tpcapture/tracepointindex"

import (
	"github.com/tpcapture/tpcapture/libtp"
	"github.com/tpcapture/tpcapture/times"
)

// BucketID names one time-ordered event bucket of the index. For events of
// the profiled target process it is the thread id they fired on; the two
// reserved negative values below never collide with real thread ids, which
// the kernel only hands out as non-negative numbers.
type BucketID int32

const (
	// AllThreadsBucket holds one copy of every target-process event
	// regardless of the thread it came from, giving consumers an
	// "all threads" view without merging the per-thread buckets.
	AllThreadsBucket BucketID = -1

	// ForeignProcessBucket holds events whose process is not the profiled
	// target. Thread ids are not trustworthy for cross-process attribution
	// (the OS reuses them), so such events are never attributed to a
	// per-thread bucket.
	ForeignProcessBucket BucketID = -2
)

// Event is one observed tracepoint firing. Tick is the ordering and
// uniqueness key within a bucket.
type Event struct {
	Tick       times.Tick
	Tracepoint libtp.TracepointID
	PID        libtp.PID
	TID        libtp.TID
	CPU        libtp.CPUID
}
