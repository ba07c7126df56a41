// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

package times // import "github.com/tpcapture/tpcapture/times"

import (
	"time"
	_ "unsafe" // required to use //go:linkname for runtime.nanotime
)

// Tick stores a timestamp from the monotonic capture clock, in nanoseconds.
// It is the ordering key for every captured tracepoint event.
type Tick uint64

//go:noescape
//go:linkname nanotime runtime.nanotime
func nanotime() int64

// Now returns the current monotonic tick in the same format as the
// bpf_ktime_get_ns() eBPF call. This relies on runtime.nanotime using
// CLOCK_MONOTONIC. Going through the runtime is superior in performance, as
// it is able to use the vDSO to query the time without a syscall.
func Now() Tick {
	return Tick(nanotime())
}

// Time converts the tick into a Go time object.
func (t Tick) Time() time.Time {
	return time.Unix(0, t.UnixNano())
}

// UnixNano converts the tick to nanoseconds since the epoch.
func (t Tick) UnixNano() int64 {
	return int64(t) + bootTimeUnixNano.Load()
}
