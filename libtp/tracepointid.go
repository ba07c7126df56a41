// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

package libtp // import "github.com/tpcapture/tpcapture/libtp"

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// TracepointID identifies a tracepoint schema (its category and name as
// registered under the kernel's tracefs, e.g. "sched:sched_switch"). It is
// the stable 64-bit hash of that full name, so producers and consumers can
// exchange it without shipping the string with every event.
type TracepointID uint64

// NewTracepointID computes the id for a tracepoint given its tracefs
// category and event name.
// xxh3 is 4x faster than fnv.
func NewTracepointID(category, name string) TracepointID {
	return TracepointID(xxh3.HashString(category + ":" + name))
}

func (t TracepointID) Hash32() uint32 {
	return uint32(t) ^ uint32(t>>32)
}

func (t TracepointID) String() string {
	return fmt.Sprintf("%#016x", uint64(t))
}
