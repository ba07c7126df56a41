// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

package libtp // import "github.com/tpcapture/tpcapture/libtp"

// PID represents a Unix Process ID (pid_t). Signed so that the reserved
// negative sentinel bucket ids of the event index can never alias a real
// process: the kernel only ever hands out non-negative ids.
type PID int32

func (p PID) Hash32() uint32 {
	return uint32(p)
}

// TID represents a Unix Thread ID (the kernel task id). Same signedness
// rationale as PID.
type TID int32

func (t TID) Hash32() uint32 {
	return uint32(t)
}

// CPUID is the logical CPU number an event fired on.
type CPUID uint16
