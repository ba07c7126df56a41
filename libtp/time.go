// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

package libtp // import "github.com/tpcapture/tpcapture/libtp"

import "time"

// UnixTime32 represents seconds since epoch. In most cases 32bit time values
// are good enough until year 2106, and the metrics backend batches on second
// granularity anyway.
type UnixTime32 uint32

// NowAsUInt32 is a convenience function to avoid code repetition
func NowAsUInt32() uint32 {
	return uint32(time.Now().Unix())
}
