// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

// Package libtp holds the base types shared across the capture pipeline.
package libtp // import "github.com/tpcapture/tpcapture/libtp"

import (
	"math/rand/v2"
	"time"
)

// Void allows to use maps as sets without memory allocation for the values.
// Useful for the case where a set of items needs to be tracked but the
// values attached to them carry no information.
type Void struct{}

// AddJitter adds +/- jitter (jitter is [0..1]) to baseDuration
func AddJitter(baseDuration time.Duration, jitter float64) time.Duration {
	if jitter < 0.0 || jitter > 1.0 {
		return baseDuration
	}
	//nolint:gosec
	return time.Duration((1 + jitter - 2*jitter*rand.Float64()) * float64(baseDuration))
}
