// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

package xsync_test

import (
	"bytes"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tpcapture/tpcapture/xsync"
)

type sharedResourceMutable struct {
	somethingThatNeedsLocking uint64
}

type sharedResource struct {
	mutable             xsync.RWMutex[sharedResourceMutable]
	intrinsicallySynced atomic.Uint64
}

func TestRWMutex(t *testing.T) {
	// Data is split into two halves: the portion that needs locking and the
	// portion that is either constant or intrinsically synchronized.
	res := sharedResource{
		mutable: xsync.NewRWMutex(sharedResourceMutable{
			somethingThatNeedsLocking: 891723,
		}),
		intrinsicallySynced: atomic.Uint64{},
	}

	mutable := res.mutable.RLock()
	mutable.somethingThatNeedsLocking += 123
	res.mutable.RUnlock(&mutable)
	// RUnlock zeros the reference to make sure we can't accidentally use it
	// after unlocking.
	assert.Nil(t, mutable)
}

func TestRWMutex_ReferenceType(t *testing.T) {
	buf := bytes.NewBufferString("hello")

	b := xsync.NewRWMutex(buf.Bytes())
	mutable := b.WLock()
	*mutable = append(*mutable, []byte("world")...)
	b.WUnlock(&mutable)

	afterMutation := b.RLock()
	defer b.RUnlock(&afterMutation)
	assert.Equal(t, []byte("helloworld"), *afterMutation)
}

func TestRWMutex_CrashOnUseAfterUnlock(t *testing.T) {
	m := xsync.NewRWMutex(uint64(0))
	p := m.WLock()
	*p = 123
	m.WUnlock(&p)

	assert.Panics(t, func() {
		*p = 345
	})
}
