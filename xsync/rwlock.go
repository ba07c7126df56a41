// Copyright The TPCapture Authors
// SPDX-License-Identifier: Apache-2.0

package xsync // import "github.com/tpcapture/tpcapture/xsync"

import "sync"

// RWMutex is a thin wrapper around sync.RWMutex that hides away the data it
// protects to ensure it's not accidentally accessed without actually holding
// the lock.
//
// The design is inspired by how Rust implements its locks: there is no direct
// reference to the guarded data, so every access has to go through
// RLock/WLock first. Go's weak type system cannot make this fully safe, but
// it clearly communicates which data is protected by which lock, and the
// pointer invalidation in the unlock functions turns most
// forgot-to-hold-the-lock mistakes into immediate nil dereferences in tests
// instead of silent races.
//
// The lock is not re-entrant: a goroutine that already holds it and tries to
// acquire it again deadlocks.
type RWMutex[T any] struct {
	guarded T
	mutex   sync.RWMutex
}

// NewRWMutex creates a new read-write mutex.
func NewRWMutex[T any](guarded T) RWMutex[T] {
	return RWMutex[T]{
		guarded: guarded,
	}
}

// RLock locks the mutex for reading, returning a pointer to the protected data.
//
// The caller **must not** write to the data pointed to by the returned pointer,
// and must not let the pointer leak out of the scope of the function where it
// was created, except for temporarily borrowing it to callees that don't save
// it anywhere.
func (mtx *RWMutex[T]) RLock() *T {
	mtx.mutex.RLock()
	return &mtx.guarded
}

// RUnlock unlocks the mutex after previously being locked by RLock.
//
// Pass a reference to the pointer returned from RLock here to ensure it is
// invalidated.
func (mtx *RWMutex[T]) RUnlock(ref **T) {
	*ref = nil
	mtx.mutex.RUnlock()
}

// WLock locks the mutex for writing, returning a pointer to the protected data.
//
// The same leakage rules as for RLock apply.
func (mtx *RWMutex[T]) WLock() *T {
	mtx.mutex.Lock()
	return &mtx.guarded
}

// WUnlock unlocks the mutex after previously being locked by WLock.
//
// Pass a reference to the pointer returned from WLock here to ensure it is
// invalidated.
func (mtx *RWMutex[T]) WUnlock(ref **T) {
	*ref = nil
	mtx.mutex.Unlock()
}
