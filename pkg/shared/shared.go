// Package shared provides a reference counted handle with explicit Retain and Release.
package shared

import "sync/atomic"

// Ptr is a shared-ownership handle to a value of type T. The handle starts with one owner;
// every Retain adds an owner and every Release drops one. When the last owner releases,
// the deleter (if any) runs and the value is no longer reachable through the handle.
type Ptr[T any] struct {
	refs    atomic.Int64
	value   *T
	deleter func(*T)
}

// combined holds the control block and the payload in a single allocation.
type combined[T any] struct {
	Ptr[T]
	payload T
}

// New wraps a separately allocated value.
//
//go:noinline
func New[T any](v *T) *Ptr[T] {
	p := &Ptr[T]{value: v}
	p.refs.Store(1)
	return p
}

// NewWithDeleter wraps v and calls deleter with it once the last owner releases.
func NewWithDeleter[T any](v *T, deleter func(*T)) *Ptr[T] {
	p := New(v)
	p.deleter = deleter
	return p
}

// Make copies v into a block that also holds the reference count.
//
//go:noinline
func Make[T any](v T) *Ptr[T] {
	c := &combined[T]{payload: v}
	c.value = &c.payload
	c.refs.Store(1)
	return &c.Ptr
}

// Get returns the shared value, or nil once the handle has been released.
func (p *Ptr[T]) Get() *T {
	if p.refs.Load() <= 0 {
		return nil
	}
	return p.value
}

// Count returns the current number of owners.
func (p *Ptr[T]) Count() int64 {
	return p.refs.Load()
}

// Retain adds an owner and returns the same handle.
func (p *Ptr[T]) Retain() *Ptr[T] {
	if p.refs.Add(1) <= 1 {
		panic("shared: retain of released handle")
	}
	return p
}

// Release drops an owner. It reports whether this call released the last owner.
func (p *Ptr[T]) Release() bool {
	refs := p.refs.Add(-1)
	switch {
	case refs > 0:
		return false
	case refs < 0:
		panic("shared: release of released handle")
	}
	v := p.value
	p.value = nil
	if p.deleter != nil {
		p.deleter(v)
	}
	return true
}
