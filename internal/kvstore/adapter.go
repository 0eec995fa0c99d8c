// Package kvstore is the single persistence boundary of mythos.
//
// The Adapter gives typed, fault-tolerant access to a synchronous
// string-keyed Backend. It never returns storage errors to callers:
// reads fall back to a caller-supplied default and writes are dropped,
// with a warning logged and the failure handed to an optional observer.
// Persistence is best-effort; the rest of the system keeps working
// in memory when the medium is impaired.
package kvstore

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Op names the adapter operation that failed.
type Op string

const (
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
)

// Failure describes one swallowed storage error.
type Failure struct {
	Op  Op
	Key string
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("storage %s %s: %v", f.Op, f.Key, f.Err)
}

// Adapter wraps a Backend with JSON encoding, key resolution and the
// log-and-default failure policy.
type Adapter struct {
	backend  Backend
	logger   *zap.Logger
	observer func(Failure)
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for storage warnings.
func WithLogger(l *zap.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithFailureObserver registers fn to be called with every swallowed
// failure, after it is logged. fn runs synchronously on the caller's
// goroutine and must not call back into the adapter.
func WithFailureObserver(fn func(Failure)) Option {
	return func(a *Adapter) { a.observer = fn }
}

// NewAdapter returns an Adapter over backend.
func NewAdapter(backend Backend, opts ...Option) *Adapter {
	a := &Adapter{backend: backend, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) fail(op Op, key string, err error) {
	a.logger.Warn("storage operation failed",
		zap.String("op", string(op)),
		zap.String("key", key),
		zap.Error(err),
	)
	if a.observer != nil {
		a.observer(Failure{Op: op, Key: key, Err: err})
	}
}

// Get reads key and decodes it into a fresh T. A missing or empty value
// returns def silently; a read or decode failure returns def after
// reporting the failure. def itself is never written to.
func Get[T any](a *Adapter, key string, def T) T {
	physical := Resolve(key)
	raw, ok, err := a.backend.GetItem(physical)
	if err != nil {
		a.fail(OpGet, physical, err)
		return def
	}
	if !ok || raw == "" {
		return def
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		a.fail(OpGet, physical, fmt.Errorf("decode: %w", err))
		return def
	}
	return v
}

// Set encodes value and writes it under key. Failures are reported and
// otherwise ignored; in-memory state held by the caller is not rolled back.
func Set[T any](a *Adapter, key string, value T) {
	physical := Resolve(key)
	data, err := json.Marshal(value)
	if err != nil {
		a.fail(OpSet, physical, fmt.Errorf("encode: %w", err))
		return
	}
	if err := a.backend.SetItem(physical, string(data)); err != nil {
		a.fail(OpSet, physical, err)
	}
}

// Remove deletes key.
func (a *Adapter) Remove(key string) {
	physical := Resolve(key)
	if err := a.backend.RemoveItem(physical); err != nil {
		a.fail(OpRemove, physical, err)
	}
}

// Clear removes every known application key. Each removal is attempted
// independently, so a failure leaves a partial clear rather than aborting.
// It returns the number of removals that failed.
func (a *Adapter) Clear() int {
	failed := 0
	for _, key := range knownKeys {
		physical := Resolve(key)
		if err := a.backend.RemoveItem(physical); err != nil {
			a.fail(OpClear, physical, err)
			failed++
		}
	}
	return failed
}
