// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package actionspec

import (
	"sync/atomic"

	"go.uber.org/zap"

	"go.e43.eu/actionspec/internal/coder"
)

// The coder shared by every record. It is immutable once built.
var defaultCoder = coder.NewCoder()

var logger atomic.Pointer[zap.Logger]

// Logger returns the package logger. It is a no-op logger unless SetLogger
// has been called.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	logger.CompareAndSwap(nil, zap.NewNop())
	return logger.Load()
}

// SetLogger replaces the package logger used by records constructed
// without WithLogger
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

type options struct {
	active    []uint32
	activeSet bool
	idleMode  IdleMode
	logger    *zap.Logger
}

// Option configures a record at construction
type Option func(*options)

// WithActiveFields restricts the record to the listed fields. Accessing any
// other field fails with ErrFieldInactive. Without this option every field
// of the record's action is active.
func WithActiveFields(ids ...uint32) Option {
	return func(o *options) {
		o.active = append([]uint32(nil), ids...)
		o.activeSet = true
	}
}

// WithIdleMode sets the idle-time mode of the match table, which decides
// whether TTL or ENTRY_HIT_STATE may be accessed
func WithIdleMode(m IdleMode) Option {
	return func(o *options) {
		o.idleMode = m
	}
}

// WithLogger sets the logger the record reports failures to
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	return o
}
