// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log provides the structured logging helper threaded through
// the codec and the orchestrator. github.com/saferwall/pe/log (the
// teacher's own logging package, injected via pe.Options.Logger) isn't
// vendored anywhere in the retrieval pack, so this rebuilds the same
// Helper shape directly on top of go.uber.org/zap's SugaredLogger.
package log

import "go.uber.org/zap"

// Helper wraps a *zap.SugaredLogger behind the small surface the codec
// and orchestrator actually call, mirroring the teacher's
// log.NewHelper(log.NewFilter(...)) wiring in file.go without carrying
// its own logging backend abstraction.
type Helper struct {
	s *zap.SugaredLogger
}

// New builds a Helper. verbose selects zap's development config
// (human-readable, debug level, caller info) over its production
// config (JSON, info level) — the same switch cmd/xfs2json's
// -v/--verbose flag drives.
func New(verbose bool) (*Helper, error) {
	var l *zap.Logger
	var err error
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return &Helper{s: l.Sugar()}, nil
}

// NewNop returns a Helper that discards everything, for tests and for
// callers that pass no Options.Logger.
func NewNop() *Helper {
	return &Helper{s: zap.NewNop().Sugar()}
}

func (h *Helper) Debugf(format string, args ...interface{}) {
	if h == nil {
		return
	}
	h.s.Debugf(format, args...)
}

func (h *Helper) Infof(format string, args ...interface{}) {
	if h == nil {
		return
	}
	h.s.Infof(format, args...)
}

func (h *Helper) Warnf(format string, args ...interface{}) {
	if h == nil {
		return
	}
	h.s.Warnf(format, args...)
}

func (h *Helper) Errorf(format string, args ...interface{}) {
	if h == nil {
		return
	}
	h.s.Errorf(format, args...)
}

// Sync flushes any buffered log entries. Call it before process exit.
func (h *Helper) Sync() error {
	if h == nil {
		return nil
	}
	return h.s.Sync()
}
