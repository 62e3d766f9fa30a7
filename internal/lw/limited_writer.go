// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lw provides a size capped io.Writer, used to capture output of
// external tools without letting them exhaust memory.
package lw

import (
	"errors"
	"io"
)

var ErrLimitedWriterOverflow = errors.New("LimitedWriter overflow")

// LimitedWriter writes to W at most N bytes. A write that does not fit into
// remaining N is rejected as a whole and nothing of it is written.
type LimitedWriter struct {
	W io.Writer
	// Remaining capacity in bytes
	N uint
	// Set once a write has been rejected
	overflowed bool
}

// Write implements io.Writer for *LimitedWriter.
func (s *LimitedWriter) Write(b []byte) (int, error) {
	if uint(len(b)) > s.N {
		s.overflowed = true
		return 0, ErrLimitedWriterOverflow
	}
	n, err := s.W.Write(b)
	s.N -= uint(n)
	return n, err
}

// Overflowed reports whether any write has been rejected.
func (s *LimitedWriter) Overflowed() bool {
	return s.overflowed
}

// LimitWriter returns LimitedWriter that accepts at most n bytes.
func LimitWriter(w io.Writer, n uint) *LimitedWriter {
	return &LimitedWriter{W: w, N: n}
}
