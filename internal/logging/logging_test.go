// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logging_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/evolution-gaming/vidmeta/internal/logging"
)

func TestUnformattedLogging(t *testing.T) {
	tests := map[string]struct {
		given   string
		want    *regexp.Regexp
		logFunc func(*logging.Logger, ...interface{})
	}{
		"Simple Info": {
			given:   "info message",
			want:    regexp.MustCompile(`INFO\s.*info message`),
			logFunc: (*logging.Logger).Info,
		},
		"Simple Debug": {
			given:   "debug message",
			want:    regexp.MustCompile(`DEBUG\s.*debug message`),
			logFunc: (*logging.Logger).Debug,
		},
		"Simple Warn": {
			given:   "warn message",
			want:    regexp.MustCompile(`WARN\s.*warn message`),
			logFunc: (*logging.Logger).Warn,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var out strings.Builder
			l := logging.New(&out, logging.DebugLevel)
			tc.logFunc(l, tc.given)
			got := out.String()
			if !tc.want.MatchString(got) {
				t.Errorf("Log message not found (-want/+got)\n\t-%s\n\t+%s", tc.want.String(), got)
			}
		})
	}
}

func TestFormattedLogging(t *testing.T) {
	tests := map[string]struct {
		given1  string
		given2  string
		want    *regexp.Regexp
		format  string
		logFunc func(*logging.Logger, string, ...interface{})
	}{
		"Complex Info": {
			given1:  "info message 1",
			given2:  "info message 2",
			want:    regexp.MustCompile(`INFO\s.*info message 1 -- info message 2`),
			format:  "%s -- %s",
			logFunc: (*logging.Logger).Infof,
		},
		"Complex Debug": {
			given1:  "debug message 1",
			given2:  "debug message 2",
			format:  "%s -- %s",
			want:    regexp.MustCompile(`DEBUG\s.*debug message 1 -- debug message 2`),
			logFunc: (*logging.Logger).Debugf,
		},
		"Complex Warn": {
			given1:  "warn message 1",
			given2:  "warn message 2",
			format:  "%s -- %s",
			want:    regexp.MustCompile(`WARN\s.*warn message 1 -- warn message 2`),
			logFunc: (*logging.Logger).Warnf,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var out strings.Builder
			l := logging.New(&out, logging.DebugLevel)
			tc.logFunc(l, tc.format, tc.given1, tc.given2)
			got := out.String()
			if !tc.want.MatchString(got) {
				t.Errorf("Log message not found (-want/+got)\n\t-%s\n\t+%s", tc.want.String(), got)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var out strings.Builder
	l := logging.New(&out, logging.WarnLevel)
	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")

	got := out.String()
	if strings.Contains(got, "debug message") || strings.Contains(got, "info message") {
		t.Errorf("Messages below warn level should be discarded, got:\n%s", got)
	}
	if !strings.Contains(got, "warn message") {
		t.Errorf("Warn message not found, got:\n%s", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]struct {
		given   string
		want    logging.Level
		wantErr bool
	}{
		"debug":         {given: "debug", want: logging.DebugLevel},
		"info":          {given: "INFO", want: logging.InfoLevel},
		"empty":         {given: "", want: logging.InfoLevel},
		"warn":          {given: "warn", want: logging.WarnLevel},
		"warning alias": {given: " Warning ", want: logging.WarnLevel},
		"unknown":       {given: "trace", want: logging.InfoLevel, wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := logging.ParseLevel(tc.given)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Unexpected error state: %v", err)
			}
			if got != tc.want {
				t.Errorf("Level mismatch: want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestNop(t *testing.T) {
	// Should not panic.
	l := logging.Nop()
	l.Warnf("nothing %s", "here")
}
