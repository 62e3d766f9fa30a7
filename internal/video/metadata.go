// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Video metadata related constructs.

package video

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultOutputSuffix is appended to input file name (sans extension) to form
// default metadata file name.
const DefaultOutputSuffix = "_metadata.txt"

// Properties type contains raw video stream properties as reported by prober.
type Properties struct {
	Height     int
	Width      int
	FrameCount int
	FPS        float64
}

// PropertiesReader is the interface that wraps ReadProperties method.
//
// Implementations should return zero-valued Properties for files they are not
// able to decode and reserve errors for failures of the reader itself.
type PropertiesReader interface {
	ReadProperties(videoFile string) (Properties, error)
}

// Float is float64 that is always encoded as JSON floating-point literal, e.g.
// 24 is encoded as 24.0.
type Float float64

// MarshalJSON implements json.Marshaler for Float.
func (f Float) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(float64(f))
	if err != nil {
		return nil, err
	}
	if !bytes.ContainsAny(b, ".eE") {
		b = append(b, '.', '0')
	}
	return b, nil
}

// Record is video metadata record persisted to metadata file. Field order
// defines key order in JSON document.
type Record struct {
	Height      int   `json:"height"`
	Width       int   `json:"width"`
	FramesCount int   `json:"framesCount"`
	FPS         Float `json:"fps"`
	Duration    Float `json:"duration"`
}

// NewRecord creates Record from Properties. Duration is zero when FPS is zero.
func NewRecord(p Properties) Record {
	r := Record{
		Height:      p.Height,
		Width:       p.Width,
		FramesCount: p.FrameCount,
		FPS:         Float(p.FPS),
	}
	if p.FPS != 0 {
		r.Duration = Float(float64(p.FrameCount) / p.FPS)
	}
	return r
}

// String returns JSON representation of Record.
func (r Record) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("height=%d width=%d framesCount=%d fps=%v duration=%v",
			r.Height, r.Width, r.FramesCount, float64(r.FPS), float64(r.Duration))
	}
	return string(b)
}

// WriteJSON writes Record as a flat JSON object.
func (r Record) WriteJSON(w io.Writer) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// WriteFile writes Record to file, existing file will be truncated.
func (r Record) WriteFile(fPath string) error {
	fd, err := os.Create(fPath)
	if err != nil {
		return fmt.Errorf("create metadata file: %w", err)
	}
	if err := r.WriteJSON(fd); err != nil {
		fd.Close()
		return err
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("close metadata file: %w", err)
	}
	return nil
}

// ReadRecordFile reads Record from metadata file.
func ReadRecordFile(fPath string) (Record, error) {
	var r Record

	b, err := os.ReadFile(fPath)
	if err != nil {
		return r, fmt.Errorf("read metadata file: %w", err)
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return r, fmt.Errorf("parse metadata file %s: %w", fPath, err)
	}

	return r, nil
}

// DefaultOutputPath derives metadata file path from video file path by
// replacing its extension with suffix. Leading dot of a "hidden" file name is
// not treated as extension.
func DefaultOutputPath(videoFile, suffix string) string {
	ext := filepath.Ext(videoFile)
	if ext == filepath.Base(videoFile) {
		ext = ""
	}
	return strings.TrimSuffix(videoFile, ext) + suffix
}
