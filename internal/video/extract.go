// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package video

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evolution-gaming/vidmeta/internal/logging"
)

// ErrUnreadableFile is returned for video file paths that do not exist or do
// not point to a regular file.
var ErrUnreadableFile = errors.New("can't read file")

// CheckFile will check that videoFile exists and is a regular file.
func CheckFile(videoFile string) error {
	fi, err := os.Stat(videoFile)
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrUnreadableFile, videoFile, err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%w %s: not a regular file", ErrUnreadableFile, videoFile)
	}
	return nil
}

// Extractor produces metadata Record for a video file using PropertiesReader.
type Extractor struct {
	reader PropertiesReader
	log    *logging.Logger
}

// NewExtractor creates Extractor. A nil logger is replaced by a no-op one.
func NewExtractor(reader PropertiesReader, log *logging.Logger) *Extractor {
	if log == nil {
		log = logging.Nop()
	}
	return &Extractor{reader: reader, log: log}
}

// Extract will validate videoFile, read its properties and derive metadata
// Record from them.
func (e *Extractor) Extract(videoFile string) (Record, error) {
	var rec Record

	e.log.Debugf("file path: %s", videoFile)
	e.log.Debugf("file name: %s", strings.TrimSuffix(videoFile, filepath.Ext(videoFile)))

	if err := CheckFile(videoFile); err != nil {
		return rec, err
	}

	props, err := e.reader.ReadProperties(videoFile)
	if err != nil {
		return rec, fmt.Errorf("reading properties of %s: %w", videoFile, err)
	}
	e.log.Infof("fetched metadata from file %s", videoFile)

	if props.FPS == 0 {
		e.log.Warnf("file %s has zero fps, or empty file", videoFile)
	}

	return NewRecord(props), nil
}
