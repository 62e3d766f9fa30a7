// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Ffprobe backed video properties reader.
package tools

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/tidwall/gjson"

	"github.com/evolution-gaming/vidmeta/internal/logging"
	"github.com/evolution-gaming/vidmeta/internal/lw"
	"github.com/evolution-gaming/vidmeta/internal/video"
)

// Upper bound for ffprobe output we are willing to keep in memory. Output for
// single stream with a handful of entries is well below 1KiB.
var probeOutputLimit uint = 1 << 20

const showEntries = "stream=width,height,nb_frames,nb_read_frames,r_frame_rate,avg_frame_rate,duration:format=duration"

// Make sure FfprobeReader implements video.PropertiesReader interface.
var _ video.PropertiesReader = (*FfprobeReader)(nil)

// FfprobeConfig exposes parameters for FfprobeReader creation.
type FfprobeConfig struct {
	FfprobePath string
	// Additional ffprobe arguments, shell quoting rules apply
	ExtraArgs string
	// Decode whole stream to count frames instead of trusting container
	CountFrames bool
}

// FfprobeReader queries video properties via ffprobe.
type FfprobeReader struct {
	exePath     string
	extraArgs   []string
	countFrames bool
	log         *logging.Logger
}

// NewFfprobeReader will initialize FfprobeReader.
func NewFfprobeReader(cfg FfprobeConfig, log *logging.Logger) (*FfprobeReader, error) {
	if cfg.FfprobePath == "" {
		return nil, errors.New("NewFfprobeReader() empty ffprobe path")
	}
	extraArgs, err := shlex.Split(cfg.ExtraArgs)
	if err != nil {
		return nil, fmt.Errorf("NewFfprobeReader() prepare arguments: %w", err)
	}
	if log == nil {
		log = logging.Nop()
	}

	return &FfprobeReader{
		exePath:     cfg.FfprobePath,
		extraArgs:   extraArgs,
		countFrames: cfg.CountFrames,
		log:         log,
	}, nil
}

// ReadProperties will query video file properties via ffprobe.
//
// Files ffprobe fails to decode yield zero-valued Properties and no error.
func (f *FfprobeReader) ReadProperties(videoFile string) (video.Properties, error) {
	var props video.Properties

	ffprobeArgs := []string{
		"-v", "quiet",
		"-select_streams", "v:0",
	}
	if f.countFrames {
		ffprobeArgs = append(ffprobeArgs, "-count_frames")
	}
	ffprobeArgs = append(ffprobeArgs, "-show_entries", showEntries, "-of", "json")
	ffprobeArgs = append(ffprobeArgs, f.extraArgs...)
	ffprobeArgs = append(ffprobeArgs, videoFile)

	var stdout bytes.Buffer
	w := lw.LimitWriter(&stdout, probeOutputLimit)
	cmd := exec.Command(f.exePath, ffprobeArgs...)
	cmd.Stdout = w
	f.log.Debugf("Running: %s", cmd)

	err := cmd.Run()
	if w.Overflowed() {
		return props, fmt.Errorf("FfprobeReader.ReadProperties() output: %w", lw.ErrLimitedWriterOverflow)
	}
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		f.log.Debugf("ffprobe unable to decode %s: %s", videoFile, exitErr)
		return props, nil
	case err != nil:
		return props, fmt.Errorf("FfprobeReader.ReadProperties() exec error: %w", err)
	}

	props, err = parseProbeOutput(stdout.Bytes(), f.countFrames)
	if err != nil {
		return props, err
	}
	f.log.Debugf("%s %+v", videoFile, props)

	return props, nil
}

// parseProbeOutput extracts Properties from ffprobe JSON output.
func parseProbeOutput(out []byte, countFrames bool) (video.Properties, error) {
	var props video.Properties

	if !gjson.ValidBytes(out) {
		return props, errors.New("parseProbeOutput() invalid JSON")
	}
	doc := gjson.ParseBytes(out)

	// No video stream is the same as undecodable file.
	stream := doc.Get("streams.0")
	if !stream.Exists() {
		return props, nil
	}

	props.Width = int(stream.Get("width").Int())
	props.Height = int(stream.Get("height").Int())

	props.FPS = parseRate(stream.Get("r_frame_rate").String())
	if props.FPS == 0 {
		props.FPS = parseRate(stream.Get("avg_frame_rate").String())
	}

	frameKey := "nb_frames"
	if countFrames {
		frameKey = "nb_read_frames"
	}
	props.FrameCount = int(stream.Get(frameKey).Int())

	// Some containers (mkv, webm) do not store frame count, estimate it from
	// duration then. Stream duration is preferred over container's.
	if props.FrameCount <= 0 && props.FPS > 0 {
		duration := stream.Get("duration").Float()
		if duration <= 0 {
			duration = doc.Get("format.duration").Float()
		}
		props.FrameCount = int(math.Round(math.Max(duration, 0) * props.FPS))
	}

	return props, nil
}

// parseRate parses ffprobe rational such as "30000/1001" into float. Any
// malformed or degenerate rate (e.g. "0/0") yields 0.
func parseRate(s string) float64 {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d := 1.0
	if found {
		if d, err = strconv.ParseFloat(den, 64); err != nil {
			return 0
		}
	}
	if d == 0 {
		return 0
	}
	r := n / d
	if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
