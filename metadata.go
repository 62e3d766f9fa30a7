// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// vidmeta's main command: extract video metadata and save it as JSON.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/evolution-gaming/vidmeta/internal/tools"
	"github.com/evolution-gaming/vidmeta/internal/video"
)

// Make sure MetadataApp implements Commander interface.
var _ Commander = (*MetadataApp)(nil)

// MetadataApp is metadata command context that implements Commander interface.
type MetadataApp struct {
	// Configuration object
	cfg *Config
	// FlagSet instance
	fs *flag.FlagSet
	// Record is printed here
	out io.Writer
	// Log messages are written here
	logOut io.Writer
	// Input video file path
	flInFile string
	// Metadata output file
	flOutFile string
	// Global flags
	gf globalFlags
}

// CreateMetadataCommand will create Commander instance from MetadataApp.
func CreateMetadataCommand() *MetadataApp {
	longHelp := `Command will fetch height, width, frame count and fps of given video file,
calculate its duration and save result as JSON document. Output file defaults
to input file path with extension replaced by "_metadata.txt" suffix.

Examples:

  vidmeta -i clip.mp4
  vidmeta --input clip.mp4 --output clip.json`

	app := &MetadataApp{
		fs:     flag.NewFlagSet("vidmeta", flag.ContinueOnError),
		gf:     globalFlags{},
		out:    os.Stdout,
		logOut: os.Stderr,
	}
	app.gf.Register(app.fs)
	app.fs.StringVar(&app.flInFile, "i", "", "Input video file (mandatory)")
	app.fs.StringVar(&app.flInFile, "input", "", "Same as -i")
	app.fs.StringVar(&app.flOutFile, "o", "", "File to save metadata to (optional)")
	app.fs.StringVar(&app.flOutFile, "output", "", "Same as -o")

	app.fs.Usage = func() {
		printSubCommandUsage(longHelp, app.fs)
	}
	return app
}

func (a *MetadataApp) Name() string {
	return a.fs.Name()
}

func (a *MetadataApp) Help() {
	a.fs.Usage()
}

// init will do App state initialization.
func (a *MetadataApp) init(args []string) error {
	if err := a.fs.Parse(args); err != nil {
		return &AppError{
			exitCode: 2,
			msg:      fmt.Sprintf("%s usage error", a.Name()),
		}
	}

	if a.fs.NArg() != 0 {
		a.Help()
		return &AppError{
			exitCode: 2,
			msg:      fmt.Sprintf("unexpected arguments: %s", strings.Join(a.fs.Args(), " ")),
		}
	}

	if a.flInFile == "" {
		a.Help()
		return &AppError{
			exitCode: 2,
			msg:      "mandatory option -i is missing",
		}
	}

	// Bail out before any other work is done.
	if err := video.CheckFile(a.flInFile); err != nil {
		return &AppError{
			exitCode: 2,
			msg:      err.Error(),
		}
	}

	c, err := LoadConfig(a.gf.ConfFile)
	if err != nil {
		return &AppError{exitCode: 1, msg: err.Error()}
	}
	a.cfg = &c

	if err := a.cfg.Verify(); err != nil {
		return &AppError{exitCode: 1, msg: fmt.Sprintf("configuration validation: %s", err)}
	}

	if a.flOutFile == "" {
		a.flOutFile = video.DefaultOutputPath(a.flInFile, a.cfg.OutputSuffix.Value())
	}

	return nil
}

// Run is main entry point into MetadataApp execution.
func (a *MetadataApp) Run(args []string) error {
	if err := a.init(args); err != nil {
		return err
	}

	log := a.gf.newLogger(a.logOut, a.cfg)
	defer log.Sync() //nolint:errcheck

	reader, err := tools.NewFfprobeReader(tools.FfprobeConfig{
		FfprobePath: a.cfg.FfprobePath.Value(),
		ExtraArgs:   a.cfg.FfprobeArgs.Value(),
		CountFrames: a.cfg.CountFrames.Value(),
	}, log)
	if err != nil {
		return &AppError{exitCode: 1, msg: err.Error()}
	}

	rec, err := video.NewExtractor(reader, log).Extract(a.flInFile)
	if err != nil {
		exitCode := 1
		if errors.Is(err, video.ErrUnreadableFile) {
			exitCode = 2
		}
		return &AppError{exitCode: exitCode, msg: err.Error()}
	}

	fmt.Fprintln(a.out, rec)

	log.Debugf("writing metadata to file %s", a.flOutFile)
	if err := rec.WriteFile(a.flOutFile); err != nil {
		return &AppError{
			exitCode: 1,
			msg:      fmt.Sprintf("failed saving metadata: %s", err),
		}
	}

	return nil
}
