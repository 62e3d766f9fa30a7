// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"io"

	"github.com/evolution-gaming/vidmeta/internal/logging"
)

// globalFlags are flags shared by all commands.
type globalFlags struct {
	ConfFile string
	Debug    bool
}

func (g *globalFlags) Register(fs *flag.FlagSet) {
	fs.BoolVar(&g.Debug, "debug", false, "Enable debug logging (optional)")
	fs.StringVar(&g.ConfFile, "conf", "", "Application configuration file path, JSON or YAML (optional)")
}

// newLogger creates application logger. Level comes from configuration unless
// -debug flag is given. Configuration is expected to be verified already.
func (g *globalFlags) newLogger(w io.Writer, cfg *Config) *logging.Logger {
	level, _ := logging.ParseLevel(cfg.LogLevel.Value())
	if g.Debug {
		level = logging.DebugLevel
	}
	return logging.New(w, level)
}
