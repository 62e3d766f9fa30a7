// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Main entrypoint for vidmeta application

package main

import (
	"fmt"
	"os"
)

const usage = `vidmeta - video metadata extractor

Usage:

    vidmeta -i <video file> [-o <metadata file>] [-conf <config file>] [-debug]
    vidmeta <command> [arguments]

The commands are:

    dump-conf   output actual application configuration
    version     print vidmeta version and exit

Use "vidmeta -h" or "vidmeta <command> -h" for more information.`

// root represents top level of vidmeta command, including dispatching to subcommands.
func root(args []string) error {
	if len(args) < 1 {
		fmt.Println(usage)
		return &AppError{msg: "mandatory option -i is missing", exitCode: 2}
	}

	switch args[0] {
	case "dump-conf", "dump":
		return CreateDumpConfCommand().Run(args[1:])
	case "version":
		printVersion()
		return nil
	case "-h", "-help", "--help", "?":
		fmt.Println(usage)
		fmt.Println()
		CreateMetadataCommand().Help()
		return &AppError{
			exitCode: 2,
		}
	default:
		return CreateMetadataCommand().Run(args)
	}
}

func main() {
	if err := root(os.Args[1:]); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "%v\n", msg)
		}
		switch e := err.(type) {
		case *AppError:
			os.Exit(e.ExitCode())
		default:
			os.Exit(1)
		}
	}
	os.Exit(0)
}
