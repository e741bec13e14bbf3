// Copyright 2026 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ianlewis/go-doxysearch"
	"github.com/ianlewis/go-doxysearch/internal/config"
	"github.com/ianlewis/go-doxysearch/internal/logging"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError
)

// ExitCodeCheckFailed is the exit code when validate or fmt --check find
// problems.
const ExitCodeCheckFailed = 1

// ErrDoxysearch is a parent error for all command errors.
var ErrDoxysearch = errors.New("doxysearch")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrDoxysearch)

// ErrCheckFailed indicates that validate or fmt --check found problems.
var ErrCheckFailed = fmt.Errorf("%w: check failed", ErrDoxysearch)

// ErrNoSearchDirs indicates that no search directory could be opened.
var ErrNoSearchDirs = fmt.Errorf("%w: no search directories found", ErrDoxysearch)

var copyrightNames = []string{
	"2024 Ian Lewis",
	"2026 Ian Lewis",
}

//nolint:gochecknoinits // init needed needed for global variable.
func init() {
	// Set the HelpFlag to a random name so that it isn't used. `cli` handles
	// the flag with the root command such that it takes a command name argument
	// but we handle help ourselves.
	//
	// This is done because `doxysearch --help foo` will display a
	// "command foo not found" error instead of the help.
	//
	// This flag is hidden by the help output.
	// See: github.com/urfave/cli/issues/1809
	cli.HelpFlag = &cli.BoolFlag{
		// NOTE: Use a random name no one would guess.
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

// check checks the error and panics if not nil.
func check(err error) {
	if err != nil {
		panic(err)
	}
}

func onUsageError(_ *cli.Context, err error, _ bool) error {
	return fmt.Errorf("%w: %w", ErrFlagParse, err)
}

// loadConfig loads the configuration file named by --config or the default
// configuration file.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDoxysearch, err)
	}
	return cfg, nil
}

// newLogger returns a logger writing to the app's error writer.
func newLogger(c *cli.Context, cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log, c.App.ErrWriter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDoxysearch, err)
	}
	return logger, nil
}

// dataDirs returns the directories searched for Doxygen search directories.
// Directories that do not exist are skipped.
func dataDirs(c *cli.Context, cfg *config.Config) []string {
	var dirs []string
	seen := map[string]bool{}
	for _, dir := range append(c.StringSlice("data-dir"), cfg.DataDirs...) {
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

func openSearchDirs(dirs []string, opts *doxysearch.Options) ([]*doxysearch.SearchIndex, []error) {
	var indexes []*doxysearch.SearchIndex
	var errs []error

	for _, path := range dirs {
		openIndexes, openErrs := doxysearch.OpenAll(path, opts)

		indexes = append(indexes, openIndexes...)
		errs = append(errs, openErrs...)
	}

	return indexes, errs
}

func closeAll(indexes []*doxysearch.SearchIndex) {
	for _, idx := range indexes {
		_ = idx.Close()
	}
}

// openIndexes opens the search directories found in the data directories.
// Errors for individual directories are printed and skipped.
func openIndexes(c *cli.Context, opts *doxysearch.Options) ([]*doxysearch.SearchIndex, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	indexes, errs := openSearchDirs(dataDirs(c, cfg), opts)
	for _, err := range errs {
		fmt.Fprintln(c.App.ErrWriter, err)
	}
	if len(indexes) == 0 {
		return nil, ErrNoSearchDirs
	}
	return indexes, nil
}

func newDoxysearchApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Search and maintain Doxygen search indexes.",
		Description: strings.Join([]string{
			"Doxygen search index utility written in Go.",
			"http://github.com/ianlewis/go-doxysearch",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "data-dir",
				Usage:   "include search directories under `DIR`",
				Aliases: []string{"d"},
				Value:   cli.NewStringSlice(dataLocations()...),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "read configuration from `FILE`",
			},

			// Special flags are shown at the end.
			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		Copyright:       strings.Join(copyrightNames, "\n"),
		HideHelp:        true,
		HideHelpCommand: true,
		OnUsageError:    onUsageError,
		Action: func(c *cli.Context) error {
			if c.Bool("version") {
				return printVersion(c)
			}

			check(cli.ShowAppHelp(c))
			return nil
		},
		Commands: []*cli.Command{
			listCommand,
			queryCommand,
			searchCommand,
			validateCommand,
			fmtCommand,
			exportCommand,
			buildCommand,
			compressCommand,
			serveCommand,
		},
	}
}
