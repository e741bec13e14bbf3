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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"sigs.k8s.io/release-utils/version"

	"github.com/ianlewis/go-doxysearch"
	"github.com/ianlewis/go-doxysearch/internal/mcpserver"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "serve the search directories as MCP tools over stdio",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "reload search directories when they change",
		},
		&cli.DurationFlag{
			Name:  "debounce",
			Usage: "wait `DURATION` after the last change before reloading",
		},
		&cli.BoolFlag{
			Name:  "index-pages",
			Usage: "include the text of linked pages in full-text search",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "write logs to `FILE` instead of standard error",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log at `LEVEL` (debug, info, warn, error)",
		},
	},
	OnUsageError: onUsageError,
	Action: func(c *cli.Context) error {
		if c.NArg() != 0 {
			return fmt.Errorf("%w: unexpected arguments", ErrFlagParse)
		}

		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		if c.IsSet("log-file") {
			cfg.Log.File = c.String("log-file")
		}
		if c.IsSet("log-level") {
			cfg.Log.Level = c.String("log-level")
		}
		if c.IsSet("debounce") {
			cfg.Serve.Debounce = c.Duration("debounce")
		}
		if c.Bool("watch") {
			cfg.Serve.Watch = true
		}
		if c.Bool("index-pages") {
			cfg.IndexPages = true
		}

		logger, err := newLogger(c, cfg)
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync()
		}()

		opts := *doxysearch.DefaultOptions
		opts.IndexPages = cfg.IndexPages

		server := mcpserver.New(func() ([]*doxysearch.SearchIndex, []error) {
			return openSearchDirs(dataDirs(c, cfg), &opts)
		}, &mcpserver.Options{
			Name:    "doxysearch",
			Version: version.GetVersionInfo().GitVersion,
			Logger:  logger,
		})
		defer server.Close()

		if err := server.Reload(); err != nil {
			return fmt.Errorf("%w: %w", ErrDoxysearch, err)
		}

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Serve.Watch {
			roots := dataDirs(c, cfg)
			go func() {
				if err := server.Watch(ctx, roots, cfg.Serve.Debounce); err != nil {
					logger.Error("watching search directories", zap.Error(err))
				}
			}()
		}

		logger.Info("serving search directories", zap.Strings("dirs", server.Dirs()))
		if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
			return fmt.Errorf("%w: %w", ErrDoxysearch, err)
		}
		return nil
	},
}
