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
	"slices"

	"github.com/k3a/html2text"
	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-doxysearch"
)

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "full-text search of keyword names, scopes and page text",
	ArgsUsage: "QUERY",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "max-results",
			Usage: "print at most `N` results",
			Value: 10,
		},
		&cli.BoolFlag{
			Name:  "index-pages",
			Usage: "include the text of linked pages",
		},
	},
	OnUsageError: onUsageError,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("%w: expected one QUERY argument", ErrFlagParse)
		}
		maxResults := c.Int("max-results")
		if maxResults <= 0 {
			return fmt.Errorf("%w: --max-results must be positive", ErrFlagParse)
		}

		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		opts := *doxysearch.DefaultOptions
		opts.IndexPages = c.Bool("index-pages") || cfg.IndexPages

		indexes, err := openIndexes(c, &opts)
		if err != nil {
			return err
		}
		defer closeAll(indexes)

		var hits []*doxysearch.FullTextResult
		for _, idx := range indexes {
			results, err := idx.FullTextSearch(c.Args().First(), maxResults)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrDoxysearch, err)
			}
			hits = append(hits, results...)
		}
		slices.SortStableFunc(hits, func(a, b *doxysearch.FullTextResult) int {
			switch {
			case a.Score > b.Score:
				return -1
			case a.Score < b.Score:
				return 1
			}
			return 0
		})
		if len(hits) > maxResults {
			hits = hits[:maxResults]
		}

		tbl := table.New("Score", "Name", "Scope", "URL").WithWriter(c.App.Writer)
		for _, h := range hits {
			tbl.AddRow(fmt.Sprintf("%.3f", h.Score), h.Title(), html2text.HTML2Text(h.Target.Scope), h.Target.URL)
		}
		tbl.Print()

		return nil
	},
}
