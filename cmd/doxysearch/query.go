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

	"github.com/k3a/html2text"
	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-doxysearch"
)

var queryCommand = &cli.Command{
	Name:      "query",
	Usage:     "search keywords the way the Doxygen search box does",
	ArgsUsage: "QUERY",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "exact",
			Usage: "match the whole keyword instead of a prefix",
		},
		&cli.StringFlag{
			Name:  "section",
			Usage: "search only `SECTION`",
			Value: doxysearch.AllSection,
		},
	},
	OnUsageError: onUsageError,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("%w: expected one QUERY argument", ErrFlagParse)
		}
		query := c.Args().First()
		sectionName := c.String("section")

		indexes, err := openIndexes(c, doxysearch.DefaultOptions)
		if err != nil {
			return err
		}
		defer closeAll(indexes)

		tbl := table.New("Name", "Scope", "URL").WithWriter(c.App.Writer)
		found := false
		for _, idx := range indexes {
			find := idx.Search
			if c.Bool("exact") {
				find = idx.Lookup
			}
			results, err := find(sectionName, query)
			if errors.Is(err, doxysearch.ErrSectionNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("%w: %w", ErrDoxysearch, err)
			}
			found = true

			for _, r := range results {
				name := r.Title()
				for _, t := range r.Targets {
					tbl.AddRow(name, html2text.HTML2Text(t.Scope), t.URL)
					// Only print the name on the first row of each result.
					name = ""
				}
			}
		}
		if !found {
			return fmt.Errorf("%w: %w: %q", ErrDoxysearch, doxysearch.ErrSectionNotFound, sectionName)
		}
		tbl.Print()

		return nil
	},
}
