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
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-doxysearch"
	"github.com/ianlewis/go-doxysearch/builder"
)

var exportCommand = &cli.Command{
	Name:      "export",
	Usage:     "dump the records of a search directory as JSON",
	ArgsUsage: "[SEARCH_DIR]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Usage:   "write to `FILE` instead of standard output",
			Aliases: []string{"o"},
		},
	},
	OnUsageError: onUsageError,
	Action: func(c *cli.Context) error {
		if c.NArg() > 1 {
			return fmt.Errorf("%w: expected at most one SEARCH_DIR argument", ErrFlagParse)
		}

		var idx *doxysearch.SearchIndex
		if c.NArg() == 1 {
			var err error
			idx, err = doxysearch.Open(c.Args().First(), doxysearch.DefaultOptions)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrDoxysearch, err)
			}
		} else {
			indexes, err := openIndexes(c, doxysearch.DefaultOptions)
			if err != nil {
				return err
			}
			if len(indexes) > 1 {
				closeAll(indexes)
				return fmt.Errorf("%w: found %d search directories, pass SEARCH_DIR", ErrFlagParse, len(indexes))
			}
			idx = indexes[0]
		}
		defer idx.Close()

		records, err := builder.Records(idx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDoxysearch, err)
		}

		var w io.Writer = c.App.Writer
		if out := c.String("output"); out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrDoxysearch, err)
			}
			defer f.Close()
			w = f
		}

		if err := builder.Write(w, records); err != nil {
			return fmt.Errorf("%w: %w", ErrDoxysearch, err)
		}
		return nil
	},
}
