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
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-doxysearch/builder"
)

var buildCommand = &cli.Command{
	Name:      "build",
	Usage:     "write a search directory from JSON records",
	ArgsUsage: "RECORDS OUTDIR",
	Description: "Reads records in the format written by export, validates them\n" +
		"and writes searchdata.js and the bucket files to OUTDIR.\n" +
		"RECORDS may be '-' to read standard input.",
	OnUsageError: onUsageError,
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return fmt.Errorf("%w: expected RECORDS and OUTDIR arguments", ErrFlagParse)
		}
		src, outDir := c.Args().Get(0), c.Args().Get(1)

		var r io.Reader = os.Stdin
		if src != "-" {
			f, err := os.Open(src)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrDoxysearch, err)
			}
			defer f.Close()
			r = f
		}

		records, err := builder.Load(r)
		if err != nil {
			var serr *builder.SchemaError
			if errors.As(err, &serr) {
				for _, p := range serr.Problems {
					fmt.Fprintf(c.App.ErrWriter, "%s: %s\n", src, p)
				}
			}
			return fmt.Errorf("%w: %w", ErrDoxysearch, err)
		}

		site, err := builder.Build(records, builder.DefaultOptions)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDoxysearch, err)
		}
		if err := site.WriteDir(outDir); err != nil {
			return fmt.Errorf("%w: %w", ErrDoxysearch, err)
		}

		fmt.Fprintf(c.App.ErrWriter, "wrote %d files to %s\n", len(site.Files()), outDir)
		return nil
	},
}
