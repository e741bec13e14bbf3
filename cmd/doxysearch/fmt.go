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
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-doxysearch/searchdata"
	"github.com/ianlewis/go-doxysearch/sections"
)

var fmtCommand = &cli.Command{
	Name:      "fmt",
	Usage:     "re-encode bucket files and manifests in Doxygen's layout",
	ArgsUsage: "PATH...",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "check",
			Usage: "list files whose formatting differs and fail if any do",
		},
		&cli.BoolFlag{
			Name:    "write",
			Usage:   "write the result to the source file",
			Aliases: []string{"w"},
		},
	},
	OnUsageError: onUsageError,
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return fmt.Errorf("%w: expected at least one PATH argument", ErrFlagParse)
		}
		if c.Bool("check") && c.Bool("write") {
			return fmt.Errorf("%w: --check and --write are mutually exclusive", ErrFlagParse)
		}

		files, err := expandPaths(c.Args().Slice(), true)
		if err != nil {
			return err
		}

		changed := 0
		for _, path := range files {
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrDoxysearch, err)
			}
			out, err := format(path, src)
			if err != nil {
				return fmt.Errorf("%w: %q: %w", ErrDoxysearch, path, err)
			}

			switch {
			case c.Bool("check"):
				if !bytes.Equal(src, out) {
					changed++
					fmt.Fprintln(c.App.Writer, path)
				}
			case c.Bool("write"):
				if bytes.Equal(src, out) {
					continue
				}
				if err := os.WriteFile(path, out, 0o644); err != nil { //nolint:gosec // Generated documentation is world readable.
					return fmt.Errorf("%w: %w", ErrDoxysearch, err)
				}
			default:
				if _, err := c.App.Writer.Write(out); err != nil {
					return fmt.Errorf("%w: %w", ErrDoxysearch, err)
				}
			}
		}

		if changed > 0 {
			return fmt.Errorf("%w: %d files are not formatted", ErrCheckFailed, changed)
		}
		return nil
	},
}

// format re-encodes a bucket file or a manifest.
func format(path string, src []byte) ([]byte, error) {
	if filepath.Base(path) == sections.FileName {
		m, err := sections.Decode(bytes.NewReader(src))
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := sections.Encode(&buf, m); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	f, err := searchdata.Unmarshal(src)
	if err != nil {
		return nil, err
	}
	return searchdata.Marshal(f)
}
