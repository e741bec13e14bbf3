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

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-doxysearch"
)

var listCommand = &cli.Command{
	Name:         "list",
	Usage:        "list search directories and their sections",
	OnUsageError: onUsageError,
	Action: func(c *cli.Context) error {
		if c.NArg() != 0 {
			return fmt.Errorf("%w: unexpected arguments", ErrFlagParse)
		}

		indexes, err := openIndexes(c, doxysearch.DefaultOptions)
		if err != nil {
			return err
		}
		defer closeAll(indexes)

		tbl := table.New("Directory", "Section", "Label", "Buckets", "Entries").WithWriter(c.App.Writer)
		for _, idx := range indexes {
			for _, sec := range idx.Sections() {
				entries, err := idx.Entries(sec.Name)
				if err != nil {
					return fmt.Errorf("%w: %w", ErrDoxysearch, err)
				}
				tbl.AddRow(idx.Dir(), sec.Name, sec.Label, len(sec.Buckets()), len(entries))
			}
		}
		tbl.Print()

		return nil
	},
}
