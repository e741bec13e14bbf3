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

	"github.com/ianlewis/go-dictzip"
	"github.com/urfave/cli/v2"
)

var compressCommand = &cli.Command{
	Name:      "compress",
	Usage:     "write dictzip compressed copies of bucket files",
	ArgsUsage: "PATH...",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "remove",
			Usage: "remove the uncompressed files",
		},
	},
	OnUsageError: onUsageError,
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return fmt.Errorf("%w: expected at least one PATH argument", ErrFlagParse)
		}

		files, err := expandPaths(c.Args().Slice(), false)
		if err != nil {
			return err
		}

		for _, path := range files {
			if err := compressFile(path); err != nil {
				return fmt.Errorf("%w: compressing %q: %w", ErrDoxysearch, path, err)
			}
			if c.Bool("remove") {
				if err := os.Remove(path); err != nil {
					return fmt.Errorf("%w: %w", ErrDoxysearch, err)
				}
			}
		}
		return nil
	},
}

// compressFile writes path to path.dz.
func compressFile(path string) (err error) {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path + ".dz")
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, dst.Close())
	}()

	z, err := dictzip.NewWriter(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(z, src); err != nil {
		_ = z.Close()
		return err
	}
	return z.Close()
}
