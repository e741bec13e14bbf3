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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-doxysearch"
	"github.com/ianlewis/go-doxysearch/builder"
	"github.com/ianlewis/go-doxysearch/internal/config"
	"github.com/ianlewis/go-doxysearch/internal/testutil"
	"github.com/ianlewis/go-doxysearch/searchdata"
)

// The commands are package-level values that urfave/cli mutates while
// running, so these tests do not run in parallel.

func testSections() []*testutil.Section {
	maskPriority := testutil.Entry("mask_priority", 0, "MASK_PRIORITY",
		testutil.Target("../group__mti__field__masks.html#ga1f2e3d", "MTI Bit Field Masks"))
	masks := testutil.Entry("masks", 1, "Masks",
		testutil.Target("../group__can__frame__format.html", "CAN Frame Format and Masks"),
		testutil.Target("../group__mti__field__masks.html", "MTI Bit Field Masks"))
	datagram := testutil.Entry("datagram protocol", 0, "Datagram Protocol",
		testutil.Target("../group__datagram.html", "Datagram Protocol"))
	groupMasks := testutil.Entry("masks", 0, "Masks",
		testutil.Target("../group__can__frame__format.html", "CAN Frame Format and Masks"),
		testutil.Target("../group__mti__field__masks.html", "MTI Bit Field Masks"))

	return []*testutil.Section{
		{Name: "all", Label: "All", Entries: []*searchdata.Entry{datagram, maskPriority, masks}},
		{Name: "groups", Label: "Topics", Entries: []*searchdata.Entry{datagram, groupMasks}},
	}
}

// runApp runs the app with the given arguments and returns what it wrote to
// standard output and standard error.
func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	t.Setenv(config.EnvDataDir, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	app := newDoxysearchApp()
	app.Name = "doxysearch"
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{
		"doxysearch",
		"--config", filepath.Join(t.TempDir(), "config.yaml"),
	}, args...))
	return stdout.String(), stderr.String(), err
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitCodeSuccess},
		{"flag parse", fmt.Errorf("%w: bad flag", ErrFlagParse), ExitCodeFlagParseError},
		{"check failed", ErrCheckFailed, ExitCodeCheckFailed},
		{"other", os.ErrNotExist, ExitCodeUnknownError},
		{"doxysearch", ErrNoSearchDirs, ExitCodeUnknownError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCode(test.err); got != test.want {
				t.Errorf("exitCode(%v): got %d, want %d", test.err, got, test.want)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := runApp(t, "--version")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasPrefix(stdout, "doxysearch ") {
		t.Errorf("--version: got %q, want app name", stdout)
	}
	if !strings.Contains(stdout, "Copyright (c) 2024 Ian Lewis") {
		t.Errorf("--version: got %q, want copyright", stdout)
	}
}

func TestList(t *testing.T) {
	dir := testutil.MakeTempSearchDir(t, testSections(), nil)

	stdout, _, err := runApp(t, "-d", dir, "list")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if got, want := len(lines), 3; got != want {
		t.Fatalf("list: got %d lines, want %d:\n%s", got, want, stdout)
	}
	if got, want := strings.Fields(lines[2]), []string{dir, "groups", "Topics", "2", "2"}; !cmp.Equal(got, want) {
		t.Errorf("list (-want, +got):\n%s", cmp.Diff(want, got))
	}
}

func TestList_noSearchDirs(t *testing.T) {
	_, _, err := runApp(t, "-d", t.TempDir(), "list")
	if !errors.Is(err, ErrNoSearchDirs) {
		t.Fatalf("Run: got %v, want %v", err, ErrNoSearchDirs)
	}
}

func TestQuery(t *testing.T) {
	dir := testutil.MakeTempSearchDir(t, testSections(), nil)

	tests := []struct {
		name string
		args []string
		want []string
		err  error
	}{
		{
			name: "prefix",
			args: []string{"query", "MAS"},
			want: []string{
				"MASK_PRIORITY ../group__mti__field__masks.html#ga1f2e3d",
				"Masks ../group__can__frame__format.html",
				"../group__mti__field__masks.html",
			},
		},
		{
			name: "exact",
			args: []string{"query", "--exact", "masks"},
			want: []string{
				"Masks ../group__can__frame__format.html",
				"../group__mti__field__masks.html",
			},
		},
		{
			name: "section",
			args: []string{"query", "--section", "groups", "d"},
			want: []string{
				"Datagram Protocol ../group__datagram.html",
			},
		},
		{
			name: "unknown section",
			args: []string{"query", "--section", "classes", "d"},
			err:  ErrDoxysearch,
		},
		{
			name: "no query",
			args: []string{"query"},
			err:  ErrFlagParse,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			stdout, _, err := runApp(t, append([]string{"-d", dir}, test.args...)...)
			if test.err != nil {
				if !errors.Is(err, test.err) {
					t.Fatalf("Run: got %v, want %v", err, test.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			// Compare the name and URL columns. Continuation rows have an
			// empty name.
			var got []string
			for _, line := range strings.Split(strings.TrimSpace(stdout), "\n")[1:] {
				fields := strings.Fields(line)
				url := fields[len(fields)-1]
				if strings.HasPrefix(line, " ") {
					got = append(got, url)
					continue
				}
				name, _, _ := strings.Cut(line, "  ")
				got = append(got, name+" "+url)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("query (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	dir := testutil.MakeTempSearchDir(t, testSections(), nil)

	stdout, _, err := runApp(t, "-d", dir, "search", "--max-results", "1", "datagram")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if got, want := len(lines), 2; got != want {
		t.Fatalf("search: got %d lines, want %d:\n%s", got, want, stdout)
	}
	if !strings.HasSuffix(lines[1], "../group__datagram.html") {
		t.Errorf("search: got %q, want datagram URL", lines[1])
	}

	if _, _, err := runApp(t, "-d", dir, "search", "--max-results", "0", "datagram"); !errors.Is(err, ErrFlagParse) {
		t.Errorf("Run: got %v, want %v", err, ErrFlagParse)
	}
}

func TestValidate(t *testing.T) {
	dir := testutil.MakeTempSearchDir(t, testSections(), nil)

	if _, _, err := runApp(t, "validate", "--strict", dir); err != nil {
		t.Fatalf("validate: %v", err)
	}

	// A keyword in the wrong bucket is a warning.
	misplaced := testutil.Entry("datagram", 0, "datagram", testutil.Target("../group__datagram.html", ""))
	if err := os.WriteFile(filepath.Join(dir, "groups_1.js"), testutil.MakeSearchData([]*searchdata.Entry{misplaced}), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runApp(t, "validate", dir); err != nil {
		t.Fatalf("validate: %v", err)
	}
	stdout, _, err := runApp(t, "validate", "--strict", dir)
	if !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("validate --strict: got %v, want %v", err, ErrCheckFailed)
	}
	if !strings.Contains(stdout, "groups_1.js: warning:") {
		t.Errorf("validate --strict: got %q, want warning for groups_1.js", stdout)
	}

	// An entry without targets is an error.
	empty := testutil.Entry("masks", 0, "Masks")
	if err := os.WriteFile(filepath.Join(dir, "groups_1.js"), testutil.MakeSearchData([]*searchdata.Entry{empty}), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runApp(t, "validate", dir); !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("validate: got %v, want %v", err, ErrCheckFailed)
	}

	// A bucket listed in the manifest may exist in any accepted compressed
	// form.
	if err := os.Remove(filepath.Join(dir, "groups_1.js")); err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{".gz", ".dz", ".GZ", ".DZ"} {
		compressed := filepath.Join(dir, "groups_1.js"+ext)
		if err := os.WriteFile(compressed, nil, 0o600); err != nil {
			t.Fatal(err)
		}
		if stdout, _, err := runApp(t, "validate", dir); err != nil {
			t.Errorf("validate with groups_1.js%s: %v\n%s", ext, err, stdout)
		}
		if err := os.Remove(compressed); err != nil {
			t.Fatal(err)
		}
	}

	// A bucket listed in the manifest must exist.
	stdout, _, err = runApp(t, "validate", dir)
	if !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("validate: got %v, want %v", err, ErrCheckFailed)
	}
	if !strings.Contains(stdout, "not found") {
		t.Errorf("validate: got %q, want missing bucket", stdout)
	}
}

func TestFmt(t *testing.T) {
	f := &searchdata.File{Entries: testSections()[0].Entries}
	want, err := searchdata.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "all_0.js")
	unformatted := strings.ReplaceAll(string(want), "\n  [", "\n[")
	if err := os.WriteFile(path, []byte(unformatted), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runApp(t, "fmt", path)
	if err != nil {
		t.Fatalf("fmt: %v", err)
	}
	if diff := cmp.Diff(string(want), stdout); diff != "" {
		t.Errorf("fmt (-want, +got):\n%s", diff)
	}

	stdout, _, err = runApp(t, "fmt", "--check", path)
	if !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("fmt --check: got %v, want %v", err, ErrCheckFailed)
	}
	if got, want := stdout, path+"\n"; got != want {
		t.Errorf("fmt --check: got %q, want %q", got, want)
	}

	if _, _, err := runApp(t, "fmt", "-w", path); err != nil {
		t.Fatalf("fmt -w: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Errorf("fmt -w (-want, +got):\n%s", diff)
	}

	if _, _, err := runApp(t, "fmt", "--check", path); err != nil {
		t.Errorf("fmt --check: %v", err)
	}

	if _, _, err := runApp(t, "fmt", "--check", "-w", path); !errors.Is(err, ErrFlagParse) {
		t.Errorf("fmt --check -w: got %v, want %v", err, ErrFlagParse)
	}
}

func TestExportBuild(t *testing.T) {
	dir := testutil.MakeTempSearchDir(t, testSections(), nil)

	recordsPath := filepath.Join(t.TempDir(), "records.json")
	if _, _, err := runApp(t, "export", "-o", recordsPath, dir); err != nil {
		t.Fatalf("export: %v", err)
	}

	outDir := filepath.Join(t.TempDir(), "html", "search")
	if _, _, err := runApp(t, "build", recordsPath, outDir); err != nil {
		t.Fatalf("build: %v", err)
	}

	if _, _, err := runApp(t, "validate", "--strict", outDir); err != nil {
		t.Errorf("validate: %v", err)
	}

	// Exporting the built directory gives the same records.
	stdout, _, err := runApp(t, "-d", outDir, "export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := builder.Load(strings.NewReader(stdout))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f, err := os.Open(recordsPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	want, err := builder.Load(f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("export (-want, +got):\n%s", diff)
	}
}

func TestBuild_invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	if err := os.WriteFile(path, []byte(`{"records": [{"term": "x", "name": "X", "targets": []}]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := runApp(t, "build", path, t.TempDir())
	if !errors.Is(err, builder.ErrInvalidRecords) {
		t.Fatalf("build: got %v, want %v", err, builder.ErrInvalidRecords)
	}
	if !strings.HasPrefix(stderr, path+": ") {
		t.Errorf("build: got %q, want problems", stderr)
	}
}

func TestCompress(t *testing.T) {
	dir := testutil.MakeTempSearchDir(t, testSections(), nil)

	if _, _, err := runApp(t, "compress", "--remove", dir); err != nil {
		t.Fatalf("compress: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "all_1.js")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Stat: got %v, want %v", err, os.ErrNotExist)
	}
	if _, err := os.Stat(filepath.Join(dir, "all_1.js.dz")); err != nil {
		t.Errorf("Stat: %v", err)
	}

	idx, err := doxysearch.Open(dir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer idx.Close()

	results, err := idx.Lookup("", "masks")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got, want := len(results), 1; got != want {
		t.Errorf("Lookup: got %d results, want %d", got, want)
	}
}
