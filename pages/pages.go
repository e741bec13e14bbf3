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

// Package pages implements reading the documentation pages that search
// targets link to.
//
// Target URLs are relative to the search directory, e.g.
// "../group__mti__field__masks.html#details". A Store resolves them to files
// in the HTML directory and extracts the plain text of the page, or of the
// section that starts at the anchor.
package pages

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/k3a/html2text"
	"golang.org/x/net/html"
)

var (
	// ErrExternal indicates a URL that does not point into the HTML
	// directory.
	ErrExternal = errors.New("external url")

	// ErrAnchorNotFound indicates that the page has no element with the
	// URL's anchor.
	ErrAnchorNotFound = errors.New("anchor not found")
)

// Options are options for a Store.
type Options struct {
	// MaxSectionRunes is the maximum number of runes of text returned for
	// the section after an anchor.
	MaxSectionRunes int
}

// DefaultOptions is the default options for a Store.
var DefaultOptions = &Options{
	MaxSectionRunes: 4096,
}

// Store reads pages from an HTML directory.
type Store struct {
	searchDir string
	htmlDir   string
	opts      Options

	mu    sync.Mutex
	cache map[string]string
}

// New returns a new Store for pages linked from the given search directory.
// The HTML directory is the parent of the search directory.
func New(searchDir string, opts *Options) *Store {
	if opts == nil {
		opts = DefaultOptions
	}
	o := *opts
	if o.MaxSectionRunes <= 0 {
		o.MaxSectionRunes = DefaultOptions.MaxSectionRunes
	}

	return &Store{
		searchDir: searchDir,
		htmlDir:   filepath.Dir(filepath.Clean(searchDir)),
		opts:      o,
		cache:     map[string]string{},
	}
}

// Path returns the file path of the page a target URL links to.
func (s *Store) Path(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing url %q: %w", rawURL, err)
	}
	if u.Scheme != "" || u.Host != "" || path.IsAbs(u.Path) {
		return "", fmt.Errorf("%w: %q", ErrExternal, rawURL)
	}

	p := filepath.Join(s.searchDir, filepath.FromSlash(u.Path))
	rel, err := filepath.Rel(s.htmlDir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrExternal, rawURL)
	}
	return p, nil
}

// HTML returns the raw HTML of the page a target URL links to.
func (s *Store) HTML(rawURL string) (string, error) {
	p, err := s.Path(rawURL)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.cache[p]; ok {
		return b, nil
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("reading page: %w", err)
	}
	s.cache[p] = string(b)
	return s.cache[p], nil
}

// Text returns the plain text that a target URL links to. When the URL has
// an anchor only the section starting at the anchor is returned.
func (s *Store) Text(rawURL string) (string, error) {
	doc, err := s.HTML(rawURL)
	if err != nil {
		return "", err
	}
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parsing page: %w", err)
	}

	_, anchor, _ := strings.Cut(rawURL, "#")
	if anchor == "" {
		n := find(root, func(n *html.Node) bool {
			return n.Data == "div" && hasClass(n, "contents")
		})
		if n == nil {
			n = root
		}
		return render([]*html.Node{n})
	}

	start := find(root, func(n *html.Node) bool {
		return getAttr(n, "id") == anchor || getAttr(n, "name") == anchor
	})
	if start == nil {
		return "", fmt.Errorf("%w: %q", ErrAnchorNotFound, rawURL)
	}
	text, err := render(section(start))
	if err != nil {
		return "", err
	}
	return truncate(text, s.opts.MaxSectionRunes), nil
}

// section returns the element carrying an anchor followed by the nodes
// after it in document order, up to the next anchor element or the end of
// the page contents.
func section(start *html.Node) []*html.Node {
	nodes := []*html.Node{start}
	if isBoundary(start) {
		return nodes
	}
	for n := start; n.Parent != nil; n = n.Parent {
		for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
			if find(sib, isAnchor) != nil {
				return nodes
			}
			nodes = append(nodes, sib)
		}
		if isBoundary(n.Parent) {
			break
		}
	}
	return nodes
}

// render returns the plain text of the given nodes.
func render(nodes []*html.Node) (string, error) {
	var sb strings.Builder
	for _, n := range nodes {
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("rendering page: %w", err)
		}
	}
	return strings.TrimSpace(html2text.HTML2Text(sb.String())), nil
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for range n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return strings.TrimSpace(s[:i])
}

// find returns the first element in the tree rooted at n, in document order,
// for which match returns true.
func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// isAnchor reports whether n is a link target such as <a id="details">.
func isAnchor(n *html.Node) bool {
	return n.Data == "a" && (getAttr(n, "id") != "" || getAttr(n, "name") != "")
}

// isBoundary reports whether n ends a section.
func isBoundary(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return n.Type == html.DocumentNode
	}
	return n.Data == "body" || (n.Data == "div" && hasClass(n, "contents"))
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
