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

// Package mcpserver exposes loaded Doxygen search indexes as Model Context
// Protocol tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ianlewis/go-doxysearch"
)

// ErrNoIndexes indicates that loading produced no search indexes.
var ErrNoIndexes = errors.New("no search directories loaded")

// Loader opens the search indexes served. It returns all successfully opened
// indexes along with any errors that occurred.
type Loader func() ([]*doxysearch.SearchIndex, []error)

// Options are options for a Server.
type Options struct {
	// Name and Version identify the server to clients.
	Name    string
	Version string

	Logger *zap.Logger
}

// DefaultOptions is the default options for a Server.
var DefaultOptions = &Options{
	Name:    "doxysearch",
	Version: "devel",
}

// indexSet is a generation of loaded indexes. Tool calls hold a read lock
// while they use the set. Retiring the set takes the write lock before the
// indexes are closed.
type indexSet struct {
	mu      sync.RWMutex
	closed  bool
	indexes []*doxysearch.SearchIndex
}

func (set *indexSet) close() error {
	set.mu.Lock()
	defer set.mu.Unlock()

	set.closed = true
	var errs []error
	for _, idx := range set.indexes {
		errs = append(errs, idx.Close())
	}
	return errors.Join(errs...)
}

// Server serves the MCP tools over the current set of indexes.
type Server struct {
	load   Loader
	logger *zap.Logger
	server *mcp.Server

	current  atomic.Pointer[indexSet]
	reloadMu sync.Mutex
}

// New returns a new Server and registers its tools. Indexes are loaded by
// the first call to Reload.
func New(load Loader, opts *Options) *Server {
	if opts == nil {
		opts = DefaultOptions
	}
	name := opts.Name
	if name == "" {
		name = DefaultOptions.Name
	}
	version := opts.Version
	if version == "" {
		version = DefaultOptions.Version
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		load:   load,
		logger: logger,
		server: mcp.NewServer(
			&mcp.Implementation{
				Name:    name,
				Version: version,
			},
			nil,
		),
	}
	s.current.Store(&indexSet{})
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}

// Run serves the tools over the transport until the client disconnects or
// ctx is cancelled.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	if err := s.server.Run(ctx, t); err != nil {
		return fmt.Errorf("running mcp server: %w", err)
	}
	return nil
}

// Reload loads the indexes and swaps them in. The previous indexes are
// closed once in-flight tool calls finish. If nothing could be loaded the
// current indexes are kept.
func (s *Server) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	indexes, errs := s.load()
	for _, err := range errs {
		s.logger.Warn("loading search directory", zap.Error(err))
	}
	if len(indexes) == 0 {
		if len(errs) > 0 {
			return fmt.Errorf("%w: %w", ErrNoIndexes, errors.Join(errs...))
		}
		return ErrNoIndexes
	}

	old := s.current.Swap(&indexSet{indexes: indexes})
	s.logger.Info("loaded search directories", zap.Int("count", len(indexes)))

	if old != nil {
		go func() {
			if err := old.close(); err != nil {
				s.logger.Warn("closing search indexes", zap.Error(err))
			}
		}()
	}
	return nil
}

// acquire returns the current index set locked for reading.
func (s *Server) acquire() (*indexSet, func()) {
	for {
		set := s.current.Load()
		set.mu.RLock()
		if !set.closed {
			return set, set.mu.RUnlock
		}
		// The set was retired between Load and RLock.
		set.mu.RUnlock()
	}
}

// Dirs returns the search directories currently served.
func (s *Server) Dirs() []string {
	set, release := s.acquire()
	defer release()

	var dirs []string
	for _, idx := range set.indexes {
		dirs = append(dirs, idx.Dir())
	}
	return dirs
}

// Close closes the current indexes.
func (s *Server) Close() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	return s.current.Swap(&indexSet{}).close()
}
