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

package mcpserver

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the indexes when files in the served search directories or
// in roots change. Reloads happen once no change was seen for debounce.
// Watch blocks until ctx is cancelled.
func (s *Server) Watch(ctx context.Context, roots []string, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	watched := map[string]bool{}
	add := func(dirs []string) {
		for _, dir := range dirs {
			if watched[dir] {
				continue
			}
			if _, err := os.Stat(dir); err != nil {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				s.logger.Warn("watching directory", zap.String("dir", dir), zap.Error(err))
				continue
			}
			s.logger.Debug("watching directory", zap.String("dir", dir))
			watched[dir] = true
		}
	}
	add(roots)
	add(s.Dirs())

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.logger.Debug("search directory changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			if err := s.Reload(); err != nil {
				s.logger.Error("reloading search directories", zap.Error(err))
				continue
			}
			add(s.Dirs())
		}
	}
}
