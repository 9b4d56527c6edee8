// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package service

import (
	"context"
	"net/url"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/netrace/netrace/pkg/unique"
)

// WatchDelay is the quiet time after the last file change before a reload.
var WatchDelay = 250 * time.Millisecond

// Watch reloads the graph when the configuration file or a local network data file changes.
// Changes are batched until no change has been seen for [WatchDelay].
// Watch blocks until ctx is done.
func (s *Service) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	files := unique.Set[string]{}
	update := func() {
		for _, f := range s.watchFiles() {
			if !files.AddNew(filepath.Clean(f)) {
				continue
			}
			// Watch directories, editors often replace files rather than writing them.
			if err := watcher.Add(filepath.Dir(f)); err != nil {
				log.Error(err, "Cannot watch", "file", f)
			}
		}
	}
	update()

	var timer *time.Timer
	var timerC <-chan time.Time
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
			if !files.Has(filepath.Clean(event.Name)) || event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			log.V(2).Info("File changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(WatchDelay)
				timerC = timer.C
			} else {
				timer.Reset(WatchDelay)
			}

		case <-timerC:
			timer, timerC = nil, nil
			if err := s.Reload(ctx); err != nil {
				log.Error(err, "Reload after change failed")
			}
			update()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error(err, "Watch error")
		}
	}
}

// watchFiles are the local files the current graph depends on.
func (s *Service) watchFiles() []string {
	files := []string{s.source}
	if c := s.Config(); c != nil {
		for _, n := range c.Networks {
			if filepath.IsAbs(n.Data) || !isURL(n.Data) {
				files = append(files, n.Data)
			}
		}
	}
	return files
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}
