package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch starts watching the store file and invalidates the cache whenever it
// is written, created or renamed over. The containing directory is watched
// because editors often replace files instead of writing in place.
// Watching stops when ctx is done or Close is called. The embedded store is
// never watched.
// Watch следит за файлом хранилища и сбрасывает кэш при изменениях.
func (s *ExerciseStore) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	abs, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("watch exercise store: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch exercise store: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watch exercise store: %w", err)
	}

	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()

	go s.watchLoop(ctx, w, abs)
	return nil
}

func (s *ExerciseStore) watchLoop(ctx context.Context, w *fsnotify.Watcher, target string) {
	for {
		select {
		case <-ctx.Done():
			w.Close()
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				s.Invalidate()
				s.logger.Debug("exercise store changed", "op", ev.Op.String())
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("exercise store watcher", "err", err)
		}
	}
}

// Close stops the watcher, if any.
func (s *ExerciseStore) Close() error {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()
	if w == nil {
		return nil
	}
	return w.Close()
}
