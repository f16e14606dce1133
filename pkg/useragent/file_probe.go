package useragent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileProbe reads the ambient string from a file that another process
// (a platform helper or provisioning step) writes. If the file is missing
// or empty when queried, the surface waits for it to be written.
//
// The file is re-read on every write, so a writer that fills it with several
// writes may have a partial line published. Writers must replace the file
// atomically: write a temporary file in the same directory, then rename it
// over Path.
type FileProbe struct {
	Path string
}

// Open starts watching the file's directory.
func (p FileProbe) Open(ctx context.Context) (Surface, error) {
	path := filepath.Clean(p.Path)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return &fileSurface{path: path, watcher: w}, nil
}

type fileSurface struct {
	path    string
	watcher *fsnotify.Watcher

	closeOnce sync.Once
	closeErr  error
}

func (s *fileSurface) Query(ctx context.Context) (string, error) {
	if v, err := s.read(); err != nil || v != "" {
		return v, err
	}
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return "", ErrProbeClosed
			}
			if filepath.Clean(ev.Name) != s.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if v, err := s.read(); err != nil || v != "" {
				return v, err
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return "", ErrProbeClosed
			}
			return "", fmt.Errorf("watch %s: %w", s.path, err)
		}
	}
}

// read returns "" without error when the file does not exist yet.
func (s *fileSurface) read() (string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.path, err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *fileSurface) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.watcher.Close()
	})
	return s.closeErr
}
