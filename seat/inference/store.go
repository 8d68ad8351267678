package inference

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Store holds the serving table. The table is loaded on first use and then
// shared read-only; Reload swaps in a freshly read table without disturbing
// readers that still hold the previous one.
type Store struct {
	path string

	loadMu sync.Mutex // serializes loads
	table  atomic.Pointer[Table]

	reloads atomic.Int64

	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewStore returns a store for the table at path. Nothing is read yet.
func NewStore(path string) *Store {
	return &Store{
		path:        filepath.Clean(path),
		debounceDur: 100 * time.Millisecond,
	}
}

// NewStaticStore returns a store pre-loaded with t. Reload still reads path
// when one is given.
func NewStaticStore(t *Table) *Store {
	s := &Store{debounceDur: 100 * time.Millisecond}
	s.table.Store(t)
	return s
}

// Path returns the table file the store reads.
func (s *Store) Path() string { return s.path }

// Table returns the current table, loading it on first call.
func (s *Store) Table() (*Table, error) {
	if t := s.table.Load(); t != nil {
		return t, nil
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if t := s.table.Load(); t != nil {
		return t, nil
	}
	return s.loadLocked()
}

// Reload re-reads the table file and replaces the cached table. On error
// the previous table stays in place.
func (s *Store) Reload() (*Table, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	t, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	s.reloads.Add(1)
	return t, nil
}

// Reloads counts successful reloads since the store was created.
func (s *Store) Reloads() int64 { return s.reloads.Load() }

func (s *Store) loadLocked() (*Table, error) {
	if s.path == "" || s.path == "." {
		return nil, fmt.Errorf("inference table path not set")
	}
	t, err := LoadTable(s.path)
	if err != nil {
		return nil, err
	}
	s.table.Store(t)
	logrus.Infof("Loaded inference table %s (%d rows)", s.path, t.Len())
	return t, nil
}

// Watch reloads the table whenever its file is written, created or renamed
// into place. It watches the containing directory so atomic replacements
// are seen. Watch is non-blocking; call Stop to end it.
func (s *Store) Watch(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	if s.path == "" || s.path == "." {
		return fmt.Errorf("inference table path not set")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating table watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.path), err)
	}

	s.watcher = watcher
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.running = true
	go s.run(ctx, watcher, s.stopCh, s.doneCh)
	logrus.Debugf("Watching %s for new inference tables", s.path)
	return nil
}

// Stop ends a Watch and waits for its goroutine to exit.
func (s *Store) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stopCh, doneCh, watcher := s.stopCh, s.doneCh, s.watcher
	s.mu.Unlock()

	close(stopCh)
	<-doneCh
	if err := watcher.Close(); err != nil {
		logrus.Warnf("closing table watcher: %v", err)
	}
}

func (s *Store) run(ctx context.Context, watcher *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	// Writers often emit several events per deployment; reload once they settle.
	ticker := time.NewTicker(s.debounceDur)
	defer ticker.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = true
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logrus.Warnf("table watcher: %v", err)
		case <-ticker.C:
			if !pending {
				continue
			}
			pending = false
			if _, err := s.Reload(); err != nil {
				logrus.Warnf("Reloading inference table failed, keeping previous table: %v", err)
			}
		}
	}
}
