package panel

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

var errWatcherClosed = errors.New("file watcher already closed")

type fileWatcher struct {
	path    string
	panel   Panel
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	done      chan struct{}
	wg        *sync.WaitGroup
	closeOnce *sync.Once
	onApply   func(Params, error)
}

// FileWatcher watches a YAML params file and commits its contents to a panel whenever the file is
// written or created. Partial documents keep the panel's current values for missing fields.
type FileWatcher interface {
	// Start begins watching on a background goroutine.
	//
	// Returns:
	//   - error: error if the watcher was closed
	Start() error

	// Reload reads the file and commits it to the panel immediately.
	//
	// Returns:
	//   - error: error if the file cannot be read or parsed
	Reload() error

	// Close stops watching and waits for the background goroutine to exit.
	Close() error
}

var _ FileWatcher = &fileWatcher{}

// NewFileWatcher creates a watcher for path. The file's directory is watched rather than the file, so
// editors that replace the file on save are still seen.
//
// Parameters:
//   - path: the params file
//   - p: the panel to commit to
//   - options: a variadic list of FileWatcherBuilderOption functions
//
// Returns:
//   - FileWatcher: the new watcher, not yet started
//   - error: error if the directory cannot be watched
func NewFileWatcher(path string, p Panel, options ...FileWatcherBuilderOption) (FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve params file: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	fw := &fileWatcher{
		path:      abs,
		panel:     p,
		logger:    slog.Default(),
		watcher:   w,
		done:      make(chan struct{}),
		wg:        &sync.WaitGroup{},
		closeOnce: &sync.Once{},
	}
	for _, opt := range options {
		opt(fw)
	}
	return fw, nil
}

func (fw *fileWatcher) Start() error {
	select {
	case <-fw.done:
		return errWatcherClosed
	default:
	}

	fw.wg.Add(1)
	go func() {
		defer fw.wg.Done()
		for {
			select {
			case <-fw.done:
				return
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != fw.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				err := fw.Reload()
				if err != nil {
					fw.logger.Warn("ignoring params file", "path", fw.path, "error", err)
				}
				if fw.onApply != nil {
					fw.onApply(fw.panel.Params(), err)
				}
			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				fw.logger.Warn("params file watcher error", "error", err)
			}
		}
	}()
	return nil
}

func (fw *fileWatcher) Reload() error {
	data, err := os.ReadFile(fw.path)
	if err != nil {
		return fmt.Errorf("failed to read params file: %w", err)
	}

	params := fw.panel.Staged()
	if err := yaml.Unmarshal(data, &params); err != nil {
		return fmt.Errorf("failed to parse params file: %w", err)
	}
	fw.panel.Stage(params)
	fw.panel.Commit()
	fw.logger.Info("params committed from file", "params", fw.panel.Params().String())
	return nil
}

func (fw *fileWatcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
		fw.wg.Wait()
	})
	return err
}

// FileWatcherBuilderOption is a functional option for configuring a FileWatcher.
type FileWatcherBuilderOption func(*fileWatcher)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) FileWatcherBuilderOption {
	return func(fw *fileWatcher) {
		if logger != nil {
			fw.logger = logger
		}
	}
}

// WithApplyHook registers a function called after each file event is handled, with the committed
// params and the reload error, if any.
func WithApplyHook(fn func(Params, error)) FileWatcherBuilderOption {
	return func(fw *fileWatcher) {
		fw.onApply = fn
	}
}
