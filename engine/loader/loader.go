package loader

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-flock/common"
	"github.com/Carmen-Shannon/oxy-flock/engine/model"
	"golang.org/x/sync/singleflight"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu *sync.RWMutex

	logger *slog.Logger

	registry   map[string]string
	modelCache map[string]model.Model
	inflight   map[string]*Future
	group      singleflight.Group

	backend loaderBackend

	pool       worker.DynamicWorkerPool
	workers    int
	queueSize  int
	nextTaskID atomic.Int64
	closed     bool
	closeOnce  *sync.Once
}

// Loader defines the public-facing interface for loading and caching model templates.
// It abstracts the file format (glTF, GLB) behind a generic backend, resolves template names
// through a registry, and decodes on a worker pool so the frame loop never waits on I/O.
type Loader interface {
	// Register maps a template name to a model file path. Re-registering a cached name has no
	// effect on the cached template.
	//
	// Parameters:
	//   - name: the template name
	//   - path: the .gltf or .glb file path
	Register(name, path string)

	// Load synchronously loads a template by name and caches the result.
	// If the template is already cached, the cached version is returned without touching the file.
	// Concurrent calls for the same name share a single decode.
	//
	// Parameters:
	//   - name: the registered template name
	//
	// Returns:
	//   - model.Model: the loaded template
	//   - error: an *AssetLoadError if loading fails
	Load(name string) (model.Model, error)

	// LoadAsync requests a template by name on the worker pool.
	// A cached name yields an already-resolved Future, and a name whose load is in flight
	// yields that same Future. Failures resolve the Future with an *AssetLoadError.
	//
	// Parameters:
	//   - name: the registered template name
	//
	// Returns:
	//   - *Future: the pending template
	LoadAsync(name string) *Future

	// LoadReader imports a template from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded template
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - model.Model: the loaded template
	//   - error: an *AssetLoadError if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error)

	// LoadTexture decodes an image file into RGBA pixels.
	// PNG, JPEG, BMP and WebP are supported.
	//
	// Parameters:
	//   - path: the image file path
	//
	// Returns:
	//   - common.TextureStagingData: the decoded pixels
	//   - error: an *AssetLoadError if decoding fails
	LoadTexture(path string) (common.TextureStagingData, error)

	// Get retrieves a cached template by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached template or nil
	Get(name string) model.Model

	// Close stops the worker pool. Requests made afterwards fail with ErrLoaderClosed.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         &sync.RWMutex{},
		logger:     slog.Default(),
		registry:   make(map[string]string),
		modelCache: make(map[string]model.Model),
		inflight:   make(map[string]*Future),
		workers:    4,
		queueSize:  64,
		closeOnce:  &sync.Once{},
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = gltfBackend{}
	}

	for _, option := range options {
		option(l)
	}

	l.pool = worker.NewDynamicWorkerPool(l.workers, l.queueSize, time.Second)
	return l
}

func (l *loader) Register(name, path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.registry[name] = path
}

func (l *loader) Load(name string) (model.Model, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	l.mu.RLock()
	path, ok := l.registry[name]
	closed := l.closed
	l.mu.RUnlock()
	if closed {
		return nil, &AssetLoadError{Name: name, Err: ErrLoaderClosed}
	}
	if !ok {
		return nil, &AssetLoadError{Name: name, Err: ErrUnknownAsset}
	}

	v, err, _ := l.group.Do(name, func() (any, error) {
		if cached := l.Get(name); cached != nil {
			return cached, nil
		}

		backend, err := l.resolveBackend(path)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		imported, err := backend.Load(path)
		if err != nil {
			return nil, err
		}

		m := l.importedToModel(name, imported)
		l.mu.Lock()
		l.modelCache[name] = m
		l.mu.Unlock()

		l.logger.Debug("template loaded", "name", name, "path", path,
			"vertices", m.VertexCount(), "elapsed", time.Since(start))
		return m, nil
	})
	if err != nil {
		return nil, asAssetError(name, path, err)
	}
	return v.(model.Model), nil
}

func (l *loader) LoadAsync(name string) *Future {
	l.mu.Lock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.Unlock()
		return Resolved(cached, nil)
	}
	if pending, ok := l.inflight[name]; ok {
		l.mu.Unlock()
		return pending
	}
	if l.closed {
		l.mu.Unlock()
		return Resolved(nil, &AssetLoadError{Name: name, Err: ErrLoaderClosed})
	}
	f := NewFuture()
	l.inflight[name] = f
	l.mu.Unlock()

	l.pool.SubmitTask(worker.Task{
		ID:      int(l.nextTaskID.Add(1)),
		Payload: name,
		Do: func() (any, error) {
			m, err := l.loadRecovered(name)

			l.mu.Lock()
			delete(l.inflight, name)
			l.mu.Unlock()

			f.Complete(m, err)
			return m, err
		},
	})
	return f
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	imported, err := l.backend.LoadReader(r, isGLB)
	if err != nil {
		return nil, &AssetLoadError{Name: name, Err: err}
	}

	m := l.importedToModel(name, imported)
	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadTexture(path string) (common.TextureStagingData, error) {
	tex := &common.ImportedTexture{Name: filepath.Base(path), Path: path}
	staged, err := tex.Decode()
	if err != nil {
		return common.TextureStagingData{}, &AssetLoadError{Name: tex.Name, Path: path, Err: err}
	}
	return staged, nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
		l.pool.Stop()
	})
}

// loadRecovered runs Load on a worker, converting a decoder panic into an AssetLoadError.
// The worker pool does not recover panics itself.
func (l *loader) loadRecovered(name string) (m model.Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("panic while loading template", "name", name, "panic", r)
			m, err = nil, &AssetLoadError{Name: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return l.Load(name)
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// importedToModel converts an ImportedModel into an immutable template named after its registry key.
func (l *loader) importedToModel(name string, imported *model.ImportedModel) model.Model {
	options := append(model.FromImported(imported), model.WithName(name))
	return model.NewModel(options...)
}
