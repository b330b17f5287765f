package loader

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-flock/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithAsset is an option builder that registers a template name with its model file path.
//
// Parameters:
//   - name: the template name
//   - path: the .gltf or .glb file path
//
// Returns:
//   - LoaderBuilderOption: a function that applies the asset option to a loader
func WithAsset(name, path string) LoaderBuilderOption {
	return func(l *loader) {
		l.registry[name] = path
	}
}

// WithAssets is an option builder that registers several templates at once.
func WithAssets(assets map[string]string) LoaderBuilderOption {
	return func(l *loader) {
		for name, path := range assets {
			l.registry[name] = path
		}
	}
}

// WithModel is an option builder that pre-populates the template cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}

// WithWorkers is an option builder that sets the maximum number of decode workers.
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithQueueSize is an option builder that sets the pending-task queue size of the worker pool.
func WithQueueSize(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.queueSize = n
		}
	}
}

// WithLogger is an option builder that sets the structured logger of the Loader.
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}
