package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/maximus-cyber109/ddt-3d/viewer/model"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOBJ selects the Wavefront OBJ loader backend.
	BackendTypeOBJ LoaderBackendType = iota
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF
)

// ProgressFunc receives load progress. total is -1 when the size is unknown.
type ProgressFunc func(loaded, total int64)

// LoadCallbacks carries the three observer callbacks for an asynchronous
// load. Any field may be nil. Exactly one of OnComplete or OnError fires,
// after any OnProgress calls.
type LoadCallbacks struct {
	OnProgress ProgressFunc
	OnComplete func(model.Model)
	OnError    func(error)
}

// loaderImpl is the implementation of the Loader interface.
type loaderImpl struct {
	mu sync.RWMutex

	modelCache map[string]model.Model

	objBackend  loaderBackend
	gltfBackend loaderBackend

	pool   worker.DynamicWorkerPool
	taskID atomic.Int64
}

// Loader loads and caches 3D models. The file format is dispatched on the
// extension (.obj → OBJ backend, .gltf/.glb → glTF backend), and results are
// cached by path so repeated loads of the same asset are free. Asynchronous
// loads run on a shared worker pool and report back through LoadCallbacks.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is
	// returned. The backend is selected based on the file extension.
	//
	// Parameters:
	//   - path: the file path to the model file
	//   - progress: optional progress callback, may be nil
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading fails
	Load(path string, progress ProgressFunc) (model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the
	// given name. The backend is selected explicitly since a stream has no
	// extension.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//   - backendType: the format backend to use
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, backendType LoaderBackendType) (model.Model, error)

	// LoadAsync imports a model file on the loader's worker pool. Progress,
	// completion, and failure are delivered through the callbacks; exactly
	// one of OnComplete or OnError fires, on the worker goroutine.
	//
	// Parameters:
	//   - path: the file path to the model file
	//   - callbacks: observer callbacks, any field may be nil
	LoadAsync(path string, callbacks LoadCallbacks)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns the full model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model
}

var _ Loader = &loaderImpl{}

// NewLoader creates a new Loader with all format backends registered.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader instance
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loaderImpl{
		modelCache:  make(map[string]model.Model),
		objBackend:  newOBJLoaderBackend(),
		gltfBackend: newGLTFLoaderBackend(),
	}

	for _, option := range options {
		option(l)
	}

	if l.pool == nil {
		// Asset loads are rare and I/O bound; two workers with a small queue
		// covers a model plus any auxiliary files without idle goroutines.
		l.pool = worker.NewDynamicWorkerPool(2, 16, 1*time.Second)
	}
	return l
}

func (l *loaderImpl) Load(path string, progress ProgressFunc) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	imported, err := backend.Load(path, progress)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	m, err := l.importedToModel(imported)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loaderImpl) LoadReader(name string, r io.Reader, backendType LoaderBackendType) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	var backend loaderBackend
	switch backendType {
	case BackendTypeOBJ:
		backend = l.objBackend
	case BackendTypeGLTF:
		backend = l.gltfBackend
	default:
		return nil, fmt.Errorf("unknown loader backend type: %d", backendType)
	}

	imported, err := backend.LoadReader(r, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	imported.Name = name

	m, err := l.importedToModel(imported)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loaderImpl) LoadAsync(path string, callbacks LoadCallbacks) {
	l.pool.SubmitTask(worker.Task{
		ID: int(l.taskID.Add(1)),
		Do: func() (any, error) {
			m, err := l.Load(path, callbacks.OnProgress)
			if err != nil {
				if callbacks.OnError != nil {
					callbacks.OnError(err)
				}
				return nil, err
			}
			if callbacks.OnComplete != nil {
				callbacks.OnComplete(m)
			}
			return m, nil
		},
	})
}

func (l *loaderImpl) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loaderImpl) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

// resolveBackend selects an appropriate loader backend based on the file extension.
func (l *loaderImpl) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		return l.objBackend, nil
	case ".gltf", ".glb":
		return l.gltfBackend, nil
	default:
		return nil, fmt.Errorf("unsupported model format: %s", ext)
	}
}

// importedToModel converts importedMesh CPU data into a Model, rejecting
// meshes a renderer could not draw.
func (l *loaderImpl) importedToModel(imported *importedMesh) (model.Model, error) {
	if len(imported.Vertices) == 0 {
		return nil, fmt.Errorf("model %q has no vertices", imported.Name)
	}
	if len(imported.Indices) == 0 {
		return nil, fmt.Errorf("model %q has no indices", imported.Name)
	}
	for _, idx := range imported.Indices {
		if int(idx) >= len(imported.Vertices) {
			return nil, fmt.Errorf("model %q has index %d out of range (%d vertices)", imported.Name, idx, len(imported.Vertices))
		}
	}

	return model.NewModel(
		model.WithName(imported.Name),
		model.WithVertices(imported.Vertices),
		model.WithIndices(imported.Indices),
	), nil
}
