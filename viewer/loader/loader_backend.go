package loader

import (
	"io"

	"github.com/maximus-cyber109/ddt-3d/viewer/model"
)

// importedMesh holds CPU-side mesh data produced by a loader backend, before
// it is wrapped into a Model.
type importedMesh struct {
	Name     string
	Vertices []model.Vertex
	Indices  []uint32
}

// loaderBackend defines the generic interface for loading models from files or streams.
// Concrete implementations (objLoaderBackend, gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports mesh data from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//   - progress: optional progress callback, may be nil
	//
	// Returns:
	//   - *importedMesh: the imported mesh data
	//   - error: error if loading fails
	Load(path string, progress ProgressFunc) (*importedMesh, error)

	// LoadReader imports mesh data from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - progress: optional progress callback, may be nil
	//
	// Returns:
	//   - *importedMesh: the imported mesh data
	//   - error: error if loading fails
	LoadReader(r io.Reader, progress ProgressFunc) (*importedMesh, error)
}

// progressReader wraps a reader and reports cumulative bytes read through a
// ProgressFunc. total is -1 when the underlying size is unknown.
type progressReader struct {
	r        io.Reader
	loaded   int64
	total    int64
	progress ProgressFunc
}

func newProgressReader(r io.Reader, total int64, progress ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, progress: progress}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.loaded += int64(n)
		if p.progress != nil {
			p.progress(p.loaded, p.total)
		}
	}
	return n, err
}
