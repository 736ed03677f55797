package loader

import (
	"github.com/Carmen-Shannon/automation/tools/worker"
)

// LoaderBuilderOption is a functional option for configuring a Loader at creation.
type LoaderBuilderOption func(*loaderImpl)

// WithWorkerPool sets the worker pool used for asynchronous loads. When not
// provided, the loader creates a small pool of its own.
//
// Parameters:
//   - pool: the worker pool to submit async load tasks to
//
// Returns:
//   - LoaderBuilderOption: the option function
func WithWorkerPool(pool worker.DynamicWorkerPool) LoaderBuilderOption {
	return func(l *loaderImpl) {
		l.pool = pool
	}
}
