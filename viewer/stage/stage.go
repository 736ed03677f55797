package stage

import (
	"math"
	"sync"

	"github.com/maximus-cyber109/ddt-3d/viewer/model"
)

// LoadState describes the stage's asset lifecycle. A stage starts Pending,
// and moves exactly once to either Loaded or Failed.
type LoadState int

const (
	// StatePending means no asset has arrived yet.
	StatePending LoadState = iota
	// StateLoaded means an asset was resolved and normalized onto the stage.
	StateLoaded
	// StateFailed means loading or normalization failed; the stage holds no model.
	StateFailed
)

// String returns the name of the load state.
func (s LoadState) String() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateLoaded:
		return "Loaded"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// stageImpl is the implementation of the Stage interface.
type stageImpl struct {
	mu *sync.Mutex

	state      LoadState
	failReason string

	targetSize float32
	tiltX      float32
	tiltZ      float32

	spinX float32
	spinY float32

	model model.Model
}

// Stage holds the single presented model and its load lifecycle. Resolving
// a model normalizes it once: the bounding-box center is translated to the
// origin, a uniform scale brings the largest dimension to the configured
// target size, and a fixed presentation tilt is applied. Later Resolve or
// Fail calls are ignored; the first outcome wins.
type Stage interface {
	// State returns the current load state.
	//
	// Returns:
	//   - LoadState: the current state
	State() LoadState

	// FailReason returns the failure description, or "" when not failed.
	//
	// Returns:
	//   - string: the failure reason
	FailReason() string

	// Model returns the resolved model, or nil before a successful Resolve.
	//
	// Returns:
	//   - model.Model: the staged model or nil
	Model() model.Model

	// Resolve normalizes the model onto the stage and moves the state to
	// Loaded. A degenerate bounding box (max dimension <= 0 or non-finite)
	// moves the state to Failed instead. Does nothing unless the state is
	// Pending.
	//
	// Parameters:
	//   - m: the loaded model to stage
	//
	// Returns:
	//   - bool: true if the model was staged, false otherwise
	Resolve(m model.Model) bool

	// Fail moves the state to Failed with the given reason. Does nothing
	// unless the state is Pending.
	//
	// Parameters:
	//   - reason: human-readable failure description
	Fail(reason string)

	// SetPresentationSpin adds a transient spin on top of the base tilt.
	// Only the model's own orientation changes; camera state is untouched.
	//
	// Parameters:
	//   - rx: extra rotation around X in radians
	//   - ry: extra rotation around Y in radians
	SetPresentationSpin(rx, ry float32)
}

var _ Stage = &stageImpl{}

// NewStage creates an empty Stage in the Pending state.
//
// Parameters:
//   - options: functional options to configure the stage
//
// Returns:
//   - Stage: the newly created stage
func NewStage(options ...StageOption) Stage {
	s := &stageImpl{
		mu:         &sync.Mutex{},
		state:      StatePending,
		targetSize: 3.0,
		tiltX:      0.2,
		tiltZ:      -0.1,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *stageImpl) State() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *stageImpl) FailReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failReason
}

func (s *stageImpl) Model() model.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

func (s *stageImpl) Resolve(m model.Model) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePending {
		return false
	}

	bounds := m.Bounds()
	maxDim := bounds.MaxDimension()
	if maxDim <= 0 || math.IsInf(float64(maxDim), 0) || math.IsNaN(float64(maxDim)) {
		s.state = StateFailed
		s.failReason = "degenerate geometry: bounding box has no usable extent"
		return false
	}

	scale := s.targetSize / maxDim
	center := bounds.Center()

	// Position is the negated bounding-box center. The model matrix applies
	// it before rotation and scale, so the center lands exactly at the
	// origin no matter the tilt.
	m.SetUniformScale(scale)
	m.SetPosition(-center.X, -center.Y, -center.Z)
	m.SetRotation(s.tiltX+s.spinX, s.spinY, s.tiltZ)

	s.model = m
	s.state = StateLoaded
	return true
}

func (s *stageImpl) Fail(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePending {
		return
	}
	s.state = StateFailed
	s.failReason = reason
}

func (s *stageImpl) SetPresentationSpin(rx, ry float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spinX = rx
	s.spinY = ry
	if s.model != nil {
		s.model.SetRotation(s.tiltX+rx, ry, s.tiltZ)
	}
}
