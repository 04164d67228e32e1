package context

import (
	"sync"

	"github.com/deepcausality-go/deepcausality/internal/causalerr"
)

// System holds the primary context plus the registry of extra contexts and
// the process-visible active-extra-context id (§3.6, §4.5, §5). Id 0 means
// "no extra context active — use primary".
type System struct {
	mu       sync.RWMutex
	primary  *ContextGraph
	extras   map[uint64]*ContextGraph
	activeID uint64
	nextID   uint64
}

// NewSystem constructs a System around an existing primary context.
func NewSystem(primary *ContextGraph) *System {
	return &System{primary: primary, extras: make(map[uint64]*ContextGraph), nextID: 1}
}

// Primary returns the primary context.
func (s *System) Primary() *ContextGraph { return s.primary }

// ExtraCtxAddNew creates a new extra context with an auto-assigned id and
// returns it. capacity is accepted for API parity with the source's
// pre-sizing hint but is not required by Go's map-backed graph.
func (s *System) ExtraCtxAddNew(capacity int, defaultActive bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.extras[id] = NewContextGraph()
	if defaultActive {
		s.activeID = id
	}
	return id
}

// ExtraCtxAddNewWithID creates a new extra context under a caller-chosen id.
func (s *System) ExtraCtxAddNewWithID(id uint64, capacity int, defaultActive bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == 0 {
		return causalerr.NewContextIndexError(causalerr.ContextDuplicateID, "id 0 is reserved for the primary context")
	}
	if _, exists := s.extras[id]; exists {
		return causalerr.NewContextIndexError(causalerr.ContextDuplicateID, "extra context id already exists")
	}
	s.extras[id] = NewContextGraph()
	if id >= s.nextID {
		s.nextID = id + 1
	}
	if defaultActive {
		s.activeID = id
	}
	return nil
}

// ExtraCtxCheckExists reports whether id names a registered extra context.
func (s *System) ExtraCtxCheckExists(id uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.extras[id]
	return ok
}

// ExtraCtxGetCurrentID returns the active extra-context id (0 if none).
func (s *System) ExtraCtxGetCurrentID() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// ExtraCtxSetCurrentID activates id. Activating a non-existent id is an error.
func (s *System) ExtraCtxSetCurrentID(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.extras[id]; !ok {
		return causalerr.NewContextIndexError(causalerr.ContextMissing, "extra context does not exist")
	}
	s.activeID = id
	return nil
}

// ExtraCtxUnsetCurrentID deactivates the current extra context. Unsetting
// when none is active is an error.
func (s *System) ExtraCtxUnsetCurrentID() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == 0 {
		return causalerr.NewContextIndexError(causalerr.ContextNoneActive, "no extra context is active")
	}
	s.activeID = 0
	return nil
}

// RemoveExtraContext removes a registered extra context. Removing the
// currently active context is invalid (§3.8).
func (s *System) RemoveExtraContext(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.extras[id]; !ok {
		return causalerr.NewContextIndexError(causalerr.ContextMissing, "extra context does not exist")
	}
	if s.activeID == id {
		return causalerr.NewContextIndexError(causalerr.ContextMissing, "cannot remove the active extra context")
	}
	delete(s.extras, id)
	return nil
}

// ResolveActive returns the currently active context: the primary if the
// active id is 0, otherwise the named extra context (§4.4.7).
func (s *System) ResolveActive() (*ContextGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeID == 0 {
		return s.primary, nil
	}
	cg, ok := s.extras[s.activeID]
	if !ok {
		return nil, causalerr.NewContextIndexError(causalerr.ContextMissing, "active extra context no longer exists")
	}
	return cg, nil
}

// resolveActiveExtra returns the currently active extra context, unlike
// ResolveActive it does not fall back to the primary: the extra_ctx_*
// operations of §4.5 only ever target an active extra context and error
// when none is active.
func (s *System) resolveActiveExtra() (*ContextGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeID == 0 {
		return nil, causalerr.NewContextIndexError(causalerr.ContextNoneActive, "no extra context is active")
	}
	cg, ok := s.extras[s.activeID]
	if !ok {
		return nil, causalerr.NewContextIndexError(causalerr.ContextMissing, "active extra context no longer exists")
	}
	return cg, nil
}

// ExtraCtxAddNode adds c to the active extra context under an auto-assigned
// id and returns it.
func (s *System) ExtraCtxAddNode(c Contextoid) (uint64, error) {
	cg, err := s.resolveActiveExtra()
	if err != nil {
		return 0, err
	}
	return cg.AddNodeAuto(c), nil
}

// ExtraCtxGetNode retrieves the contextoid stored under id in the active
// extra context.
func (s *System) ExtraCtxGetNode(id uint64) (Contextoid, error) {
	cg, err := s.resolveActiveExtra()
	if err != nil {
		return Contextoid{}, err
	}
	c, ok := cg.GetNode(id)
	if !ok {
		return Contextoid{}, causalerr.NewContextIndexError(causalerr.ContextMissing, "node does not exist in active extra context")
	}
	return c, nil
}

// ExtraCtxContainsNode reports whether id names a live node in the active
// extra context. It reports false, rather than error, when no extra
// context is active, mirroring the source's contains_node/contains_edge
// predicates.
func (s *System) ExtraCtxContainsNode(id uint64) bool {
	cg, err := s.resolveActiveExtra()
	if err != nil {
		return false
	}
	return cg.ContainsNode(id)
}

// ExtraCtxRemoveNode tombstones id in the active extra context. Edges
// incident to id are not removed: ExtraCtxContainsEdge and
// ExtraCtxEdgeCount still report them.
func (s *System) ExtraCtxRemoveNode(id uint64) error {
	cg, err := s.resolveActiveExtra()
	if err != nil {
		return err
	}
	return cg.RemoveNode(id)
}

// ExtraCtxAddEdge adds a directed, RelationKind-labeled edge a->b to the
// active extra context.
func (s *System) ExtraCtxAddEdge(a, b uint64, kind RelationKind) error {
	cg, err := s.resolveActiveExtra()
	if err != nil {
		return err
	}
	return cg.AddEdge(a, b, kind)
}

// ExtraCtxContainsEdge reports whether a->b exists in the active extra
// context.
func (s *System) ExtraCtxContainsEdge(a, b uint64) bool {
	cg, err := s.resolveActiveExtra()
	if err != nil {
		return false
	}
	return cg.ContainsEdge(a, b)
}

// ExtraCtxRemoveEdge removes the a->b edge from the active extra context.
func (s *System) ExtraCtxRemoveEdge(a, b uint64) error {
	cg, err := s.resolveActiveExtra()
	if err != nil {
		return err
	}
	return cg.RemoveEdge(a, b)
}

// ExtraCtxSize reports the combined node and edge count of the active
// extra context.
func (s *System) ExtraCtxSize() (int, error) {
	cg, err := s.resolveActiveExtra()
	if err != nil {
		return 0, err
	}
	return cg.Size(), nil
}

// ExtraCtxIsEmpty reports whether the active extra context has no nodes.
func (s *System) ExtraCtxIsEmpty() (bool, error) {
	cg, err := s.resolveActiveExtra()
	if err != nil {
		return false, err
	}
	return cg.IsEmpty(), nil
}

// ExtraCtxNodeCount reports the node count of the active extra context.
func (s *System) ExtraCtxNodeCount() (int, error) {
	cg, err := s.resolveActiveExtra()
	if err != nil {
		return 0, err
	}
	return cg.NumberOfNodes(), nil
}

// ExtraCtxEdgeCount reports the edge count of the active extra context.
func (s *System) ExtraCtxEdgeCount() (int, error) {
	cg, err := s.resolveActiveExtra()
	if err != nil {
		return 0, err
	}
	return cg.NumberOfEdges(), nil
}

// WithContext activates id for the duration of fn, guaranteeing release via
// defer on every exit path including panics (§9's scoped-guard design
// note); the raw Set/Unset calls remain available for callers that need
// them directly.
func (s *System) WithContext(id uint64, fn func(*ContextGraph) error) error {
	if err := s.ExtraCtxSetCurrentID(id); err != nil {
		return err
	}
	defer func() { _ = s.ExtraCtxUnsetCurrentID() }()

	cg, err := s.ResolveActive()
	if err != nil {
		return err
	}
	return fn(cg)
}

// Accessor returns a causaloid.ContextAccessor-compatible closure that
// resolves the system's currently active context at call time.
func (s *System) Accessor() func() (any, error) {
	return func() (any, error) {
		cg, err := s.ResolveActive()
		if err != nil {
			return nil, err
		}
		return cg, nil
	}
}
