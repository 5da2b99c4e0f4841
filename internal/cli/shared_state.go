package cli

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/devlingo/devlingo/internal/domain"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App
	Ctx context.Context

	// Terminal dimensions
	Width  int
	Height int

	mu   sync.RWMutex
	user *domain.User
	xp   int

	// loadSeq hands out liveness tokens for asynchronous loads.
	loadSeq atomic.Uint64
}

func newSharedState(app *App) *SharedState {
	return &SharedState{
		App:  app,
		Ctx:  context.Background(),
		user: app.Auth.User(),
	}
}

// User returns the cached signed-in user, or nil.
func (s *SharedState) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser is the auth listener; it may run on any goroutine.
func (s *SharedState) SetUser(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	if u == nil {
		s.xp = 0
	}
}

// XP returns the XP total last read by the unit path.
func (s *SharedState) XP() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.xp
}

func (s *SharedState) SetXP(xp int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.xp = xp
}

// NextToken returns a fresh liveness token. A view keeps the token of its
// latest load and ignores results carrying any other.
func (s *SharedState) NextToken() uint64 {
	return s.loadSeq.Add(1)
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
