package services

import (
	"fmt"
	"sync"
)

// PostingGuard halts all posting once a global invariant violation has been
// detected. A halted guard stays halted until an operator investigates and
// the process is restarted; the engine never clears it on its own.
type PostingGuard struct {
	mu     sync.RWMutex
	halted bool
	reason string
}

// NewPostingGuard returns a guard in the open (posting-allowed) state.
func NewPostingGuard() *PostingGuard {
	return &PostingGuard{}
}

// Halt blocks all further postings, recording why.
func (g *PostingGuard) Halt(reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.halted = true
	g.reason = reason
}

// Check returns ErrInvariantViolation if postings are halted.
func (g *PostingGuard) Check() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.halted {
		return fmt.Errorf("%w: %s", ErrInvariantViolation, g.reason)
	}
	return nil
}

// Halted reports whether the guard has tripped.
func (g *PostingGuard) Halted() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.halted
}
