package engine

import "sync"

// Feedback names an event the UI plays back (sound, flash, haptics)
type Feedback string

const (
	FeedbackMove Feedback = "move"
	FeedbackHit  Feedback = "hit"
	FeedbackWin  Feedback = "win"
)

// FeedbackSink receives feedback events. Playback is up to the implementation.
type FeedbackSink interface {
	Play(event Feedback)
}

// FeedbackFunc adapts a function to FeedbackSink
type FeedbackFunc func(event Feedback)

// Play calls f(event)
func (f FeedbackFunc) Play(event Feedback) {
	f(event)
}

type nopSink struct{}

func (nopSink) Play(Feedback) {}

// Viewport reports the width available for drawing the grid. It is queried
// on demand whenever the display cell size is recomputed.
type Viewport interface {
	Width() int
}

// ViewportWidth is a Viewport whose width is pushed in by the owner
type ViewportWidth struct {
	mu    sync.RWMutex
	width int
}

// NewViewportWidth creates a viewport with the given initial width
func NewViewportWidth(width int) *ViewportWidth {
	return &ViewportWidth{width: width}
}

// Width returns the current width
func (v *ViewportWidth) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// SetWidth updates the width
func (v *ViewportWidth) SetWidth(width int) {
	v.mu.Lock()
	v.width = width
	v.mu.Unlock()
}

// ChangeListener is notified with a fresh snapshot after each state change
type ChangeListener func(state *GameState)
