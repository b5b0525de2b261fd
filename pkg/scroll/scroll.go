// Package scroll drives timed, eased viewport animations for the
// assistant's scroll tool. Animations emulate a person scrolling rather
// than jumping, and any in-flight animation is cancelled by the next one.
package scroll

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// Viewport is the scrollable surface the animator drives. Implementations
// report the live scroll position and accept absolute updates.
type Viewport interface {
	// Y returns the current vertical scroll offset in pixels.
	Y() float64
	// MaxY returns the maximum scrollable offset.
	MaxY() float64
	// SetY moves the viewport to an absolute offset.
	SetY(y float64)
}

// Direction of a relative scroll.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Amount names a scroll distance/duration pair.
type Amount string

const (
	AmountSmall  Amount = "small"
	AmountMedium Amount = "medium"
	AmountLarge  Amount = "large"
	AmountTop    Amount = "top"
	AmountBottom Amount = "bottom"
	// AmountBrowse is a single slow scroll from the current position to
	// the bottom, simulating a human skimming the page.
	AmountBrowse Amount = "browse"
)

// Distances and durations bound per named amount.
const (
	smallDistance  = 250
	mediumDistance = 600
	largeDistance  = 1200

	smallDuration    = 600 * time.Millisecond
	mediumDuration   = time.Second
	largeDuration    = 1500 * time.Millisecond
	absoluteDuration = 1200 * time.Millisecond
	browseDuration   = 6 * time.Second

	tickInterval = 16 * time.Millisecond
)

// Handle controls one running animation. Starting a new animation on the
// same Animator invalidates any previously returned handle.
type Handle struct {
	cancel chan struct{}
	done   chan struct{}
	once   sync.Once
}

// Cancel stops the animation at its current position.
func (h *Handle) Cancel() {
	h.once.Do(func() { close(h.cancel) })
}

// Done is closed when the animation finishes or is cancelled.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Animator runs at most one eased scroll animation at a time against a
// viewport.
type Animator struct {
	mu      sync.Mutex
	vp      Viewport
	current *Handle
}

// NewAnimator builds an animator over the given viewport.
func NewAnimator(vp Viewport) *Animator {
	return &Animator{vp: vp}
}

// To animates the viewport to an absolute target offset over duration,
// cancelling any animation already in flight. The target is clamped to the
// scrollable range.
func (a *Animator) To(target float64, duration time.Duration) *Handle {
	a.mu.Lock()
	if a.current != nil {
		a.current.Cancel()
	}
	h := &Handle{cancel: make(chan struct{}), done: make(chan struct{})}
	a.current = h
	a.mu.Unlock()

	target = clamp(target, 0, a.vp.MaxY())
	if duration <= 0 {
		a.vp.SetY(target)
		close(h.done)
		return h
	}

	start := a.vp.Y()
	delta := target - start
	begin := time.Now()

	go func() {
		defer close(h.done)
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-h.cancel:
				return
			case now := <-ticker.C:
				progress := float64(now.Sub(begin)) / float64(duration)
				if progress >= 1 {
					a.vp.SetY(target)
					return
				}
				a.vp.SetY(start + delta*easeInOutCubic(progress))
			}
		}
	}()
	return h
}

// By animates the viewport by a relative delta.
func (a *Animator) By(delta float64, duration time.Duration) *Handle {
	return a.To(a.vp.Y()+delta, duration)
}

// Scroll resolves a named direction/amount pair against the live viewport
// and starts the animation.
func (a *Animator) Scroll(direction Direction, amount Amount) (*Handle, error) {
	target, duration, err := a.resolve(direction, amount)
	if err != nil {
		return nil, err
	}
	return a.To(target, duration), nil
}

func (a *Animator) resolve(direction Direction, amount Amount) (float64, time.Duration, error) {
	switch Amount(strings.ToLower(string(amount))) {
	case AmountTop:
		return 0, absoluteDuration, nil
	case AmountBottom:
		return a.vp.MaxY(), absoluteDuration, nil
	case AmountBrowse:
		return a.vp.MaxY(), browseDuration, nil
	case AmountSmall:
		return a.vp.Y() + signed(direction, smallDistance), smallDuration, nil
	case AmountMedium, "":
		return a.vp.Y() + signed(direction, mediumDistance), mediumDuration, nil
	case AmountLarge:
		return a.vp.Y() + signed(direction, largeDistance), largeDuration, nil
	default:
		return 0, 0, fmt.Errorf("unknown scroll amount %q", amount)
	}
}

func signed(direction Direction, distance float64) float64 {
	if Direction(strings.ToLower(string(direction))) == DirectionUp {
		return -distance
	}
	return distance
}

// easeInOutCubic gives the animation a natural accelerate/decelerate feel.
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
