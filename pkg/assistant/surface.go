package assistant

import (
	"strings"
	"sync"

	"bookhaven/pkg/scroll"
)

// Surface is the storefront screen the assistant acts on. Tool handlers
// read it at call time rather than capturing values when the tool set is
// built, so a session that outlives a navigation still sees the live page.
type Surface interface {
	// Location returns the current path and raw query string.
	Location() (path, rawQuery string)
	// Navigate moves the surface to path. Unknown paths are the router's
	// concern; Navigate never fails on them.
	Navigate(path string) error
	// Viewport returns the scrollable viewport of the surface.
	Viewport() scroll.Viewport
}

// MemorySurface is an in-process Surface. It backs headless sessions (MCP
// clients, tests) where no browser is attached.
type MemorySurface struct {
	mu       sync.RWMutex
	path     string
	rawQuery string
	vp       *MemoryViewport
}

// NewMemorySurface starts at the home page with the given page height.
func NewMemorySurface(pageHeight float64) *MemorySurface {
	return &MemorySurface{path: "/", vp: &MemoryViewport{maxY: pageHeight}}
}

// Location returns the current path and query.
func (m *MemorySurface) Location() (string, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path, m.rawQuery
}

// Navigate records the new location and resets scroll, like a page load.
func (m *MemorySurface) Navigate(target string) error {
	path, rawQuery, _ := strings.Cut(target, "?")
	if path == "" {
		path = "/"
	}
	m.mu.Lock()
	m.path = path
	m.rawQuery = rawQuery
	m.mu.Unlock()
	m.vp.SetY(0)
	return nil
}

// Viewport returns the surface viewport.
func (m *MemorySurface) Viewport() scroll.Viewport {
	return m.vp
}

// MemoryViewport is an in-process scroll.Viewport.
type MemoryViewport struct {
	mu   sync.RWMutex
	y    float64
	maxY float64
}

// Y returns the current offset.
func (v *MemoryViewport) Y() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.y
}

// MaxY returns the maximum offset.
func (v *MemoryViewport) MaxY() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.maxY
}

// SetY clamps and stores the offset.
func (v *MemoryViewport) SetY(y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if y < 0 {
		y = 0
	}
	if y > v.maxY {
		y = v.maxY
	}
	v.y = y
}
