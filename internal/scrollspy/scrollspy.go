// Package scrollspy decides which heading the side-panel TOC highlights.
//
// A heading is current while its top edge lies inside the trigger band. When
// several headings are in the band at once, the one closest to the viewport
// top wins; the runtime script applies the same rule.
package scrollspy

import (
	"fmt"
	"math"
)

// Band is the trigger region, as fractions of the viewport height measured
// inward from the top and bottom edges.
type Band struct {
	Top    float64
	Bottom float64
}

// DefaultBand starts 20% below the viewport top and ends 30% above the
// viewport bottom.
func DefaultBand() Band {
	return Band{Top: 0.20, Bottom: 0.30}
}

// RootMargin renders the band as an IntersectionObserver rootMargin.
func (b Band) RootMargin() string {
	return fmt.Sprintf("-%s 0px -%s 0px", percent(b.Top), percent(b.Bottom))
}

func percent(f float64) string {
	return fmt.Sprintf("%g%%", math.Round(f*10000)/100)
}

// Valid reports whether the band leaves a non-empty region.
func (b Band) Valid() bool {
	return b.Top >= 0 && b.Bottom >= 0 && b.Top+b.Bottom < 1
}

// Contains reports whether a heading whose top edge is at y pixels from the
// viewport top lies inside the band.
func (b Band) Contains(y, viewportHeight float64) bool {
	return y >= viewportHeight*b.Top && y <= viewportHeight*(1-b.Bottom)
}

// Heading is an anchored heading and its top edge relative to the viewport.
type Heading struct {
	ID  string
	Top float64
}

// Pick returns the id of the heading to highlight, or false when no heading
// is inside the band. Equal distances resolve to the earlier heading.
func (b Band) Pick(headings []Heading, viewportHeight float64) (string, bool) {
	best := -1
	for i, h := range headings {
		if h.ID == "" || !b.Contains(h.Top, viewportHeight) {
			continue
		}
		if best < 0 || h.Top < headings[best].Top {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return headings[best].ID, true
}

// Tracker keeps the active heading across scroll updates. An update with no
// heading in the band leaves the previous choice in place.
type Tracker struct {
	band   Band
	active string
}

// NewTracker returns a tracker for band.
func NewTracker(band Band) *Tracker {
	return &Tracker{band: band}
}

// Update recomputes the active heading and reports whether it changed.
func (t *Tracker) Update(headings []Heading, viewportHeight float64) (string, bool) {
	id, ok := t.band.Pick(headings, viewportHeight)
	if !ok || id == t.active {
		return t.active, false
	}
	t.active = id
	return id, true
}

// Active returns the currently highlighted heading id.
func (t *Tracker) Active() string { return t.active }
