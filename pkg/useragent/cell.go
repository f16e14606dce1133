package useragent

import "sync/atomic"

// Cell holds an identification string that is published at most once.
// The zero value is an empty cell, safe for concurrent use.
type Cell struct {
	v atomic.Pointer[string]
}

// NewCell returns a cell already holding ua, or an empty cell if ua is "".
func NewCell(ua string) *Cell {
	c := &Cell{}
	c.Publish(ua)
	return c
}

// Publish stores ua if the cell is empty and ua is non-empty.
// It reports whether the value was stored.
func (c *Cell) Publish(ua string) bool {
	if ua == "" {
		return false
	}
	return c.v.CompareAndSwap(nil, &ua)
}

// Load returns the published value and whether one exists.
func (c *Cell) Load() (string, bool) {
	p := c.v.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}
