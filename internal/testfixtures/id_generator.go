package testfixtures

import (
	"strconv"
	"sync/atomic"
)

// IDGenerator produces deterministic identifiers such as "session-1",
// "session-2" for tests. It is safe for concurrent use.
type IDGenerator struct {
	prefix  atomic.Value
	counter atomic.Uint64
}

// NewIDGenerator constructs a generator that yields identifiers with the given
// prefix. When prefix is empty, "id" is used.
func NewIDGenerator(prefix string) *IDGenerator {
	g := &IDGenerator{}
	g.SetPrefix(prefix)
	return g
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	n := g.counter.Add(1)
	return g.prefix.Load().(string) + "-" + strconv.FormatUint(n, 10)
}

// NextFunc exposes Next as a function suitable for dependency injection.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

// SetPrefix updates the generator prefix. An empty prefix selects "id".
func (g *IDGenerator) SetPrefix(prefix string) {
	if prefix == "" {
		prefix = "id"
	}
	g.prefix.Store(prefix)
}

// SetCounter overrides the internal counter, enabling deterministic resets.
func (g *IDGenerator) SetCounter(counter uint64) {
	g.counter.Store(counter)
}
