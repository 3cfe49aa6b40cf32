// Package fallback provides an ordered chain of data sources that always yields a value.
//
// Each tier either produces a value or declines. Tiers are consulted in the
// order they were added and the first one that produces wins. The terminal
// tier cannot decline, so Resolve never comes back empty-handed.
package fallback

import "context"

// TierFunc returns the tier's value and true, or false to pass to the next tier.
type TierFunc[T any] func(ctx context.Context) (T, bool)

// TerminalFunc is the last resort. It must not fail.
type TerminalFunc[T any] func(ctx context.Context) T

// Result is the resolved value and the name of the tier that produced it.
type Result[T any] struct {
	Value T
	Tier  string
}

type tier[T any] struct {
	name string
	fn   TierFunc[T]
}

// Chain is an ordered list of fallible tiers ending in an infallible one.
type Chain[T any] struct {
	tiers        []tier[T]
	terminalName string
	terminal     TerminalFunc[T]
	observer     func(tier string, produced bool)
	onPanic      func(tier string, recovered any)
}

// New creates a chain that ends in the given terminal tier.
func New[T any](terminalName string, terminal TerminalFunc[T]) *Chain[T] {
	return &Chain[T]{
		terminalName: terminalName,
		terminal:     terminal,
	}
}

// Then appends a fallible tier before the terminal one.
func (c *Chain[T]) Then(name string, fn TierFunc[T]) *Chain[T] {
	c.tiers = append(c.tiers, tier[T]{name: name, fn: fn})
	return c
}

// Observe registers a hook called once per consulted tier.
func (c *Chain[T]) Observe(fn func(tier string, produced bool)) *Chain[T] {
	c.observer = fn
	return c
}

// OnPanic registers a hook receiving the value recovered from a panicking tier.
func (c *Chain[T]) OnPanic(fn func(tier string, recovered any)) *Chain[T] {
	c.onPanic = fn
	return c
}

// Tiers returns tier names in evaluation order, terminal last.
func (c *Chain[T]) Tiers() []string {
	names := make([]string, 0, len(c.tiers)+1)
	for _, t := range c.tiers {
		names = append(names, t.name)
	}
	return append(names, c.terminalName)
}

// Resolve walks the tiers in order and returns the first value produced.
// A panicking tier counts as declined and is reported to the OnPanic hook.
func (c *Chain[T]) Resolve(ctx context.Context) Result[T] {
	for _, t := range c.tiers {
		if v, ok := c.try(ctx, t); ok {
			c.notify(t.name, true)
			return Result[T]{Value: v, Tier: t.name}
		}
		c.notify(t.name, false)
	}

	c.notify(c.terminalName, true)
	return Result[T]{Value: c.terminal(ctx), Tier: c.terminalName}
}

func (c *Chain[T]) try(ctx context.Context, t tier[T]) (v T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, ok = zero, false
			if c.onPanic != nil {
				c.onPanic(t.name, r)
			}
		}
	}()
	return t.fn(ctx)
}

func (c *Chain[T]) notify(name string, produced bool) {
	if c.observer != nil {
		c.observer(name, produced)
	}
}
