package monitoring

import "sync/atomic"

// Counter is a monotonically increasing counter safe for concurrent use.
// The zero value is ready to use.
type Counter struct {
	n atomic.Int64
}

// Add increments the counter by delta.
func (c *Counter) Add(delta int64) { c.n.Add(delta) }

// Inc increments the counter by one.
func (c *Counter) Inc() { c.n.Add(1) }

// Value returns the current counter value.
func (c *Counter) Value() int64 { return c.n.Load() }

// Reset returns the current value and resets the counter to zero.
func (c *Counter) Reset() int64 { return c.n.Swap(0) }
