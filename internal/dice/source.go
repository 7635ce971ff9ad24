package dice

import "sync/atomic"

// Source returns a die value between min and max, both inclusive.
type Source func(min, max int) int

// defaultSource is the process-wide source used by RollDefault.
var defaultSource atomic.Pointer[Source]

// RegisterSource replaces the process-wide source. The last registration
// wins; registering nil restores the placeholder source. It is safe to call
// concurrently with rolls.
func RegisterSource(src Source) {
	if src == nil {
		defaultSource.Store(nil)
		return
	}
	defaultSource.Store(&src)
}

// DefaultSource returns the registered process-wide source.
func DefaultSource() Source {
	if src := defaultSource.Load(); src != nil {
		return *src
	}
	return placeholderSource
}

// placeholderSource always rolls 1. Register a real source before relying
// on RollDefault.
func placeholderSource(int, int) int {
	return 1
}
