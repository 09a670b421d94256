package dispatch

import "fmt"

// panicError turns a provider panic into a per-recipient failure
type panicError struct {
	value any
}

func (p panicError) Error() string {
	return fmt.Sprintf("provider panicked: %v", p.value)
}
