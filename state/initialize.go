package state

import (
	"time"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		// Mark rendered at the bottom of terminal sections. May be replaced
		// from configuration before generation starts.
		EndingMark: []byte(`<svg viewBox="0 0 200 20" xmlns="http://www.w3.org/2000/svg">
  <path d="M50 10
           C65 0 85 0 100 10
           C85 20 65 20 50 10
           M100 10
           C115 0 135 0 150 10
           C135 20 115 20 100 10"
        stroke="black" fill="none" stroke-width="1.3"/>
</svg>`),
	}
}
