// Package statemachine implements C5 of spec.md §4.4: the four reusable
// state guards, cgroup controller activation discipline, and the
// hierarchy-bound checks (cpu, memory guarantee, capability, access level)
// enforced at property-set time.
package statemachine

import (
	"github.com/ChatWorks/porto/internal/container"
	"github.com/ChatWorks/porto/internal/engineerr"
)

// Guard is one of the four reusable state gates of §4.4.
type Guard int

const (
	// AliveAndStopped permits mutation only while Stopped.
	AliveAndStopped Guard = iota
	// Alive permits mutation in any state except Dead.
	Alive
	// RunningRead permits reads in any state except Stopped.
	RunningRead
	// DeadRead permits reads only in the Dead state.
	DeadRead
	// Unrestricted permits the operation in any state.
	Unrestricted
)

// Check enforces g against c's current state, returning an InvalidState
// error naming prop on violation.
func Check(g Guard, c *container.Container, prop string) error {
	switch g {
	case AliveAndStopped:
		if c.State != container.Stopped {
			return engineerr.InvalidStatef(prop, "requires state stopped, have %s", c.State)
		}
	case Alive:
		if c.State == container.Dead {
			return engineerr.InvalidStatef(prop, "not allowed in state dead")
		}
	case RunningRead:
		if c.State == container.Stopped {
			return engineerr.InvalidStatef(prop, "not available in state stopped")
		}
	case DeadRead:
		if c.State != container.Dead {
			return engineerr.InvalidStatef(prop, "only available in state dead, have %s", c.State)
		}
	case Unrestricted:
		return nil
	}
	return nil
}
