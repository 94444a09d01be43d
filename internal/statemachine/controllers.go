package statemachine

import (
	"github.com/ChatWorks/porto/internal/cgroup"
	"github.com/ChatWorks/porto/internal/container"
	"github.com/ChatWorks/porto/internal/engineerr"
)

// WantControllers implements §4.4's "Controller activation": when a
// property that depends on a cgroup subsystem is set, it calls this with
// the mask of controllers it needs.
//
// While Stopped, the mask is OR'd into both Controllers and
// RequiredControllers (the container hasn't started a cgroup hierarchy
// yet, so widening it is free). Once past Stopped, any bit not already
// present fails closed: the controller set is frozen for the life of the
// running container (invariant §3.5).
func WantControllers(c *container.Container, prop string, mask cgroup.Controller) error {
	if c.State == container.Stopped {
		c.Controllers |= mask
		c.RequiredControllers |= mask
		return nil
	}
	if mask&^c.Controllers != 0 {
		return engineerr.NotSupportedf(prop, "cannot enable controllers at runtime")
	}
	return nil
}

// SetControllers replaces c's Controllers mask: the new value must still be
// a superset of RequiredControllers, and may differ from the current mask
// only while c is Stopped.
func SetControllers(c *container.Container, prop string, mask cgroup.Controller) error {
	if mask&c.RequiredControllers != c.RequiredControllers {
		return engineerr.InvalidValuef(prop, mask.String(), "must retain required controllers")
	}
	if c.State != container.Stopped && mask != c.Controllers {
		return engineerr.NotSupportedf(prop, "controllers are frozen once running")
	}
	c.Controllers = mask
	return nil
}
