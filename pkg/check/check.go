package check

import (
	"github.com/mrostecki/cluster-diagnosis/pkg/logutil"
)

// Runner is anything that can run and report pass/fail. Both Check and
// Group satisfy it, which is what lets a Group contain other Groups.
type Runner interface {
	Run() bool
}

// Check verifies that some piece of the cluster conforms to an expected
// state. Fn must fold every expected failure condition (missing resources,
// failed queries) into its boolean result; the framework applies no error
// handling of its own at this layer.
type Check struct {
	// Name is a one-line summary of what the check verifies.
	Name string
	// Fn performs the check.
	Fn func() bool
	// OnSuccess and OnFailure run after the outcome line is logged, for
	// example to store debug data in S3. Both are optional.
	OnSuccess func()
	OnFailure func()
	// Log overrides the default logger, mainly for tests.
	Log *logutil.Logger
}

func New(name string, fn func() bool) *Check {
	return &Check{Name: name, Fn: fn}
}

// Run evaluates the check, logs "-- Success --" or "-- Failure --" and
// invokes the matching hook. Hooks are invoked on every run; nothing is
// deduplicated between repeated runs of the same check.
func (c *Check) Run() bool {
	log := c.logger()
	log.Infof("-- %s --", c.Name)
	if !c.Fn() {
		log.Errorf("-- Failure --")
		if c.OnFailure != nil {
			c.OnFailure()
		}
		return false
	}
	log.Infof("-- Success --")
	if c.OnSuccess != nil {
		c.OnSuccess()
	}
	return true
}

func (c *Check) logger() *logutil.Logger {
	if c.Log != nil {
		return c.Log
	}
	return logutil.Default()
}

// Group is an ordered list of Runners executed in insertion order. The
// first failing member stops the run; members after it are never invoked.
type Group struct {
	Name string
	Log  *logutil.Logger

	checks []Runner
}

func NewGroup(name string, checks ...Runner) *Group {
	return &Group{Name: name, checks: checks}
}

// Add appends a check and returns the group so calls can be chained.
// Appending while Run is in progress is not supported.
func (g *Group) Add(r Runner) *Group {
	g.checks = append(g.checks, r)
	return g
}

// Run executes the members in order, stopping at the first failure.
// A group with no checks trivially succeeds.
func (g *Group) Run() bool {
	g.logger().Infof("== %s ==", g.Name)
	for _, c := range g.checks {
		if !c.Run() {
			return false
		}
	}
	return true
}

func (g *Group) logger() *logutil.Logger {
	if g.Log != nil {
		return g.Log
	}
	return logutil.Default()
}
