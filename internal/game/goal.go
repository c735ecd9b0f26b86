package game

// GoalStatus is the lifecycle state of a goal tree node.
type GoalStatus uint8

const (
	GoalInactive GoalStatus = iota
	GoalActive
	GoalCompleted
	GoalFailed
)

func (gs GoalStatus) String() string {
	switch gs {
	case GoalInactive:
		return "inactive"
	case GoalActive:
		return "active"
	case GoalCompleted:
		return "completed"
	case GoalFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Goal is a node in a bot's goal tree. Atomic goals drive steering or
// movement directly; composite goals delegate to an ordered subgoal list.
// Terminate must release any steering behaviour the goal enabled; that is
// a resource contract, not optional cleanup.
type Goal interface {
	Name() string
	Activate()
	Execute() GoalStatus
	Terminate()
	Status() GoalStatus
}

type goalBase struct {
	status GoalStatus
}

func (g *goalBase) Status() GoalStatus { return g.status }

// CompositeGoal owns an ordered subgoal list; the front subgoal is the one
// executing. Parents own their subgoals and terminate them when popped.
type CompositeGoal struct {
	goalBase
	subgoals []Goal
}

// PushFront inserts a subgoal at the front of the queue.
func (c *CompositeGoal) PushFront(g Goal) {
	c.subgoals = append([]Goal{g}, c.subgoals...)
}

// PushBack appends a subgoal to the end of the queue.
func (c *CompositeGoal) PushBack(g Goal) {
	c.subgoals = append(c.subgoals, g)
}

// Front returns the executing subgoal, or nil when the list is empty.
func (c *CompositeGoal) Front() Goal {
	if len(c.subgoals) == 0 {
		return nil
	}
	return c.subgoals[0]
}

// RemoveAllSubgoals terminates and drops every subgoal.
func (c *CompositeGoal) RemoveAllSubgoals() {
	for _, g := range c.subgoals {
		g.Terminate()
	}
	c.subgoals = nil
}

// executeSubgoals runs the front subgoal. A completed front subgoal is
// terminated and popped; the next subgoal starts on the next tick, which
// bounds per-tick work. An empty list reports COMPLETED to the caller and
// a failed front subgoal reports FAILED (the composite decides whether to
// replan).
func (c *CompositeGoal) executeSubgoals() GoalStatus {
	if len(c.subgoals) == 0 {
		return GoalCompleted
	}
	front := c.subgoals[0]
	if front.Status() == GoalInactive {
		front.Activate()
	}
	st := front.Execute()
	switch st {
	case GoalCompleted:
		front.Terminate()
		c.subgoals = c.subgoals[1:]
		if len(c.subgoals) == 0 {
			return GoalCompleted
		}
		return GoalActive
	case GoalFailed:
		return GoalFailed
	default:
		return GoalActive
	}
}
