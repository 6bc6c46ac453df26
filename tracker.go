package jamocha

// Tracker keeps the path of components being visited while walking a dependency graph.
type Tracker struct {
	visiting map[*Component]struct{}
	stack    []*Component
}

func NewTracker() *Tracker {
	return &Tracker{
		visiting: make(map[*Component]struct{}),
	}
}

// Push adds the component on top of the path, failing if it is already part of it.
func (tracker *Tracker) Push(c *Component) error {
	if _, found := tracker.visiting[c]; found {
		var cycle []*Component
		for i := len(tracker.stack) - 1; i >= 0; i-- {
			if tracker.stack[i] == c {
				cycle = append(cycle, tracker.stack[i:]...)
				break
			}
		}
		cycle = append(cycle, c)

		return &CyclicDependencyError{Cycle: cycle}
	}
	tracker.visiting[c] = struct{}{}
	tracker.stack = append(tracker.stack, c)

	return nil
}

func (tracker *Tracker) Pop() *Component {
	if len(tracker.stack) == 0 {
		panic("tracker: pop from empty stack")
	}
	c := tracker.stack[len(tracker.stack)-1]
	tracker.stack = tracker.stack[:len(tracker.stack)-1]
	delete(tracker.visiting, c)

	return c
}

func (tracker *Tracker) Depth() int {
	return len(tracker.stack)
}
