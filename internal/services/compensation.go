package services

// compensations collects undo actions for a multi-call write sequence.
// When a later call fails, Run executes the registered actions in reverse
// order, best effort: a failing compensation does not stop the rest.
type compensations struct {
	actions []func() error
}

func (c *compensations) add(action func() error) {
	c.actions = append(c.actions, action)
}

func (c *compensations) run() {
	for i := len(c.actions) - 1; i >= 0; i-- {
		_ = c.actions[i]()
	}
}
