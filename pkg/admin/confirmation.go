package admin

// Confirmation is the pending half of a two-phase delete: the target id
// waits here until the admin confirms or cancels. Both paths clear it.
type Confirmation struct {
	target  string
	pending bool
}

// Request replaces any previously pending target.
func (c *Confirmation) Request(id string) {
	c.target = id
	c.pending = id != ""
}

func (c *Confirmation) Pending() (string, bool) {
	return c.target, c.pending
}

// Confirm returns the pending target and clears it.
func (c *Confirmation) Confirm() (string, bool) {
	id, ok := c.target, c.pending
	c.Cancel()
	return id, ok
}

func (c *Confirmation) Cancel() {
	c.target = ""
	c.pending = false
}
