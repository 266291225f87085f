package commands

import "time"

// SetClock replaces the time source used to name pull request branches.
func (it *RunCommand) SetClock(now func() time.Time) {
	it.now = now
}
