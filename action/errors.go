package action

import "fmt"

// MalformedAction reports that an action blob is missing a field required
// to derive index records from it. Fatal for the action (spec §7).
type MalformedAction struct {
	Reason string
}

func (e *MalformedAction) Error() string {
	return fmt.Sprintf("malformed action: %s", e.Reason)
}
