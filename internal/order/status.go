package order

import "fmt"

// Status is the order lifecycle state set by admins.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusConfirmed Status = "CONFIRMED"
	StatusDelivered Status = "DELIVERED"
)

var statusRank = map[Status]int{
	StatusDraft:     0,
	StatusConfirmed: 1,
	StatusDelivered: 2,
}

// Valid reports whether the status belongs to the known set.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("order: unknown status %q", raw)
	}
	return s, nil
}

// CanTransition enforces the monotonic DRAFT→CONFIRMED→DELIVERED lifecycle.
// Setting the same status again is a no-op and allowed.
func (s Status) CanTransition(to Status) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	next, ok := statusRank[to]
	if !ok {
		return false
	}
	return next >= from
}
