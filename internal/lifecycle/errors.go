package lifecycle

import "errors"

var (
	// ErrInvalidTransition is returned for any status change not in
	// the transition tables. Wrapped messages name both states.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnauthorized is returned when the acting user's role set does
	// not permit the operation.
	ErrUnauthorized = errors.New("operation not permitted for this role")

	// ErrInvalidStaff is returned when staff assignment targets a user
	// who does not hold the staff role.
	ErrInvalidStaff = errors.New("assignee does not hold the staff role")

	// ErrWrongAssignee is returned when a staff member other than the
	// assigned one tries to advance a collection request.
	ErrWrongAssignee = errors.New("request is assigned to a different staff member")

	// ErrSlotUnavailable is returned when a slot's booking count has
	// reached the doctor's per-slot capacity.
	ErrSlotUnavailable = errors.New("slot is no longer available")

	// ErrConcurrentModification is returned when a conditional update
	// finds the row changed since it was read. The stale transition is
	// rejected rather than overwriting the newer one.
	ErrConcurrentModification = errors.New("record was modified concurrently")
)
