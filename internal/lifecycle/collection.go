package lifecycle

import (
	"fmt"
	"time"

	"diagnostic-center-server/internal/authz"
	"diagnostic-center-server/internal/models"
)

// collectionOrder is the strict status sequence for home-collection
// requests. Each status is reachable only from its immediate
// predecessor; nothing moves backward.
var collectionOrder = []models.CollectionStatus{
	models.CollectionRequested,
	models.CollectionAssigned,
	models.CollectionCollected,
	models.CollectionProcessing,
	models.CollectionReady,
}

// NextCollectionStatus returns the successor of s, if any.
func NextCollectionStatus(s models.CollectionStatus) (models.CollectionStatus, bool) {
	for i, status := range collectionOrder {
		if status == s && i+1 < len(collectionOrder) {
			return collectionOrder[i+1], true
		}
	}
	return "", false
}

// AssignStaff moves a request from requested to assigned, or reassigns
// it to a different staff member while the sample has not been
// collected yet. Admin/manager only; the target must currently hold
// the staff role.
func AssignStaff(r *models.HomeCollectionRequest, staffID string, staffRoles authz.RoleSet, actor authz.Actor, now time.Time) error {
	if !actor.Caps().IsAdmin {
		return fmt.Errorf("%w: only admin or manager may assign staff", ErrUnauthorized)
	}
	if !staffRoles.Has(authz.RoleStaff) {
		return fmt.Errorf("%w: user %s", ErrInvalidStaff, staffID)
	}
	switch r.Status {
	case models.CollectionRequested, models.CollectionAssigned:
		// initial assignment or reassignment before collection
	default:
		return fmt.Errorf("%w: cannot assign staff at status %s", ErrInvalidTransition, r.Status)
	}

	r.Status = models.CollectionAssigned
	r.AssignedStaffID = staffID
	r.AssignedAt = &now
	r.AssignedBy = actor.ID
	return nil
}

// AdvanceCollection moves a request to the next status in the
// sequence. The assigned staff member or an admin may advance;
// a different staff member is rejected.
func AdvanceCollection(r *models.HomeCollectionRequest, to models.CollectionStatus, actor authz.Actor) error {
	if !models.ValidCollectionStatus(to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	next, ok := NextCollectionStatus(r.Status)
	if !ok || next != to {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, to)
	}
	if to == models.CollectionAssigned {
		// requested -> assigned goes through AssignStaff so the
		// staff-role check cannot be bypassed.
		return fmt.Errorf("%w: assignment requires a staff member", ErrInvalidTransition)
	}

	caps := actor.Caps()
	if !caps.IsAdmin {
		if !caps.IsStaff {
			return fmt.Errorf("%w: only staff or admin may advance a request", ErrUnauthorized)
		}
		if actor.ID != r.AssignedStaffID {
			return fmt.Errorf("%w: assigned to %s", ErrWrongAssignee, r.AssignedStaffID)
		}
	}

	r.Status = to
	return nil
}

// RescheduleCollection changes the preferred date/time without
// touching the status. Admin only, and not once results are ready.
func RescheduleCollection(r *models.HomeCollectionRequest, date, timeOfDay string, actor authz.Actor) error {
	if !actor.Caps().IsAdmin {
		return fmt.Errorf("%w: only admin or manager may reschedule", ErrUnauthorized)
	}
	if r.Status == models.CollectionReady {
		return fmt.Errorf("%w: cannot reschedule a completed request", ErrInvalidTransition)
	}
	r.PreferredDate = date
	r.PreferredTime = timeOfDay
	return nil
}

// CanAttachReport reports whether results may be uploaded for the
// request. Reports logically require a sample, so uploads open up once
// the status reaches collected.
func CanAttachReport(r *models.HomeCollectionRequest) bool {
	switch r.Status {
	case models.CollectionCollected, models.CollectionProcessing, models.CollectionReady:
		return true
	}
	return false
}
