// Package lifecycle holds the status state machines for appointments
// and home-collection requests. Transition functions are pure: they
// take the record, the target status and the acting user, mutate the
// record in memory on success and return a typed error otherwise.
// Persistence is the caller's concern.
package lifecycle

import (
	"fmt"
	"time"

	"diagnostic-center-server/internal/authz"
	"diagnostic-center-server/internal/models"
)

// appointmentTransitions maps each target status to the statuses it
// may be reached from.
var appointmentTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusConfirmed: {models.StatusPending},
	models.StatusCompleted: {models.StatusConfirmed},
	models.StatusCancelled: {models.StatusPending, models.StatusConfirmed},
}

// CanTransitionAppointment reports whether the status edge exists,
// ignoring actor permissions.
func CanTransitionAppointment(from, to models.AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[to] {
		if allowed == from {
			return true
		}
	}
	return false
}

// TransitionAppointment validates and applies a status change.
//
//	pending   -> confirmed   staff or admin
//	confirmed -> completed   staff or admin (notes appended)
//	pending   -> cancelled   booking patient, staff or admin
//	confirmed -> cancelled   staff or admin
//
// Cancelling records who cancelled, when and why. No edge leaves
// completed or cancelled; cancelling twice fails rather than silently
// succeeding.
func TransitionAppointment(a *models.Appointment, to models.AppointmentStatus, actor authz.Actor, notes string, now time.Time) error {
	if !models.ValidAppointmentStatus(to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !CanTransitionAppointment(a.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, to)
	}

	caps := actor.Caps()
	switch to {
	case models.StatusConfirmed, models.StatusCompleted:
		if !caps.IsStaff {
			return fmt.Errorf("%w: only staff or admin may mark an appointment %s", ErrUnauthorized, to)
		}
	case models.StatusCancelled:
		selfCancel := a.PatientUserID != "" && actor.ID == a.PatientUserID
		if a.Status == models.StatusPending {
			if !selfCancel && !caps.IsStaff {
				return fmt.Errorf("%w: pending appointments are cancelled by the patient, staff or admin", ErrUnauthorized)
			}
		} else if !caps.IsStaff {
			return fmt.Errorf("%w: confirmed appointments are cancelled by staff or admin", ErrUnauthorized)
		}
	}

	a.Status = to
	if to == models.StatusCancelled {
		a.CancelledAt = &now
		a.CancelledBy = actor.ID
		a.CancellationReason = notes
	} else if notes != "" {
		if a.Notes != "" {
			a.Notes += "\n"
		}
		a.Notes += notes
	}
	return nil
}
