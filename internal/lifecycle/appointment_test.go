package lifecycle

import (
	"errors"
	"testing"
	"time"

	"diagnostic-center-server/internal/authz"
	"diagnostic-center-server/internal/models"
)

func staffActor(id string) authz.Actor {
	return authz.Actor{ID: id, Roles: authz.NewRoleSet(authz.RoleStaff)}
}

func adminActor(id string) authz.Actor {
	return authz.Actor{ID: id, Roles: authz.NewRoleSet(authz.RoleAdmin)}
}

func patientActor(id string) authz.Actor {
	return authz.Actor{ID: id, Roles: authz.NewRoleSet(authz.RolePatient)}
}

func TestCanTransitionAppointment(t *testing.T) {
	cases := []struct {
		from models.AppointmentStatus
		to   models.AppointmentStatus
		want bool
	}{
		{models.StatusPending, models.StatusConfirmed, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusConfirmed, models.StatusCompleted, true},
		{models.StatusConfirmed, models.StatusCancelled, true},
		{models.StatusPending, models.StatusCompleted, false},
		{models.StatusConfirmed, models.StatusConfirmed, false},
		{models.StatusCompleted, models.StatusConfirmed, false},
		{models.StatusCompleted, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusCancelled, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusConfirmed, false},
	}

	for _, tt := range cases {
		if got := CanTransitionAppointment(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransitionAppointment(%s, %s)=%v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTransitionAppointment(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		status  models.AppointmentStatus
		to      models.AppointmentStatus
		actor   authz.Actor
		wantErr error
	}{
		{"staff confirms pending", models.StatusPending, models.StatusConfirmed, staffActor("s1"), nil},
		{"admin confirms pending", models.StatusPending, models.StatusConfirmed, adminActor("a1"), nil},
		{"patient cannot confirm", models.StatusPending, models.StatusConfirmed, patientActor("p1"), ErrUnauthorized},
		{"staff completes confirmed", models.StatusConfirmed, models.StatusCompleted, staffActor("s1"), nil},
		{"patient cannot complete", models.StatusConfirmed, models.StatusCompleted, patientActor("p1"), ErrUnauthorized},
		{"cannot complete pending", models.StatusPending, models.StatusCompleted, adminActor("a1"), ErrInvalidTransition},
		{"cannot reopen completed", models.StatusCompleted, models.StatusConfirmed, adminActor("a1"), ErrInvalidTransition},
		{"cannot cancel completed", models.StatusCompleted, models.StatusCancelled, adminActor("a1"), ErrInvalidTransition},
		{"cannot cancel twice", models.StatusCancelled, models.StatusCancelled, adminActor("a1"), ErrInvalidTransition},
		{"patient cancels own pending", models.StatusPending, models.StatusCancelled, patientActor("p1"), nil},
		{"other patient cannot cancel", models.StatusPending, models.StatusCancelled, patientActor("p2"), ErrUnauthorized},
		{"patient cannot cancel confirmed", models.StatusConfirmed, models.StatusCancelled, patientActor("p1"), ErrUnauthorized},
		{"staff cancels confirmed", models.StatusConfirmed, models.StatusCancelled, staffActor("s1"), nil},
		{"unknown target status", models.StatusPending, models.AppointmentStatus("archived"), adminActor("a1"), ErrInvalidTransition},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			a := &models.Appointment{Status: tt.status, PatientUserID: "p1"}
			err := TransitionAppointment(a, tt.to, tt.actor, "", now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error=%v, want %v", err, tt.wantErr)
				}
				if a.Status != tt.status {
					t.Fatalf("status changed to %s on rejected transition", a.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Status != tt.to {
				t.Fatalf("status=%s, want %s", a.Status, tt.to)
			}
		})
	}
}

func TestTransitionAppointmentCancellationMetadata(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	a := &models.Appointment{Status: models.StatusConfirmed, PatientUserID: "p1"}

	if err := TransitionAppointment(a, models.StatusCancelled, staffActor("s1"), "patient requested", now); err != nil {
		t.Fatal(err)
	}
	if a.CancelledAt == nil || !a.CancelledAt.Equal(now) {
		t.Fatalf("CancelledAt=%v, want %v", a.CancelledAt, now)
	}
	if a.CancelledBy != "s1" {
		t.Fatalf("CancelledBy=%q, want s1", a.CancelledBy)
	}
	if a.CancellationReason != "patient requested" {
		t.Fatalf("CancellationReason=%q", a.CancellationReason)
	}
}

func TestTransitionAppointmentAppendsNotes(t *testing.T) {
	now := time.Now()
	a := &models.Appointment{Status: models.StatusPending, Notes: "fasting required"}

	if err := TransitionAppointment(a, models.StatusConfirmed, staffActor("s1"), "bring prior reports", now); err != nil {
		t.Fatal(err)
	}
	if want := "fasting required\nbring prior reports"; a.Notes != want {
		t.Fatalf("Notes=%q, want %q", a.Notes, want)
	}
}

// Guest bookings have no patient user, so cancellation of a pending
// appointment still needs staff.
func TestTransitionAppointmentGuestBooking(t *testing.T) {
	a := &models.Appointment{Status: models.StatusPending}
	err := TransitionAppointment(a, models.StatusCancelled, patientActor(""), "", time.Now())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error=%v, want ErrUnauthorized", err)
	}
}
