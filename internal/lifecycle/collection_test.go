package lifecycle

import (
	"errors"
	"testing"
	"time"

	"diagnostic-center-server/internal/authz"
	"diagnostic-center-server/internal/models"
)

var staffRoles = authz.NewRoleSet(authz.RoleStaff)

func TestNextCollectionStatus(t *testing.T) {
	cases := []struct {
		from   models.CollectionStatus
		want   models.CollectionStatus
		wantOK bool
	}{
		{models.CollectionRequested, models.CollectionAssigned, true},
		{models.CollectionAssigned, models.CollectionCollected, true},
		{models.CollectionCollected, models.CollectionProcessing, true},
		{models.CollectionProcessing, models.CollectionReady, true},
		{models.CollectionReady, "", false},
		{models.CollectionStatus("bogus"), "", false},
	}

	for _, tt := range cases {
		got, ok := NextCollectionStatus(tt.from)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NextCollectionStatus(%s)=(%s, %v), want (%s, %v)", tt.from, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAssignStaff(t *testing.T) {
	now := time.Date(2026, 1, 12, 8, 0, 0, 0, time.UTC)

	t.Run("admin assigns staff", func(t *testing.T) {
		r := &models.HomeCollectionRequest{Status: models.CollectionRequested}
		if err := AssignStaff(r, "s1", staffRoles, adminActor("a1"), now); err != nil {
			t.Fatal(err)
		}
		if r.Status != models.CollectionAssigned {
			t.Fatalf("status=%s, want assigned", r.Status)
		}
		if r.AssignedStaffID != "s1" || r.AssignedBy != "a1" {
			t.Fatalf("assignment metadata: staff=%q by=%q", r.AssignedStaffID, r.AssignedBy)
		}
		if r.AssignedAt == nil || !r.AssignedAt.Equal(now) {
			t.Fatalf("AssignedAt=%v, want %v", r.AssignedAt, now)
		}
	})

	t.Run("reassignment before collection", func(t *testing.T) {
		r := &models.HomeCollectionRequest{Status: models.CollectionAssigned, AssignedStaffID: "s1"}
		if err := AssignStaff(r, "s2", staffRoles, adminActor("a1"), now); err != nil {
			t.Fatal(err)
		}
		if r.AssignedStaffID != "s2" {
			t.Fatalf("AssignedStaffID=%q, want s2", r.AssignedStaffID)
		}
		if r.Status != models.CollectionAssigned {
			t.Fatalf("status=%s, want assigned", r.Status)
		}
	})

	t.Run("no reassignment after collection", func(t *testing.T) {
		for _, status := range []models.CollectionStatus{models.CollectionCollected, models.CollectionProcessing, models.CollectionReady} {
			r := &models.HomeCollectionRequest{Status: status, AssignedStaffID: "s1"}
			err := AssignStaff(r, "s2", staffRoles, adminActor("a1"), now)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("status %s: error=%v, want ErrInvalidTransition", status, err)
			}
			if r.AssignedStaffID != "s1" {
				t.Fatalf("status %s: assignment changed on rejection", status)
			}
		}
	})

	t.Run("target without staff role", func(t *testing.T) {
		r := &models.HomeCollectionRequest{Status: models.CollectionRequested}
		err := AssignStaff(r, "u1", authz.NewRoleSet(authz.RolePatient), adminActor("a1"), now)
		if !errors.Is(err, ErrInvalidStaff) {
			t.Fatalf("error=%v, want ErrInvalidStaff", err)
		}
	})

	t.Run("non-admin cannot assign", func(t *testing.T) {
		r := &models.HomeCollectionRequest{Status: models.CollectionRequested}
		err := AssignStaff(r, "s1", staffRoles, staffActor("s2"), now)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("error=%v, want ErrUnauthorized", err)
		}
	})

	t.Run("manager may assign", func(t *testing.T) {
		r := &models.HomeCollectionRequest{Status: models.CollectionRequested}
		actor := authz.Actor{ID: "m1", Roles: authz.NewRoleSet(authz.RoleManager)}
		if err := AssignStaff(r, "s1", staffRoles, actor, now); err != nil {
			t.Fatal(err)
		}
	})
}

func TestAdvanceCollection(t *testing.T) {
	cases := []struct {
		name    string
		status  models.CollectionStatus
		to      models.CollectionStatus
		actor   authz.Actor
		wantErr error
	}{
		{"assigned staff collects", models.CollectionAssigned, models.CollectionCollected, staffActor("s1"), nil},
		{"assigned staff processes", models.CollectionCollected, models.CollectionProcessing, staffActor("s1"), nil},
		{"assigned staff readies", models.CollectionProcessing, models.CollectionReady, staffActor("s1"), nil},
		{"admin advances without assignment", models.CollectionCollected, models.CollectionProcessing, adminActor("a1"), nil},
		{"skip a status", models.CollectionRequested, models.CollectionCollected, adminActor("a1"), ErrInvalidTransition},
		{"skip to processing", models.CollectionAssigned, models.CollectionProcessing, staffActor("s1"), ErrInvalidTransition},
		{"backward", models.CollectionProcessing, models.CollectionCollected, adminActor("a1"), ErrInvalidTransition},
		{"past terminal", models.CollectionReady, models.CollectionReady, adminActor("a1"), ErrInvalidTransition},
		{"assign via advance", models.CollectionRequested, models.CollectionAssigned, adminActor("a1"), ErrInvalidTransition},
		{"unassigned staff", models.CollectionAssigned, models.CollectionCollected, staffActor("s2"), ErrWrongAssignee},
		{"patient cannot advance", models.CollectionAssigned, models.CollectionCollected, patientActor("p1"), ErrUnauthorized},
		{"unknown status", models.CollectionAssigned, models.CollectionStatus("done"), staffActor("s1"), ErrInvalidTransition},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			r := &models.HomeCollectionRequest{Status: tt.status, AssignedStaffID: "s1"}
			err := AdvanceCollection(r, tt.to, tt.actor)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error=%v, want %v", err, tt.wantErr)
				}
				if r.Status != tt.status {
					t.Fatalf("status changed to %s on rejected transition", r.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Status != tt.to {
				t.Fatalf("status=%s, want %s", r.Status, tt.to)
			}
		})
	}
}

func TestRescheduleCollection(t *testing.T) {
	t.Run("admin reschedules without status change", func(t *testing.T) {
		r := &models.HomeCollectionRequest{
			Status:        models.CollectionAssigned,
			PreferredDate: "2026-01-12",
			PreferredTime: "08:00",
		}
		if err := RescheduleCollection(r, "2026-01-14", "10:00", adminActor("a1")); err != nil {
			t.Fatal(err)
		}
		if r.Status != models.CollectionAssigned {
			t.Fatalf("status=%s, want assigned", r.Status)
		}
		if r.PreferredDate != "2026-01-14" || r.PreferredTime != "10:00" {
			t.Fatalf("rescheduled to %s %s", r.PreferredDate, r.PreferredTime)
		}
	})

	t.Run("staff cannot reschedule", func(t *testing.T) {
		r := &models.HomeCollectionRequest{Status: models.CollectionAssigned, AssignedStaffID: "s1"}
		err := RescheduleCollection(r, "2026-01-14", "10:00", staffActor("s1"))
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("error=%v, want ErrUnauthorized", err)
		}
	})

	t.Run("no reschedule once ready", func(t *testing.T) {
		r := &models.HomeCollectionRequest{Status: models.CollectionReady, PreferredDate: "2026-01-12"}
		err := RescheduleCollection(r, "2026-01-14", "10:00", adminActor("a1"))
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("error=%v, want ErrInvalidTransition", err)
		}
		if r.PreferredDate != "2026-01-12" {
			t.Fatal("date changed on rejection")
		}
	})
}

func TestCanAttachReport(t *testing.T) {
	cases := []struct {
		status models.CollectionStatus
		want   bool
	}{
		{models.CollectionRequested, false},
		{models.CollectionAssigned, false},
		{models.CollectionCollected, true},
		{models.CollectionProcessing, true},
		{models.CollectionReady, true},
	}
	for _, tt := range cases {
		r := &models.HomeCollectionRequest{Status: tt.status}
		if got := CanAttachReport(r); got != tt.want {
			t.Errorf("CanAttachReport(%s)=%v, want %v", tt.status, got, tt.want)
		}
	}
}
