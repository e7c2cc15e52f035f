package service

import (
	"context"
	"errors"
	"testing"

	"github.com/olegiv/cvdesk-go/internal/model"
	"github.com/olegiv/cvdesk-go/internal/testutil"
)

func TestExperienceAdd(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	svc := NewExperienceService(db)
	user := testutil.CreateUser(t, db, "exp@example.com", "Passw0rd", model.RoleStudent)

	exp, err := svc.Add(ctx, user.ID, AddParams{
		Type:         model.ExperienceWork,
		Title:        "Backend Developer",
		Organization: "Acme",
		StartDate:    "2022-03-01",
		EndDate:      "2023-06-30",
		Description:  "Built internal tools",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if exp.ID == 0 {
		t.Error("exp.ID should not be 0")
	}
	if !exp.EndDate.Valid {
		t.Error("EndDate should be set")
	}
}

func TestExperienceAdd_OngoingDiscardsEndDate(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	svc := NewExperienceService(db)
	user := testutil.CreateUser(t, db, "ongoing@example.com", "Passw0rd", model.RoleStudent)

	exp, err := svc.Add(ctx, user.ID, AddParams{
		Type:         model.ExperienceEducation,
		Title:        "MSc Computer Science",
		Organization: "Politecnico",
		StartDate:    "2024-09-01",
		EndDate:      "2026-07-01", // submitted but entry is ongoing
		IsOngoing:    true,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if exp.EndDate.Valid {
		t.Error("ongoing entry must store a null end date")
	}
	if !exp.IsOngoing {
		t.Error("IsOngoing should be true")
	}
}

func TestExperienceAdd_FinishedEntryRequiresEndDate(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	svc := NewExperienceService(db)
	user := testutil.CreateUser(t, db, "finished@example.com", "Passw0rd", model.RoleStudent)

	_, err := svc.Add(ctx, user.ID, AddParams{
		Type:         model.ExperienceWork,
		Title:        "Waiter",
		Organization: "Trattoria",
		StartDate:    "2023-01-01",
		IsOngoing:    false,
	})
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Messages) != 1 || ve.Messages[0] != "End date is required" {
		t.Errorf("Messages = %v, want [End date is required]", ve.Messages)
	}

	list, err := svc.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("len(list) = %d, want 0 (nothing persisted)", len(list))
	}
}

func TestExperienceAdd_Validation(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewExperienceService(db)
	user := testutil.CreateUser(t, db, "invalid@example.com", "Passw0rd", model.RoleStudent)

	tests := []struct {
		name   string
		params AddParams
	}{
		{"bad type", AddParams{Type: "hobby", Title: "X", Organization: "Y", StartDate: "2022-01-01"}},
		{"missing title", AddParams{Type: model.ExperienceWork, Organization: "Y", StartDate: "2022-01-01"}},
		{"missing start date", AddParams{Type: model.ExperienceWork, Title: "X", Organization: "Y"}},
		{"missing end date", AddParams{Type: model.ExperienceWork, Title: "X", Organization: "Y",
			StartDate: "2022-01-01"}},
		{"end before start", AddParams{Type: model.ExperienceWork, Title: "X", Organization: "Y",
			StartDate: "2022-01-01", EndDate: "2021-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), user.ID, tt.params)
			if _, ok := AsValidationError(err); !ok {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestExperienceDelete_OwnerScoped(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	svc := NewExperienceService(db)
	owner := testutil.CreateUser(t, db, "owner@example.com", "Passw0rd", model.RoleStudent)
	other := testutil.CreateUser(t, db, "other@example.com", "Passw0rd", model.RoleStudent)

	exp, err := svc.Add(ctx, owner.ID, AddParams{
		Type:         model.ExperienceWork,
		Title:        "Intern",
		Organization: "Acme",
		StartDate:    "2021-06-01",
		EndDate:      "2021-08-31",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Foreign and missing entries are indistinguishable
	if err := svc.Delete(ctx, other.ID, exp.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign delete: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, owner.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing delete: expected ErrNotFound, got %v", err)
	}

	if err := svc.Delete(ctx, owner.ID, exp.ID); err != nil {
		t.Errorf("owner delete: %v", err)
	}

	list, err := svc.List(ctx, owner.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("len(list) = %d, want 0", len(list))
	}
}
