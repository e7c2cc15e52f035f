package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/olegiv/cvdesk-go/internal/model"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "cvdesk-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func createTestUser(t *testing.T, q *Queries, email string) model.User {
	t.Helper()

	now := time.Now()
	user, err := q.CreateUser(context.Background(), CreateUserParams{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "Student",
		Role:         model.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func TestCreateUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	user := createTestUser(t, New(db), "test@example.com")

	if user.ID == 0 {
		t.Error("user.ID should not be 0")
	}
	if user.Email != "test@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "test@example.com")
	}
	if user.Role != model.RoleStudent {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleStudent)
	}
	if user.LastLoginAt.Valid {
		t.Error("LastLoginAt should be null for a fresh user")
	}
}

func TestCreateUser_DuplicateEmailCaseInsensitive(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	createTestUser(t, q, "dup@example.com")

	now := time.Now()
	_, err := q.CreateUser(context.Background(), CreateUserParams{
		Email:        "DUP@Example.COM",
		PasswordHash: "hash",
		FirstName:    "Other",
		LastName:     "Student",
		Role:         model.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err == nil {
		t.Fatal("expected unique constraint error for case-variant email")
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	created := createTestUser(t, q, "find@example.com")

	found, err := q.GetUserByEmail(context.Background(), "FIND@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	_, err := q.GetUserByEmail(context.Background(), "nonexistent@example.com")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUpdateUserIdentity(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	created := createTestUser(t, q, "identity@example.com")

	err := q.UpdateUserIdentity(ctx, UpdateUserIdentityParams{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		UpdatedAt: time.Now(),
		ID:        created.ID,
	})
	if err != nil {
		t.Fatalf("UpdateUserIdentity: %v", err)
	}

	updated, err := q.GetUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if updated.FirstName != "Ada" || updated.LastName != "Lovelace" {
		t.Errorf("name = %q %q, want Ada Lovelace", updated.FirstName, updated.LastName)
	}
	if updated.Email != "ada@example.com" {
		t.Errorf("Email = %q, want ada@example.com", updated.Email)
	}
}

func TestCountUsersByEmailExcluding(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	a := createTestUser(t, q, "a@example.com")
	createTestUser(t, q, "b@example.com")

	// Own email does not count against itself
	count, err := q.CountUsersByEmailExcluding(ctx, "A@example.com", a.ID)
	if err != nil {
		t.Fatalf("CountUsersByEmailExcluding: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	// Another user's email does
	count, err = q.CountUsersByEmailExcluding(ctx, "b@example.com", a.ID)
	if err != nil {
		t.Fatalf("CountUsersByEmailExcluding: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestProfileLifecycle(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	user := createTestUser(t, q, "profile@example.com")

	now := time.Now()
	if err := q.CreateProfile(ctx, CreateProfileParams{UserID: user.ID, UpdatedAt: now}); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	// Second profile for the same user must be rejected
	if err := q.CreateProfile(ctx, CreateProfileParams{UserID: user.ID, UpdatedAt: now}); err == nil {
		t.Fatal("expected unique constraint error for second profile")
	}

	profile, err := q.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetProfileByUserID: %v", err)
	}
	if profile.UserID != user.ID {
		t.Errorf("UserID = %d, want %d", profile.UserID, user.ID)
	}
	if profile.HasResume() {
		t.Error("fresh profile should not have a resume")
	}

	err = q.UpsertProfile(ctx, UpsertProfileParams{
		Phone:       "+39 333 1234567",
		BirthDate:   sql.NullTime{Time: time.Date(2000, 5, 1, 0, 0, 0, 0, time.UTC), Valid: true},
		City:        "Milano",
		Address:     "Via Roma 1",
		Nationality: "Italian",
		LinkedinURL: "https://linkedin.com/in/test",
		Hobby:       "chess",
		Skills:      "Go, SQL",
		Languages:   "Italian, English",
		UpdatedAt:   time.Now(),
		UserID:      user.ID,
	})
	if err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	profile, err = q.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetProfileByUserID after update: %v", err)
	}
	if profile.City != "Milano" {
		t.Errorf("City = %q, want Milano", profile.City)
	}
	if !profile.BirthDate.Valid {
		t.Error("BirthDate should be set")
	}
}

func TestUpsertProfile_CreatesMissingRow(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	user := createTestUser(t, q, "noprofile@example.com")

	// No CreateProfile call: the upsert must take the insert path
	err := q.UpsertProfile(ctx, UpsertProfileParams{
		City:      "Torino",
		UpdatedAt: time.Now(),
		UserID:    user.ID,
	})
	if err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	profile, err := q.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetProfileByUserID: %v", err)
	}
	if profile.City != "Torino" {
		t.Errorf("City = %q, want Torino", profile.City)
	}
}

func TestUpdateResumeRef(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	user := createTestUser(t, q, "resume@example.com")
	if err := q.CreateProfile(ctx, CreateProfileParams{UserID: user.ID, UpdatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	err := q.UpdateResumeRef(ctx, UpdateResumeRefParams{
		ResumePath:       sql.NullString{String: "cv/abc.pdf", Valid: true},
		ResumeUploadedAt: sql.NullTime{Time: time.Now(), Valid: true},
		UserID:           user.ID,
	})
	if err != nil {
		t.Fatalf("UpdateResumeRef: %v", err)
	}

	profile, err := q.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetProfileByUserID: %v", err)
	}
	if !profile.HasResume() {
		t.Error("profile should have a resume")
	}

	paths, err := q.ListResumePaths(ctx)
	if err != nil {
		t.Fatalf("ListResumePaths: %v", err)
	}
	if len(paths) != 1 || paths[0] != "cv/abc.pdf" {
		t.Errorf("paths = %v, want [cv/abc.pdf]", paths)
	}
}

func TestExperienceOrdering(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	user := createTestUser(t, q, "exp@example.com")

	now := time.Now()
	dates := []time.Time{
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		_, err := q.CreateExperience(ctx, CreateExperienceParams{
			UserID:       user.ID,
			Type:         model.ExperienceWork,
			Title:        "Role " + string(rune('A'+i)),
			Organization: "Acme",
			StartDate:    d,
			IsOngoing:    false,
			CreatedAt:    now,
		})
		if err != nil {
			t.Fatalf("CreateExperience: %v", err)
		}
	}

	list, err := q.ListExperiencesByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListExperiencesByUser: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len(list) = %d, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].StartDate.After(list[i-1].StartDate) {
			t.Errorf("entries not ordered by start date descending: %v before %v",
				list[i-1].StartDate, list[i].StartDate)
		}
	}
}

func TestDeleteExperience_OwnerScoped(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	owner := createTestUser(t, q, "owner@example.com")
	other := createTestUser(t, q, "other@example.com")

	exp, err := q.CreateExperience(ctx, CreateExperienceParams{
		UserID:       owner.ID,
		Type:         model.ExperienceEducation,
		Title:        "BSc Computer Science",
		Organization: "University",
		StartDate:    time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}

	// A different user cannot delete it
	n, err := q.DeleteExperience(ctx, DeleteExperienceParams{ID: exp.ID, UserID: other.ID})
	if err != nil {
		t.Fatalf("DeleteExperience: %v", err)
	}
	if n != 0 {
		t.Errorf("rows = %d, want 0 for foreign delete", n)
	}

	// The owner can
	n, err = q.DeleteExperience(ctx, DeleteExperienceParams{ID: exp.ID, UserID: owner.ID})
	if err != nil {
		t.Fatalf("DeleteExperience: %v", err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1 for owner delete", n)
	}
}

func TestDashboardStatsAndSummaries(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	user := createTestUser(t, q, "stats@example.com")
	if err := q.CreateProfile(ctx, CreateProfileParams{UserID: user.ID, UpdatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if err := q.UpdateResumeRef(ctx, UpdateResumeRefParams{
		ResumePath:       sql.NullString{String: "cv/x.pdf", Valid: true},
		ResumeUploadedAt: sql.NullTime{Time: time.Now(), Valid: true},
		UserID:           user.ID,
	}); err != nil {
		t.Fatalf("UpdateResumeRef: %v", err)
	}
	if _, err := q.CreateExperience(ctx, CreateExperienceParams{
		UserID: user.ID, Type: model.ExperienceWork, Title: "Dev",
		Organization: "Acme", StartDate: time.Now(), CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}

	stats, err := q.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}
	if stats.TotalStudents != 1 {
		t.Errorf("TotalStudents = %d, want 1", stats.TotalStudents)
	}
	if stats.ResumesUploaded != 1 {
		t.Errorf("ResumesUploaded = %d, want 1", stats.ResumesUploaded)
	}
	if stats.WorkEntries != 1 {
		t.Errorf("WorkEntries = %d, want 1", stats.WorkEntries)
	}

	summaries, err := q.ListStudentSummaries(ctx)
	if err != nil {
		t.Fatalf("ListStudentSummaries: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("len(summaries) = %d, want 1", len(summaries))
	}
	if !summaries[0].HasResume {
		t.Error("summary should flag the uploaded resume")
	}
	if summaries[0].WorkCount != 1 {
		t.Errorf("WorkCount = %d, want 1", summaries[0].WorkCount)
	}
}

func TestCreateEvent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	err := q.CreateEvent(ctx, CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategoryAuth,
		Message:   "user logged in",
		Metadata:  "{}",
		IPAddress: "127.0.0.1",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	events, err := q.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Message != "user logged in" {
		t.Errorf("Message = %q", events[0].Message)
	}
}

func TestSeed(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	if err := Seed(ctx, db, "admin@cvdesk.local", "seed-password-1"); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	admin, err := q.GetUserByEmail(ctx, "admin@cvdesk.local")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if admin.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want admin", admin.Role)
	}

	// Second seed should skip without error
	if err := Seed(ctx, db, "admin@cvdesk.local", "seed-password-1"); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	count, err := q.CountUsersByEmail(ctx, "admin@cvdesk.local")
	if err != nil {
		t.Fatalf("CountUsersByEmail: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 (seed should skip if exists)", count)
	}
}

func TestSeed_DisabledWithoutPassword(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := Seed(ctx, db, "admin@cvdesk.local", ""); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	_, err := New(db).GetUserByEmail(ctx, "admin@cvdesk.local")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected no admin user, got %v", err)
	}
}
