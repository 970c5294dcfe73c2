package services_test

import (
	"errors"
	"testing"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/services"
	"github.com/derrickhua/achieve-arcade-sub000/internal/testutil"
	"github.com/google/uuid"
)

func TestUpdatePreferences(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewUserService(db)
	user := createTestUser(t, db, 0)

	work := 40.0
	atelic := 5.5
	if _, err := svc.UpdatePreferences(user.ID, &dto.UpdatePreferencesRequest{
		WorkHoursGoal: &work, AtelicHoursGoal: &atelic,
	}); err != nil {
		t.Fatalf("updating preferences: %v", err)
	}

	saved, err := svc.GetProfile(user.ID)
	if err != nil {
		t.Fatalf("fetching profile: %v", err)
	}
	if saved.WorkHoursGoal != 40 {
		t.Errorf("expected work goal 40, got %v", saved.WorkHoursGoal)
	}
	if saved.AtelicHoursGoal != 5.5 {
		t.Errorf("expected atelic goal 5.5, got %v", saved.AtelicHoursGoal)
	}
	// Untouched fields keep their values.
	if saved.LeisureHoursGoal != 0 {
		t.Errorf("expected leisure goal untouched, got %v", saved.LeisureHoursGoal)
	}
}

func TestUpdatePreferences_RejectsImpossibleWeeks(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewUserService(db)
	user := createTestUser(t, db, 0)

	tooMany := 169.0
	_, err := svc.UpdatePreferences(user.ID, &dto.UpdatePreferencesRequest{WorkHoursGoal: &tooMany})
	if !errors.Is(err, services.ErrInvalidHoursGoal) {
		t.Errorf("expected ErrInvalidHoursGoal, got %v", err)
	}

	negative := -1.0
	_, err = svc.UpdatePreferences(user.ID, &dto.UpdatePreferencesRequest{LeisureHoursGoal: &negative})
	if !errors.Is(err, services.ErrInvalidHoursGoal) {
		t.Errorf("expected ErrInvalidHoursGoal, got %v", err)
	}
}

func TestGetProfile_UnknownUser(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewUserService(db)

	_, err := svc.GetProfile(uuid.New())
	if !errors.Is(err, services.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewUserService(db)
	user := createTestUser(t, db, 0)

	name := "Derrick"
	email := "derrick-" + uuid.NewString() + "@example.com"
	if _, err := svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{
		Name: &name, Email: &email,
	}); err != nil {
		t.Fatalf("updating profile: %v", err)
	}

	var saved models.User
	if err := db.First(&saved, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("fetching user: %v", err)
	}
	if saved.Name != name {
		t.Errorf("expected name %q, got %q", name, saved.Name)
	}
	if saved.Email != email {
		t.Errorf("expected email %q, got %q", email, saved.Email)
	}
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewUserService(db)
	user := createTestUser(t, db, 0)
	other := createTestUser(t, db, 0)

	_, err := svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{Email: &other.Email})
	if !errors.Is(err, services.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	var saved models.User
	if err := db.First(&saved, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("fetching user: %v", err)
	}
	if saved.Email != user.Email {
		t.Errorf("expected email unchanged, got %q", saved.Email)
	}
}
