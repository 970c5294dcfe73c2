package services_test

import (
	"errors"
	"testing"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/services"
	"github.com/derrickhua/achieve-arcade-sub000/internal/testutil"
	"github.com/google/uuid"
)

func TestSuggestionLifecycle(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewSuggestionService(db)
	user := createTestUser(t, db, 0)

	created, err := svc.Create(user.ID, &dto.CreateSuggestionRequest{
		Subject: "Dark mode", Body: "Please add a dark theme to the dashboard.",
	})
	if err != nil {
		t.Fatalf("creating suggestion: %v", err)
	}
	if created.Status != "open" {
		t.Errorf("expected status open, got %q", created.Status)
	}

	own, err := svc.ListOwn(user.ID)
	if err != nil {
		t.Fatalf("listing own: %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(own))
	}

	reviewed, err := svc.Action(created.ID, "reviewed")
	if err != nil {
		t.Fatalf("reviewing: %v", err)
	}
	if reviewed.Status != "reviewed" {
		t.Errorf("expected status reviewed, got %q", reviewed.Status)
	}

	open, err := svc.ListAll("open")
	if err != nil {
		t.Fatalf("listing open: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("expected no open suggestions left, got %d", len(open))
	}
}

func TestSuggestionAction_Validation(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewSuggestionService(db)
	user := createTestUser(t, db, 0)

	created, err := svc.Create(user.ID, &dto.CreateSuggestionRequest{Subject: "A", Body: "B"})
	if err != nil {
		t.Fatalf("creating suggestion: %v", err)
	}

	if _, err := svc.Action(created.ID, "archived"); !errors.Is(err, services.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.Action(uuid.New(), "reviewed"); !errors.Is(err, services.ErrSuggestionNotFound) {
		t.Errorf("expected ErrSuggestionNotFound, got %v", err)
	}
}

func TestSuggestionListOwn_ScopedToUser(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewSuggestionService(db)
	alice := createTestUser(t, db, 0)
	bob := createTestUser(t, db, 0)

	if _, err := svc.Create(alice.ID, &dto.CreateSuggestionRequest{Subject: "Hers", Body: "x"}); err != nil {
		t.Fatalf("creating suggestion: %v", err)
	}

	theirs, err := svc.ListOwn(bob.ID)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(theirs) != 0 {
		t.Errorf("expected no suggestions for the other user, got %d", len(theirs))
	}
}
