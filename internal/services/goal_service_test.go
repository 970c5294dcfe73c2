package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/services"
	"github.com/derrickhua/achieve-arcade-sub000/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubSuggester struct {
	suggestions []services.MilestoneSuggestion
	err         error
}

func (s stubSuggester) Suggest(*models.Goal) ([]services.MilestoneSuggestion, error) {
	return s.suggestions, s.err
}

func newGoalService(db *gorm.DB) *services.GoalService {
	return services.NewGoalService(db, stubSuggester{})
}

func createHardGoal(t *testing.T, svc *services.GoalService, userID uuid.UUID) *models.Goal {
	t.Helper()
	goal, err := svc.CreateGoal(userID, &dto.CreateGoalRequest{
		Title:      "Run a marathon",
		Difficulty: models.DifficultyHard,
		Deadline:   time.Now().AddDate(0, 6, 0),
		Category:   "health",
	})
	if err != nil {
		t.Fatalf("creating goal: %v", err)
	}
	return goal
}

func TestCreateGoal_WritesHistory(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := newGoalService(db)
	user := createTestUser(t, db, 0)
	goal := createHardGoal(t, svc, user.ID)

	history, err := svc.GetHistory(user.ID, goal.ID)
	if err != nil {
		t.Fatalf("fetching history: %v", err)
	}
	if len(history) != 1 || history[0].Action != "created" {
		t.Errorf("expected a single 'created' entry, got %+v", history)
	}
}

func TestAddMilestone_DeadlineBoundedByGoal(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := newGoalService(db)
	user := createTestUser(t, db, 0)
	goal := createHardGoal(t, svc, user.ID)

	_, err := svc.AddMilestone(user.ID, goal.ID, &dto.CreateMilestoneRequest{
		Title: "Too late", Deadline: goal.Deadline.AddDate(0, 1, 0),
	})
	if !errors.Is(err, services.ErrMilestoneDeadline) {
		t.Errorf("expected ErrMilestoneDeadline, got %v", err)
	}
}

func TestAddMilestone_AppendsInOrder(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := newGoalService(db)
	user := createTestUser(t, db, 0)
	goal := createHardGoal(t, svc, user.ID)

	for _, title := range []string{"Couch to 5k", "Half marathon"} {
		if _, err := svc.AddMilestone(user.ID, goal.ID, &dto.CreateMilestoneRequest{
			Title: title, Deadline: goal.Deadline,
		}); err != nil {
			t.Fatalf("adding %q: %v", title, err)
		}
	}

	saved, err := svc.GetGoal(user.ID, goal.ID)
	if err != nil {
		t.Fatalf("fetching goal: %v", err)
	}
	if len(saved.Milestones) != 2 {
		t.Fatalf("expected 2 milestones, got %d", len(saved.Milestones))
	}
	if saved.Milestones[0].Title != "Couch to 5k" || saved.Milestones[0].Position != 0 {
		t.Errorf("unexpected first milestone: %+v", saved.Milestones[0])
	}
	if saved.Milestones[1].Position != 1 {
		t.Errorf("expected position 1, got %d", saved.Milestones[1].Position)
	}
}

func TestCompleteMilestone_PaysAndFinishesGoal(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := newGoalService(db)
	user := createTestUser(t, db, 0)
	goal := createHardGoal(t, svc, user.ID)

	first, err := svc.AddMilestone(user.ID, goal.ID, &dto.CreateMilestoneRequest{
		Title: "First", Deadline: goal.Deadline,
	})
	if err != nil {
		t.Fatalf("adding milestone: %v", err)
	}
	last, err := svc.AddMilestone(user.ID, goal.ID, &dto.CreateMilestoneRequest{
		Title: "Last", Deadline: goal.Deadline,
	})
	if err != nil {
		t.Fatalf("adding milestone: %v", err)
	}

	// Non-final Hard milestone pays 15.
	resp, err := svc.CompleteMilestone(user.ID, goal.ID, first.ID)
	if err != nil {
		t.Fatalf("completing first milestone: %v", err)
	}
	if resp.CoinsAwarded != 15 || resp.GoalCompleted {
		t.Errorf("expected 15 coins and open goal, got %+v", resp)
	}

	// The final one pays the bigger tier and completes the goal, verified
	// server-side from the milestone rows.
	resp, err = svc.CompleteMilestone(user.ID, goal.ID, last.ID)
	if err != nil {
		t.Fatalf("completing last milestone: %v", err)
	}
	if resp.CoinsAwarded != 30 || !resp.GoalCompleted {
		t.Errorf("expected 30 coins and completed goal, got %+v", resp)
	}
	if got := coinBalance(t, db, user.ID); got != 45 {
		t.Errorf("expected 45 coins total, got %d", got)
	}

	saved, err := svc.GetGoal(user.ID, goal.ID)
	if err != nil {
		t.Fatalf("fetching goal: %v", err)
	}
	if !saved.Completed {
		t.Error("expected goal to be completed")
	}

	history, err := svc.GetHistory(user.ID, goal.ID)
	if err != nil {
		t.Fatalf("fetching history: %v", err)
	}
	var completedEntries int
	for _, entry := range history {
		if entry.Action == "completed" {
			completedEntries++
		}
	}
	if completedEntries != 1 {
		t.Errorf("expected one 'completed' entry, got %d", completedEntries)
	}
}

func TestCompleteMilestone_Idempotent(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := newGoalService(db)
	user := createTestUser(t, db, 0)
	goal := createHardGoal(t, svc, user.ID)

	milestone, err := svc.AddMilestone(user.ID, goal.ID, &dto.CreateMilestoneRequest{
		Title: "Only", Deadline: goal.Deadline,
	})
	if err != nil {
		t.Fatalf("adding milestone: %v", err)
	}

	if _, err := svc.CompleteMilestone(user.ID, goal.ID, milestone.ID); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	resp, err := svc.CompleteMilestone(user.ID, goal.ID, milestone.ID)
	if err != nil {
		t.Fatalf("second completion: %v", err)
	}
	if resp.CoinsAwarded != 0 {
		t.Errorf("repeat completion must pay nothing, got %d", resp.CoinsAwarded)
	}
	if got := coinBalance(t, db, user.ID); got != 30 {
		t.Errorf("expected the single final payout of 30, got %d", got)
	}
}

func TestGenerateMilestones_AppendsClampedSuggestions(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	user := createTestUser(t, db, 0)

	deadline := time.Now().AddDate(0, 3, 0)
	svc := services.NewGoalService(db, stubSuggester{suggestions: []services.MilestoneSuggestion{
		{Title: "Plan", Description: "Write the plan", Deadline: deadline.AddDate(0, -1, 0)},
		{Title: "Overshoot", Description: "Past the goal", Deadline: deadline.AddDate(0, 2, 0)},
	}})

	goal, err := svc.CreateGoal(user.ID, &dto.CreateGoalRequest{
		Title: "Ship the app", Difficulty: models.DifficultyMedium, Deadline: deadline,
	})
	if err != nil {
		t.Fatalf("creating goal: %v", err)
	}

	svc.GenerateMilestones(user.ID, goal.ID)

	saved, err := svc.GetGoal(user.ID, goal.ID)
	if err != nil {
		t.Fatalf("fetching goal: %v", err)
	}
	if len(saved.Milestones) != 2 {
		t.Fatalf("expected 2 generated milestones, got %d", len(saved.Milestones))
	}
	if saved.Milestones[0].Title != "Plan" {
		t.Errorf("unexpected first milestone %q", saved.Milestones[0].Title)
	}
	if saved.Milestones[1].Deadline.After(goal.Deadline) {
		t.Error("expected overshooting deadline to clamp to the goal's")
	}
}
