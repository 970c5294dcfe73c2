package testutil_test

import (
	"testing"

	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/testutil"
	"github.com/google/uuid"
)

// The schema must migrate cleanly on the SQLite test dialect; Postgres-only
// column defaults in the model tags would abort every suite at setup.
func TestNewTestDatabase_MigratesSchema(t *testing.T) {
	db := testutil.NewTestDatabase(t)

	for _, table := range []string{
		"users", "refresh_tokens", "subscriptions", "tasks", "time_blocks",
		"daily_schedules", "habits", "habit_occurrences", "consistency_goals",
		"goals", "milestones", "goal_histories", "rewards", "owned_rewards",
		"suggestions", "system_logs",
	} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("expected table %q after migration", table)
		}
	}
}

func TestNewTestDatabase_AcceptsClientAssignedIDs(t *testing.T) {
	db := testutil.NewTestDatabase(t)

	user := models.User{
		ID:       uuid.New(),
		Email:    "ids-" + uuid.NewString() + "@example.com",
		Password: "not-a-real-hash",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("creating user: %v", err)
	}

	var stored models.User
	if err := db.First(&stored, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("fetching user: %v", err)
	}
	if stored.ID != user.ID {
		t.Errorf("expected stored ID %s, got %s", user.ID, stored.ID)
	}
}
