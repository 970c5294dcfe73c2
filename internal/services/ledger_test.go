package services_test

import (
	"errors"
	"testing"

	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/services"
	"github.com/derrickhua/achieve-arcade-sub000/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func createTestUser(t *testing.T, db *gorm.DB, coins int) models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.New(),
		Email:    "user-" + uuid.NewString() + "@example.com",
		Password: "not-a-real-hash",
		Coins:    coins,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return user
}

func coinBalance(t *testing.T, db *gorm.DB, userID uuid.UUID) int {
	t.Helper()
	balance, err := services.CoinBalance(db, userID)
	if err != nil {
		t.Fatalf("fetching balance: %v", err)
	}
	return balance
}

func TestCreditCoins(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	user := createTestUser(t, db, 5)

	if err := services.CreditCoins(db, user.ID, 3); err != nil {
		t.Fatalf("crediting coins: %v", err)
	}
	if got := coinBalance(t, db, user.ID); got != 8 {
		t.Errorf("expected balance 8, got %d", got)
	}
}

func TestCreditCoins_UnknownUser(t *testing.T) {
	db := testutil.NewTestDatabase(t)

	err := services.CreditCoins(db, uuid.New(), 3)
	if !errors.Is(err, services.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDebitCoins(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	user := createTestUser(t, db, 10)

	if err := services.DebitCoins(db, user.ID, 10); err != nil {
		t.Fatalf("debiting coins: %v", err)
	}
	if got := coinBalance(t, db, user.ID); got != 0 {
		t.Errorf("expected balance 0, got %d", got)
	}
}

func TestDebitCoins_InsufficientFunds(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	user := createTestUser(t, db, 4)

	err := services.DebitCoins(db, user.ID, 5)
	if !errors.Is(err, services.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := coinBalance(t, db, user.ID); got != 4 {
		t.Errorf("failed debit must not move the balance, got %d", got)
	}
}

func TestDebitCoins_UnknownUser(t *testing.T) {
	db := testutil.NewTestDatabase(t)

	err := services.DebitCoins(db, uuid.New(), 5)
	if !errors.Is(err, services.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
