package services

import (
	"errors"
	"fmt"

	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInsufficientFunds = errors.New("insufficient coins")
)

// CreditCoins atomically adds coins to a user's balance. It accepts any
// *gorm.DB handle so award cascades can run it inside their own transaction.
func CreditCoins(db *gorm.DB, userID uuid.UUID, amount int) error {
	if amount == 0 {
		return nil
	}
	result := db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("coins", gorm.Expr("coins + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to credit coins: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DebitCoins atomically subtracts coins, failing with ErrInsufficientFunds if
// the balance cannot cover the amount. The guard lives in the WHERE clause so
// the check and the subtraction are a single statement.
func DebitCoins(db *gorm.DB, userID uuid.UUID, amount int) error {
	if amount == 0 {
		return nil
	}
	result := db.Model(&models.User{}).
		Where("id = ? AND coins >= ?", userID, amount).
		UpdateColumn("coins", gorm.Expr("coins - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to debit coins: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return ErrUserNotFound
		}
		return ErrInsufficientFunds
	}
	return nil
}

// CoinBalance returns the user's current balance.
func CoinBalance(db *gorm.DB, userID uuid.UUID) (int, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to fetch balance: %w", err)
	}
	return user.Coins, nil
}
