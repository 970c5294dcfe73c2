package services

import (
	"errors"
	"fmt"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidHoursGoal = errors.New("weekly hour targets must be between 0 and 168")

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// UpdateProfile changes the display name and email. Email changes are checked
// against the unique index up front so the caller gets ErrEmailTaken rather
// than a raw constraint violation.
func (s *UserService) UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		if *req.Email == "" {
			return nil, errors.New("email cannot be empty")
		}
		var existing models.User
		if err := s.db.Where("email = ? AND id <> ?", *req.Email, userID).First(&existing).Error; err == nil {
			return nil, ErrEmailTaken
		}
		updates["email"] = *req.Email
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return user, nil
}

// UpdatePreferences sets the onboarding weekly hour targets. Only provided
// fields change.
func (s *UserService) UpdatePreferences(userID uuid.UUID, req *dto.UpdatePreferencesRequest) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	for _, p := range []struct {
		column string
		value  *float64
	}{
		{"work_hours_goal", req.WorkHoursGoal},
		{"leisure_hours_goal", req.LeisureHoursGoal},
		{"family_friends_hours_goal", req.FamilyFriendsHoursGoal},
		{"atelic_hours_goal", req.AtelicHoursGoal},
	} {
		if p.value == nil {
			continue
		}
		if *p.value < 0 || *p.value > 168 {
			return nil, ErrInvalidHoursGoal
		}
		updates[p.column] = *p.value
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update preferences: %w", err)
		}
	}
	return user, nil
}

func (s *UserService) GetCoins(userID uuid.UUID) (int, error) {
	return CoinBalance(s.db, userID)
}
