package services

import (
	"errors"
	"fmt"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/scope"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSuggestionNotFound = errors.New("suggestion not found")
	ErrInvalidStatus      = errors.New("invalid suggestion status")
)

var suggestionStatuses = []string{"open", "reviewed", "dismissed"}

type SuggestionService struct {
	db *gorm.DB
}

func NewSuggestionService(db *gorm.DB) *SuggestionService {
	return &SuggestionService{db: db}
}

func (s *SuggestionService) Create(userID uuid.UUID, req *dto.CreateSuggestionRequest) (*models.Suggestion, error) {
	if req.Subject == "" || req.Body == "" {
		return nil, errors.New("subject and body are required")
	}
	suggestion := models.Suggestion{
		ID:      uuid.New(),
		UserID:  userID,
		Subject: req.Subject,
		Body:    req.Body,
		Status:  "open",
	}
	if err := s.db.Create(&suggestion).Error; err != nil {
		return nil, fmt.Errorf("failed to create suggestion: %w", err)
	}
	return &suggestion, nil
}

func (s *SuggestionService) ListOwn(userID uuid.UUID) ([]models.Suggestion, error) {
	var suggestions []models.Suggestion
	err := s.db.Scopes(scope.ForUser(userID)).Order("created_at DESC").Find(&suggestions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suggestions: %w", err)
	}
	return suggestions, nil
}

// ListAll is the admin review queue, optionally filtered by status.
func (s *SuggestionService) ListAll(status string) ([]models.Suggestion, error) {
	query := s.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var suggestions []models.Suggestion
	if err := query.Find(&suggestions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch suggestions: %w", err)
	}
	return suggestions, nil
}

func (s *SuggestionService) Action(suggestionID uuid.UUID, status string) (*models.Suggestion, error) {
	if !validSuggestionStatus(status) {
		return nil, ErrInvalidStatus
	}
	var suggestion models.Suggestion
	if err := s.db.First(&suggestion, "id = ?", suggestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("failed to fetch suggestion: %w", err)
	}
	if err := s.db.Model(&suggestion).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update suggestion: %w", err)
	}
	suggestion.Status = status
	return &suggestion, nil
}

func validSuggestionStatus(status string) bool {
	for _, v := range suggestionStatuses {
		if v == status {
			return true
		}
	}
	return false
}
