package services

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/scope"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRewardNotFound = errors.New("reward not found")
	ErrInvalidChest   = errors.New("invalid chest type")
	ErrEmptyChestPool = errors.New("no rewards available for this chest")
)

// ChestCosts is the coin price per chest type.
var ChestCosts = map[string]int{
	models.ChestWood:  10,
	models.ChestMetal: 25,
	models.ChestGold:  50,
}

// chestDropTable gives, per purchased chest type, the weight of drawing a
// reward from each tier. Better chests skew toward better tiers.
var chestDropTable = map[string][]tierWeight{
	models.ChestWood:  {{models.ChestWood, 80}, {models.ChestMetal, 17}, {models.ChestGold, 3}},
	models.ChestMetal: {{models.ChestWood, 30}, {models.ChestMetal, 55}, {models.ChestGold, 15}},
	models.ChestGold:  {{models.ChestWood, 10}, {models.ChestMetal, 35}, {models.ChestGold, 55}},
}

type tierWeight struct {
	tier   string
	weight int
}

type RewardService struct {
	db *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{db: db}
}

func (s *RewardService) CreateReward(req *dto.CreateRewardRequest) (*models.Reward, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if !validChestType(req.ChestType) {
		return nil, ErrInvalidChest
	}
	reward := models.Reward{
		ID:        uuid.New(),
		Name:      req.Name,
		Icon:      req.Icon,
		ChestType: req.ChestType,
	}
	if err := s.db.Create(&reward).Error; err != nil {
		return nil, fmt.Errorf("failed to create reward: %w", err)
	}
	return &reward, nil
}

func (s *RewardService) GetRewards() ([]models.Reward, error) {
	var rewards []models.Reward
	if err := s.db.Order("chest_type, name").Find(&rewards).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch rewards: %w", err)
	}
	return rewards, nil
}

func (s *RewardService) UpdateReward(rewardID uuid.UUID, req *dto.UpdateRewardRequest) (*models.Reward, error) {
	var reward models.Reward
	if err := s.db.First(&reward, "id = ?", rewardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, fmt.Errorf("failed to fetch reward: %w", err)
	}
	if req.Name != nil {
		reward.Name = *req.Name
	}
	if req.Icon != nil {
		reward.Icon = *req.Icon
	}
	if err := s.db.Save(&reward).Error; err != nil {
		return nil, fmt.Errorf("failed to update reward: %w", err)
	}
	return &reward, nil
}

func (s *RewardService) DeleteReward(rewardID uuid.UUID) error {
	result := s.db.Where("id = ?", rewardID).Delete(&models.Reward{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete reward: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRewardNotFound
	}
	return nil
}

func (s *RewardService) GetOwnedRewards(userID uuid.UUID) ([]models.OwnedReward, error) {
	var owned []models.OwnedReward
	err := s.db.Scopes(scope.ForUser(userID)).Preload("Reward").Order("created_at DESC").Find(&owned).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch owned rewards: %w", err)
	}
	return owned, nil
}

// PurchaseChest debits the chest cost, then draws a reward tier from the
// chest's drop table and a reward uniformly within that tier. Debit and draw
// share a transaction: a failed draw (for instance an empty catalog) rolls the
// debit back, so insufficient funds never half-charges.
func (s *RewardService) PurchaseChest(userID uuid.UUID, chestType string) (*dto.PurchaseChestResponse, error) {
	cost, ok := ChestCosts[chestType]
	if !ok {
		return nil, ErrInvalidChest
	}

	resp := &dto.PurchaseChestResponse{ChestType: chestType, CoinsSpent: cost}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := DebitCoins(tx, userID, cost); err != nil {
			return err
		}

		reward, err := s.drawReward(tx, chestType)
		if err != nil {
			return err
		}

		owned := models.OwnedReward{
			ID:        uuid.New(),
			UserID:    userID,
			RewardID:  reward.ID,
			ChestType: chestType,
		}
		if err := tx.Create(&owned).Error; err != nil {
			return fmt.Errorf("failed to record reward: %w", err)
		}

		balance, err := CoinBalance(tx, userID)
		if err != nil {
			return err
		}

		resp.RewardID = reward.ID
		resp.Name = reward.Name
		resp.Icon = reward.Icon
		resp.Balance = balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// drawReward picks a tier by weight, falling back through lower tiers when a
// tier has no catalog entries.
func (s *RewardService) drawReward(tx *gorm.DB, chestType string) (*models.Reward, error) {
	table := chestDropTable[chestType]

	total := 0
	for _, tw := range table {
		total += tw.weight
	}
	// Package-level rand is locked internally, so concurrent purchases are safe.
	roll := rand.Intn(total)

	tier := table[len(table)-1].tier
	for _, tw := range table {
		if roll < tw.weight {
			tier = tw.tier
			break
		}
		roll -= tw.weight
	}

	// Fallback order: drawn tier first, then the rest of the table.
	tiers := []string{tier}
	for _, tw := range table {
		if tw.tier != tier {
			tiers = append(tiers, tw.tier)
		}
	}

	for _, t := range tiers {
		var pool []models.Reward
		if err := tx.Where("chest_type = ?", t).Find(&pool).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch reward pool: %w", err)
		}
		if len(pool) > 0 {
			return &pool[rand.Intn(len(pool))], nil
		}
	}
	return nil, ErrEmptyChestPool
}

func validChestType(t string) bool {
	for _, v := range models.ChestTypes {
		if v == t {
			return true
		}
	}
	return false
}
