package handlers

import (
	"errors"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/scope"
	"github.com/derrickhua/achieve-arcade-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RewardHandler struct {
	rewardService *services.RewardService
}

func NewRewardHandler(rewardService *services.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// ListCatalog returns the full reward catalog. Visible to every user so
// the shop can render what each chest might contain.
func (h *RewardHandler) ListCatalog(c *fiber.Ctx) error {
	rewards, err := h.rewardService.GetRewards()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch rewards",
		})
	}

	return c.JSON(rewards)
}

func (h *RewardHandler) CreateReward(c *fiber.Ctx) error {
	var req dto.CreateRewardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	reward, err := h.rewardService.CreateReward(&req)
	if err != nil {
		return rewardError(c, err, "Failed to create reward")
	}

	return c.Status(fiber.StatusCreated).JSON(reward)
}

func (h *RewardHandler) UpdateReward(c *fiber.Ctx) error {
	rewardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid reward ID",
		})
	}

	var req dto.UpdateRewardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	reward, err := h.rewardService.UpdateReward(rewardID, &req)
	if err != nil {
		return rewardError(c, err, "Failed to update reward")
	}

	return c.JSON(reward)
}

func (h *RewardHandler) DeleteReward(c *fiber.Ctx) error {
	rewardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid reward ID",
		})
	}

	if err := h.rewardService.DeleteReward(rewardID); err != nil {
		return rewardError(c, err, "Failed to delete reward")
	}

	return c.JSON(dto.MessageResponse{Message: "Reward deleted successfully"})
}

func (h *RewardHandler) ListOwned(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	owned, err := h.rewardService.GetOwnedRewards(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch owned rewards",
		})
	}

	return c.JSON(owned)
}

func (h *RewardHandler) PurchaseChest(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.PurchaseChestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.rewardService.PurchaseChest(userID, req.ChestType)
	if err != nil {
		return rewardError(c, err, "Failed to purchase chest")
	}

	return c.JSON(resp)
}

func rewardError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrRewardNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidChest):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInsufficientFunds):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrEmptyChestPool):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: fallback,
		})
	}
}
