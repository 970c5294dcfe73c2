package handlers

import (
	"errors"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/scope"
	"github.com/derrickhua/achieve-arcade-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type GoalHandler struct {
	goalService *services.GoalService
}

func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

func (h *GoalHandler) List(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	goals, err := h.goalService.GetGoals(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch goals",
		})
	}

	return c.JSON(goals)
}

func (h *GoalHandler) Create(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	goal, err := h.goalService.CreateGoal(userID, &req)
	if err != nil {
		return goalError(c, err, "Failed to create goal")
	}

	return c.Status(fiber.StatusCreated).JSON(goal)
}

func (h *GoalHandler) Get(c *fiber.Ctx) error {
	userID, goalID, ok := goalParams(c)
	if !ok {
		return nil
	}

	goal, err := h.goalService.GetGoal(userID, goalID)
	if err != nil {
		return goalError(c, err, "Failed to fetch goal")
	}

	return c.JSON(goal)
}

func (h *GoalHandler) Update(c *fiber.Ctx) error {
	userID, goalID, ok := goalParams(c)
	if !ok {
		return nil
	}

	var req dto.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	goal, err := h.goalService.UpdateGoal(userID, goalID, &req)
	if err != nil {
		return goalError(c, err, "Failed to update goal")
	}

	return c.JSON(goal)
}

func (h *GoalHandler) UpdateCategory(c *fiber.Ctx) error {
	userID, goalID, ok := goalParams(c)
	if !ok {
		return nil
	}

	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	goal, err := h.goalService.UpdateCategory(userID, goalID, req.Category)
	if err != nil {
		return goalError(c, err, "Failed to update category")
	}

	return c.JSON(goal)
}

func (h *GoalHandler) Delete(c *fiber.Ctx) error {
	userID, goalID, ok := goalParams(c)
	if !ok {
		return nil
	}

	if err := h.goalService.DeleteGoal(userID, goalID); err != nil {
		return goalError(c, err, "Failed to delete goal")
	}

	return c.JSON(dto.MessageResponse{Message: "Goal deleted successfully"})
}

func (h *GoalHandler) GetHistory(c *fiber.Ctx) error {
	userID, goalID, ok := goalParams(c)
	if !ok {
		return nil
	}

	history, err := h.goalService.GetHistory(userID, goalID)
	if err != nil {
		return goalError(c, err, "Failed to fetch goal history")
	}

	return c.JSON(history)
}

func (h *GoalHandler) AddMilestone(c *fiber.Ctx) error {
	userID, goalID, ok := goalParams(c)
	if !ok {
		return nil
	}

	var req dto.CreateMilestoneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	milestone, err := h.goalService.AddMilestone(userID, goalID, &req)
	if err != nil {
		return goalError(c, err, "Failed to create milestone")
	}

	return c.Status(fiber.StatusCreated).JSON(milestone)
}

func (h *GoalHandler) UpdateMilestone(c *fiber.Ctx) error {
	userID, goalID, ok := goalParams(c)
	if !ok {
		return nil
	}

	milestoneID, err := uuid.Parse(c.Params("milestoneId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid milestone ID",
		})
	}

	var req dto.UpdateMilestoneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	milestone, err := h.goalService.UpdateMilestone(userID, goalID, milestoneID, &req)
	if err != nil {
		return goalError(c, err, "Failed to update milestone")
	}

	return c.JSON(milestone)
}

func (h *GoalHandler) DeleteMilestone(c *fiber.Ctx) error {
	userID, goalID, ok := goalParams(c)
	if !ok {
		return nil
	}

	milestoneID, err := uuid.Parse(c.Params("milestoneId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid milestone ID",
		})
	}

	if err := h.goalService.DeleteMilestone(userID, goalID, milestoneID); err != nil {
		return goalError(c, err, "Failed to delete milestone")
	}

	return c.JSON(dto.MessageResponse{Message: "Milestone deleted successfully"})
}

func (h *GoalHandler) CompleteMilestone(c *fiber.Ctx) error {
	userID, goalID, ok := goalParams(c)
	if !ok {
		return nil
	}

	milestoneID, err := uuid.Parse(c.Params("milestoneId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid milestone ID",
		})
	}

	resp, err := h.goalService.CompleteMilestone(userID, goalID, milestoneID)
	if err != nil {
		return goalError(c, err, "Failed to complete milestone")
	}

	return c.JSON(resp)
}

func (h *GoalHandler) GenerateMilestones(c *fiber.Ctx) error {
	userID, goalID, ok := goalParams(c)
	if !ok {
		return nil
	}

	// Verify ownership up front; generation itself runs in the background.
	if _, err := h.goalService.GetGoal(userID, goalID); err != nil {
		return goalError(c, err, "Failed to fetch goal")
	}

	go h.goalService.GenerateMilestones(userID, goalID)

	return c.Status(fiber.StatusAccepted).JSON(dto.MessageResponse{
		Message: "Milestone generation started",
	})
}

func goalParams(c *fiber.Ctx) (userID, goalID uuid.UUID, ok bool) {
	userID, err := scope.GetUserID(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
		return uuid.Nil, uuid.Nil, false
	}

	goalID, err = uuid.Parse(c.Params("id"))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid goal ID",
		})
		return uuid.Nil, uuid.Nil, false
	}

	return userID, goalID, true
}

func goalError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrGoalNotFound), errors.Is(err, services.ErrMilestoneNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidDifficulty), errors.Is(err, services.ErrMilestoneDeadline):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: fallback,
		})
	}
}
