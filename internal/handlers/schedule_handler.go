package handlers

import (
	"errors"
	"time"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/scope"
	"github.com/derrickhua/achieve-arcade-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

func (h *ScheduleHandler) GetToday(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	schedule, err := h.scheduleService.GetOrCreateToday(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch daily schedule",
		})
	}

	return c.JSON(schedule)
}

func (h *ScheduleHandler) UpdateNotes(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.UpdateNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	schedule, err := h.scheduleService.UpdateNotes(userID, req.Notes)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update notes",
		})
	}

	return c.JSON(schedule)
}

func (h *ScheduleHandler) AddTimeBlock(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateTimeBlockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	block, err := h.scheduleService.AddTimeBlock(userID, &req)
	if err != nil {
		return scheduleError(c, err, "Failed to create time block")
	}

	return c.Status(fiber.StatusCreated).JSON(block)
}

func (h *ScheduleHandler) UpdateTimeBlock(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	blockID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid time block ID",
		})
	}

	var req dto.UpdateTimeBlockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	block, err := h.scheduleService.UpdateTimeBlock(userID, blockID, &req)
	if err != nil {
		return scheduleError(c, err, "Failed to update time block")
	}

	return c.JSON(block)
}

func (h *ScheduleHandler) DeleteTimeBlock(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	blockID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid time block ID",
		})
	}

	if err := h.scheduleService.DeleteTimeBlock(userID, blockID); err != nil {
		return scheduleError(c, err, "Failed to delete time block")
	}

	return c.JSON(dto.MessageResponse{Message: "Time block deleted successfully"})
}

func (h *ScheduleHandler) CompleteTimeBlock(c *fiber.Ctx) error {
	return h.toggleTimeBlock(c, true)
}

func (h *ScheduleHandler) IncompleteTimeBlock(c *fiber.Ctx) error {
	return h.toggleTimeBlock(c, false)
}

func (h *ScheduleHandler) toggleTimeBlock(c *fiber.Ctx, completed bool) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	blockID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid time block ID",
		})
	}

	var block *models.TimeBlock
	if completed {
		block, err = h.scheduleService.CompleteTimeBlock(userID, blockID)
	} else {
		block, err = h.scheduleService.IncompleteTimeBlock(userID, blockID)
	}
	if err != nil {
		return scheduleError(c, err, "Failed to update time block")
	}

	return c.JSON(block)
}

func (h *ScheduleHandler) GetWeeklyMetrics(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	metrics, err := h.scheduleService.GetWeeklyMetrics(userID, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch weekly metrics",
		})
	}

	return c.JSON(metrics)
}

func scheduleError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrTimeBlockNotFound), errors.Is(err, services.ErrScheduleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCategory), errors.Is(err, services.ErrInvalidInterval):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrBlockHasTasks):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInsufficientFunds):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: fallback,
		})
	}
}
