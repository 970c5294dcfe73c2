package handlers

import (
	"errors"
	"time"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/scope"
	"github.com/derrickhua/achieve-arcade-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type HabitHandler struct {
	habitService *services.HabitService
}

func NewHabitHandler(habitService *services.HabitService) *HabitHandler {
	return &HabitHandler{habitService: habitService}
}

func (h *HabitHandler) List(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	habits, err := h.habitService.GetHabits(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch habits",
		})
	}

	return c.JSON(habits)
}

func (h *HabitHandler) Create(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	habit, err := h.habitService.CreateHabit(userID, &req)
	if err != nil {
		return habitError(c, err, "Failed to create habit")
	}

	return c.Status(fiber.StatusCreated).JSON(habit)
}

func (h *HabitHandler) Get(c *fiber.Ctx) error {
	userID, habitID, ok := habitParams(c)
	if !ok {
		return nil
	}

	habit, err := h.habitService.GetHabit(userID, habitID)
	if err != nil {
		return habitError(c, err, "Failed to fetch habit")
	}

	return c.JSON(habit)
}

func (h *HabitHandler) Update(c *fiber.Ctx) error {
	userID, habitID, ok := habitParams(c)
	if !ok {
		return nil
	}

	var req dto.UpdateHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	habit, err := h.habitService.UpdateHabit(userID, habitID, &req)
	if err != nil {
		return habitError(c, err, "Failed to update habit")
	}

	return c.JSON(habit)
}

func (h *HabitHandler) Delete(c *fiber.Ctx) error {
	userID, habitID, ok := habitParams(c)
	if !ok {
		return nil
	}

	if err := h.habitService.DeleteHabit(userID, habitID); err != nil {
		return habitError(c, err, "Failed to delete habit")
	}

	return c.JSON(dto.MessageResponse{Message: "Habit deleted successfully"})
}

func (h *HabitHandler) ChangeCompletion(c *fiber.Ctx) error {
	userID, habitID, ok := habitParams(c)
	if !ok {
		return nil
	}

	var req dto.ChangeCompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	occurrence, err := h.habitService.ChangeCompletion(userID, habitID, &req)
	if err != nil {
		return habitError(c, err, "Failed to update completions")
	}

	streak, err := h.habitService.CalculateStreak(userID, habitID)
	if err != nil {
		return habitError(c, err, "Failed to recalculate streak")
	}

	return c.JSON(fiber.Map{"occurrence": occurrence, "streak": streak})
}

func (h *HabitHandler) GetStreak(c *fiber.Ctx) error {
	userID, habitID, ok := habitParams(c)
	if !ok {
		return nil
	}

	streak, err := h.habitService.CalculateStreak(userID, habitID)
	if err != nil {
		return habitError(c, err, "Failed to calculate streak")
	}

	return c.JSON(dto.StreakResponse{Streak: streak})
}

func (h *HabitHandler) UpdateConsistencyGoal(c *fiber.Ctx) error {
	userID, habitID, ok := habitParams(c)
	if !ok {
		return nil
	}

	var req dto.UpdateConsistencyGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	goal, err := h.habitService.UpdateGoal(userID, habitID, &req)
	if err != nil {
		return habitError(c, err, "Failed to update consistency goal")
	}

	return c.JSON(goal)
}

func (h *HabitHandler) GetWeeklyOccurrences(c *fiber.Ctx) error {
	userID, habitID, ok := habitParams(c)
	if !ok {
		return nil
	}

	week, err := h.habitService.GetWeeklyOccurrences(userID, habitID, time.Now())
	if err != nil {
		return habitError(c, err, "Failed to fetch weekly occurrences")
	}

	return c.JSON(week)
}

func (h *HabitHandler) GetHeatmap(c *fiber.Ctx) error {
	userID, habitID, ok := habitParams(c)
	if !ok {
		return nil
	}

	heatmap, err := h.habitService.GetHeatmapData(userID, habitID)
	if err != nil {
		return habitError(c, err, "Failed to fetch heatmap data")
	}

	return c.JSON(heatmap)
}

func (h *HabitHandler) GetPerformanceRate(c *fiber.Ctx) error {
	userID, habitID, ok := habitParams(c)
	if !ok {
		return nil
	}

	rate, err := h.habitService.CalculatePerformanceRate(userID, habitID)
	if err != nil {
		return habitError(c, err, "Failed to calculate performance rate")
	}

	return c.JSON(rate)
}

// habitParams extracts the caller and the :id route param. On failure the
// error response has already been written and ok is false.
func habitParams(c *fiber.Ctx) (userID, habitID uuid.UUID, ok bool) {
	userID, err := scope.GetUserID(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
		return uuid.Nil, uuid.Nil, false
	}

	habitID, err = uuid.Parse(c.Params("id"))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid habit ID",
		})
		return uuid.Nil, uuid.Nil, false
	}

	return userID, habitID, true
}

func habitError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrHabitNotFound), errors.Is(err, services.ErrNoConsistencyGoal):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidPeriod),
		errors.Is(err, services.ErrInvalidGoal),
		errors.Is(err, services.ErrGoalDateInPast),
		errors.Is(err, services.ErrGoalDateNotAfter):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: fallback,
		})
	}
}
