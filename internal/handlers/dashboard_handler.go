package handlers

import (
	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/scope"
	"github.com/derrickhua/achieve-arcade-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) GetMetrics(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	metrics, err := h.dashboardService.GetMetrics(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch dashboard metrics",
		})
	}

	return c.JSON(metrics)
}
