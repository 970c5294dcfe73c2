package handlers

import (
	"errors"
	"log/slog"

	"github.com/derrickhua/achieve-arcade-sub000/internal/config"
	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/scope"
	"github.com/derrickhua/achieve-arcade-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76/webhook"
)

type BillingHandler struct {
	billingService *services.BillingService
	cfg            *config.Config
}

func NewBillingHandler(billingService *services.BillingService, cfg *config.Config) *BillingHandler {
	return &BillingHandler{billingService: billingService, cfg: cfg}
}

func (h *BillingHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	userID, err := scope.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.billingService.CreateCheckoutSession(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		slog.Error("checkout session creation failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create checkout session",
		})
	}

	return c.JSON(resp)
}

// HandleWebhook receives Stripe events. The signature check replaces JWT
// auth on this route; payloads that fail verification are rejected before
// any processing.
func (h *BillingHandler) HandleWebhook(c *fiber.Ctx) error {
	event, err := webhook.ConstructEvent(c.Body(), c.Get("Stripe-Signature"), h.cfg.StripeWebhookSecret)
	if err != nil {
		slog.Warn("stripe webhook signature verification failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid webhook signature",
		})
	}

	if err := h.billingService.HandleWebhookEvent(&event); err != nil {
		slog.Error("stripe webhook processing failed", "event_type", event.Type, "error", err)
		// Non-2xx makes Stripe retry with backoff.
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process webhook",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
