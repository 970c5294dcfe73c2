package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/derrickhua/achieve-arcade-sub000/internal/config"
	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"gorm.io/gorm"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

// BillingService owns the Stripe integration: checkout session creation and
// webhook-driven subscription lifecycle. The Stripe client is constructed at
// startup and injected, never a package-level singleton.
type BillingService struct {
	db     *gorm.DB
	cfg    *config.Config
	stripe *client.API
}

func NewBillingService(db *gorm.DB, cfg *config.Config) *BillingService {
	sc := &client.API{}
	sc.Init(cfg.StripeSecretKey, nil)
	return &BillingService{db: db, cfg: cfg, stripe: sc}
}

func (s *BillingService) CreateCheckoutSession(userID uuid.UUID, req *dto.CheckoutSessionRequest) (*dto.CheckoutSessionResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.cfg.StripeProPriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(s.cfg.CheckoutSuccessURL),
		CancelURL:         stripe.String(s.cfg.CheckoutCancelURL),
		CustomerEmail:     stripe.String(user.Email),
		ClientReferenceID: stripe.String(user.ID.String()),
	}
	if req.SubscriptionType != "" {
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"subscription_type": req.SubscriptionType},
		}
	}

	sess, err := s.stripe.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &dto.CheckoutSessionResponse{SessionID: sess.ID, URL: sess.URL}, nil
}

// HandleWebhookEvent applies a verified Stripe event to the subscriptions
// table and the user's plan flag. Unknown event types are ignored.
func (s *BillingService) HandleWebhookEvent(event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("failed to parse checkout session: %w", err)
		}
		return s.handleCheckoutCompleted(&sess)
	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to parse subscription: %w", err)
		}
		return s.handleSubscriptionUpdated(&sub)
	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to parse subscription: %w", err)
		}
		return s.handleSubscriptionDeleted(&sub)
	default:
		return nil
	}
}

func (s *BillingService) handleCheckoutCompleted(sess *stripe.CheckoutSession) error {
	userID, err := uuid.Parse(sess.ClientReferenceID)
	if err != nil {
		return fmt.Errorf("invalid client reference id: %w", err)
	}

	customerID := ""
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}
	stripeSubID := ""
	if sess.Subscription != nil {
		stripeSubID = sess.Subscription.ID
	}

	subscriptionType := "monthly"
	if sess.Metadata != nil && sess.Metadata["subscription_type"] != "" {
		subscriptionType = sess.Metadata["subscription_type"]
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		sub := models.Subscription{
			ID:                 uuid.New(),
			UserID:             userID,
			StripeCustomerID:   customerID,
			StripeSubID:        stripeSubID,
			PriceID:            s.cfg.StripeProPriceID,
			Status:             "active",
			CurrentPeriodStart: time.Now(),
		}
		if err := tx.Create(&sub).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"subscription":      "pro",
			"subscription_type": subscriptionType,
		}).Error
	})
}

func (s *BillingService) handleSubscriptionUpdated(stripeSub *stripe.Subscription) error {
	var sub models.Subscription
	if err := s.db.Where("stripe_sub_id = ?", stripeSub.ID).First(&sub).Error; err != nil {
		return fmt.Errorf("subscription not found for update: %w", ErrSubscriptionNotFound)
	}

	return s.db.Model(&sub).Updates(map[string]interface{}{
		"status":               string(stripeSub.Status),
		"current_period_start": time.Unix(stripeSub.CurrentPeriodStart, 0),
		"current_period_end":   time.Unix(stripeSub.CurrentPeriodEnd, 0),
	}).Error
}

func (s *BillingService) handleSubscriptionDeleted(stripeSub *stripe.Subscription) error {
	var sub models.Subscription
	if err := s.db.Where("stripe_sub_id = ?", stripeSub.ID).First(&sub).Error; err != nil {
		return fmt.Errorf("subscription not found for deletion: %w", ErrSubscriptionNotFound)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&sub).Update("status", "cancelled").Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", sub.UserID).Updates(map[string]interface{}{
			"subscription":      "free",
			"subscription_type": "",
		}).Error
	})
}
