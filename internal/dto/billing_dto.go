package dto

type CheckoutSessionRequest struct {
	SubscriptionType string `json:"subscription_type"` // monthly, yearly
}

type CheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}
