package dto

type CreateSuggestionRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type ActionSuggestionRequest struct {
	Status string `json:"status"` // reviewed, dismissed
}
