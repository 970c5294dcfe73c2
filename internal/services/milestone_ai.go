package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/derrickhua/achieve-arcade-sub000/internal/config"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
)

// MilestoneSuggester proposes milestones for a goal. The production
// implementation calls an OpenAI-compatible chat completions endpoint.
type MilestoneSuggester interface {
	Suggest(goal *models.Goal) ([]MilestoneSuggestion, error)
}

type MilestoneSuggestion struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
}

const milestoneSystemPrompt = `You are a goal-planning assistant. Given a goal's title, description, and deadline, propose 3 to 5 concrete, ordered milestones that build toward it.
Return ONLY a JSON array, each element with these exact fields:
[{"title":"...", "description":"...", "deadline":"2006-01-02T15:04:05Z"}]
Every deadline must be on or before the goal's deadline. No extra text.`

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type OpenAIMilestoneSuggester struct {
	cfg    *config.Config
	client *http.Client
}

func NewOpenAIMilestoneSuggester(cfg *config.Config) *OpenAIMilestoneSuggester {
	timeout := cfg.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIMilestoneSuggester{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *OpenAIMilestoneSuggester) Suggest(goal *models.Goal) ([]MilestoneSuggestion, error) {
	if s.cfg.OpenAIAPIKey == "" {
		return nil, errors.New("no AI provider configured")
	}

	prompt := fmt.Sprintf("Goal: %s\nDescription: %s\nDeadline: %s\nPropose the milestones.",
		goal.Title, goal.Description, goal.Deadline.Format(time.RFC3339))

	reqBody := chatRequest{
		Model: s.cfg.OpenAIModel,
		Messages: []chatMessage{
			{Role: "system", Content: milestoneSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, s.cfg.OpenAIAPIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.OpenAIAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("AI API error: status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("no response from AI")
	}

	return parseMilestoneJSON(completion.Choices[0].Message.Content)
}

// parseMilestoneJSON tolerates fenced code blocks and surrounding prose around
// the JSON array.
func parseMilestoneJSON(content string) ([]MilestoneSuggestion, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	var suggestions []MilestoneSuggestion
	if err := json.Unmarshal([]byte(content), &suggestions); err != nil {
		start := strings.Index(content, "[")
		end := strings.LastIndex(content, "]")
		if start >= 0 && end > start {
			if err2 := json.Unmarshal([]byte(content[start:end+1]), &suggestions); err2 != nil {
				return nil, fmt.Errorf("failed to parse milestone suggestions: %w", err2)
			}
		} else {
			return nil, fmt.Errorf("failed to parse milestone suggestions: %w", err)
		}
	}

	if len(suggestions) == 0 {
		return nil, errors.New("AI returned no milestones")
	}
	return suggestions, nil
}
