// File: services/intelligence/geminiClient.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cineride/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	model *genai.GenerativeModel
}

func NewGeminiClient(apiKey string) *GeminiClient {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		panic(fmt.Sprintf("failed to create Gemini client: %v", err))
	}

	model := client.GenerativeModel("models/gemini-2.5-flash")
	return &GeminiClient{model: model}
}

// Complete sends the whole rolling history and returns the model's reply.
// The last history entry must be the pending user turn.
func (g *GeminiClient) Complete(ctx context.Context, history []models.Turn) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("empty conversation history")
	}

	cs := g.model.StartChat()
	for _, t := range history[:len(history)-1] {
		role := "user"
		if t.Role == "model" {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(t.Text)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(history[len(history)-1].Text))
	if err != nil {
		if isOverloaded(err) {
			return "", ErrOverloaded
		}
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}

// isOverloaded reports whether the API rejected the call for capacity
// reasons (resource exhausted or service unavailable).
func isOverloaded(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code == http.StatusServiceUnavailable
	}
	return false
}
