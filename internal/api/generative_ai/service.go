package generativeAI

import (
	"context"
	"errors"
	"os"

	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned when the Gemini credential is absent from
// the process environment. The service layer turns this into a per-request
// configuration failure instead of crashing at startup.
var ErrMissingAPIKey = errors.New("GOOGLE_GEMINI_API_KEY environment variable is not set")

// ContentGenerator is the single suspend point towards the hosted model.
// One call per trip request, no retry, no streaming.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

type AIClient struct {
	client *genai.Client
	model  string
}

var _ ContentGenerator = (*AIClient)(nil)

func NewAIClient(ctx context.Context, model string) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &AIClient{
		client: client,
		model:  model,
	}, nil
}

func (ai *AIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}
