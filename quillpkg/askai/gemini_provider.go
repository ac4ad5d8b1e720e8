package askai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider and StreamingProvider via the Gemini
// API. Tool calling is not wired, so agentic runs are unavailable; callers
// that need an agent fall back to single-shot generation.
type GeminiProvider struct {
	BaseProvider

	APIKey string
}

// NewGeminiProvider creates a provider for the hosted Gemini API.
func NewGeminiProvider(base BaseProvider, apiKey string) *GeminiProvider {
	return &GeminiProvider{
		BaseProvider: base,
		APIKey:       apiKey,
	}
}

// Name implements Provider.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) newClient(ctx context.Context) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// GenerateCompletion implements Provider. The Gemini API exposes no n-choices
// parameter, so multiple candidates come from repeated calls.
func (p *GeminiProvider) GenerateCompletion(ctx context.Context, req CompletionRequest) (choices []string, err error) {
	var client *genai.Client
	var resp *genai.GenerateContentResponse
	var prompt string

	client, err = p.newClient(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrAskAI, err)
		goto end
	}

	prompt = p.truncate(FlattenMessages(req.Messages))

	for i := 0; i < max(req.N, 1); i++ {
		resp, err = client.Models.GenerateContent(ctx, req.Model, genai.Text(prompt), nil)
		if err != nil {
			err = classifyGeminiError(err)
			goto end
		}
		text := resp.Text()
		if text == "" {
			err = ErrEmptyResponse
			goto end
		}
		choices = append(choices, text)
	}

end:
	return choices, err
}

// StreamCompletion implements StreamingProvider.
func (p *GeminiProvider) StreamCompletion(ctx context.Context, req StreamRequest) (text string, err error) {
	var client *genai.Client
	var full strings.Builder
	var prompt string

	client, err = p.newClient(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrAskAI, err)
		goto end
	}

	prompt = p.truncate(FlattenMessages(req.Messages))

	for resp, iterErr := range client.Models.GenerateContentStream(ctx, req.Model, genai.Text(prompt), nil) {
		if iterErr != nil {
			err = classifyGeminiError(iterErr)
			goto end
		}
		delta := resp.Text()
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if req.OnDelta != nil {
			req.OnDelta(delta)
		}
	}

	text = full.String()
	if text == "" {
		err = ErrEmptyResponse
	}

end:
	return text, err
}

func classifyGeminiError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "API key") || strings.Contains(msg, "401") || strings.Contains(msg, "403") {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}
	return fmt.Errorf("%w: %v", ErrAskAI, err)
}
