package askai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Sentinel errors
var (
	// ErrAskAI is the base sentinel for all askai package errors
	ErrAskAI = errors.New("error in Ask AI functionality")

	// ErrProviderNotFound indicates the requested provider doesn't exist
	ErrProviderNotFound = errors.New("provider not found")

	// ErrEmptyResponse indicates the AI returned no content
	ErrEmptyResponse = errors.New("provider returned empty response")

	// ErrAuth indicates the provider rejected the configured credentials
	ErrAuth = errors.New("provider rejected credentials")

	// ErrAgenticUnsupported indicates the provider cannot run tool conversations
	ErrAgenticUnsupported = errors.New("provider does not support tool conversations")
)

// Role identifies the author of a conversation message.
type Role string

const (
	SystemRole    Role = "system"
	UserRole      Role = "user"
	AssistantRole Role = "assistant"
	ToolRole      Role = "tool"
)

// Message is one turn of a model conversation.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall // Assistant turns only
	ToolCallID string     // Tool turns only; pairs the result with its call
	ToolName   string     // Tool turns only
}

// ToolCall is one structured function invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// CompletionRequest asks for one or more plain-text completions.
type CompletionRequest struct {
	Messages    []Message
	Model       string
	Temperature float64
	N           int // Number of choices; 0 means 1
}

// StreamRequest asks for one completion delivered incrementally. OnDelta
// receives raw text chunks; callers must not treat a chunk as final text.
type StreamRequest struct {
	Messages    []Message
	Model       string
	Temperature float64
	OnDelta     func(chunk string)
}

// Provider is the interface for AI vendors that can complete a conversation.
type Provider interface {
	// Name returns the provider's configuration name, e.g. "openai".
	Name() string

	// GenerateCompletion returns req.N completion choices (at least one).
	GenerateCompletion(ctx context.Context, req CompletionRequest) (choices []string, err error)
}

// StreamingProvider is implemented by providers that can deliver completions
// incrementally. The accumulated full text is returned after the stream ends.
type StreamingProvider interface {
	Provider
	StreamCompletion(ctx context.Context, req StreamRequest) (text string, err error)
}

// AgenticProvider is implemented by providers that can run a multi-step
// tool-augmented conversation.
type AgenticProvider interface {
	Provider
	RunAgentic(ctx context.Context, req AgenticRequest) (result *AgenticResult, err error)
}

// BaseProvider contains common configuration shared by all providers
type BaseProvider struct {
	// TimeoutSeconds is the maximum time to wait for AI response
	TimeoutSeconds int

	// MaxInputBytes limits the input size sent to AI (0 = no limit)
	MaxInputBytes int
}

// DefaultBaseProvider returns reasonable defaults for provider configuration
func DefaultBaseProvider() BaseProvider {
	return BaseProvider{
		TimeoutSeconds: 120,
		MaxInputBytes:  200000,
	}
}

// truncate applies the MaxInputBytes limit to a prompt.
func (bp BaseProvider) truncate(prompt string) string {
	if bp.MaxInputBytes > 0 && len(prompt) > bp.MaxInputBytes {
		prompt = prompt[:bp.MaxInputBytes] + "\n\n... (input truncated) ..."
	}
	return prompt
}

// FlattenMessages renders a conversation as a single prompt string for
// providers that only accept one text block.
func FlattenMessages(messages []Message) string {
	var b strings.Builder

	for _, m := range messages {
		if m.Content == "" {
			continue
		}
		switch m.Role {
		case SystemRole:
			b.WriteString(m.Content)
		case UserRole:
			b.WriteString(m.Content)
		default:
			b.WriteString(string(m.Role) + ": " + m.Content)
		}
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}
