package askai

import (
	"context"
	"fmt"
	"time"
)

// Agent wraps a Provider with a per-call timeout and exposes capability
// helpers so callers need not type-assert themselves.
type Agent struct {
	provider Provider
	timeout  time.Duration
}

// AgentArgs contains configuration for creating an Agent.
type AgentArgs struct {
	// Provider is the AI provider to use
	Provider Provider

	// TimeoutSeconds is the maximum time to wait for responses (0 = no timeout)
	TimeoutSeconds int
}

// NewAgent creates a new Agent with the given provider.
func NewAgent(args AgentArgs) *Agent {
	timeout := time.Duration(0)
	if args.TimeoutSeconds > 0 {
		timeout = time.Duration(args.TimeoutSeconds) * time.Second
	}

	return &Agent{
		provider: args.Provider,
		timeout:  timeout,
	}
}

// Provider returns the wrapped provider.
func (a *Agent) Provider() Provider {
	return a.provider
}

// SupportsAgentic reports whether the wrapped provider can run tool loops.
func (a *Agent) SupportsAgentic() bool {
	_, ok := a.provider.(AgenticProvider)
	return ok
}

// SupportsStreaming reports whether the wrapped provider can stream deltas.
func (a *Agent) SupportsStreaming() bool {
	_, ok := a.provider.(StreamingProvider)
	return ok
}

func (a *Agent) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout > 0 {
		return context.WithTimeout(ctx, a.timeout)
	}
	return ctx, func() {}
}

// Complete requests completions from the provider.
func (a *Agent) Complete(ctx context.Context, req CompletionRequest) (choices []string, err error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	choices, err = a.provider.GenerateCompletion(ctx, req)
	if err != nil {
		err = fmt.Errorf("completion: %w", err)
		goto end
	}

end:
	return choices, err
}

// Stream requests a streamed completion, falling back to a plain completion
// when the provider cannot stream.
func (a *Agent) Stream(ctx context.Context, req StreamRequest) (text string, err error) {
	var choices []string

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if sp, ok := a.provider.(StreamingProvider); ok {
		text, err = sp.StreamCompletion(ctx, req)
		goto end
	}

	choices, err = a.provider.GenerateCompletion(ctx, CompletionRequest{
		Messages:    req.Messages,
		Model:       req.Model,
		Temperature: req.Temperature,
	})
	if err != nil {
		goto end
	}
	text = choices[0]
	if req.OnDelta != nil {
		req.OnDelta(text)
	}

end:
	return text, err
}

// RunAgentic runs a tool loop on the wrapped provider. Providers without tool
// support report ErrAgenticUnsupported so callers can choose a fallback.
func (a *Agent) RunAgentic(ctx context.Context, req AgenticRequest) (result *AgenticResult, err error) {
	var ap AgenticProvider
	var ok bool
	var cancel context.CancelFunc

	ap, ok = a.provider.(AgenticProvider)
	if !ok {
		err = fmt.Errorf("%w: provider %s", ErrAgenticUnsupported, a.provider.Name())
		goto end
	}

	ctx, cancel = a.withTimeout(ctx)
	defer cancel()

	result, err = ap.RunAgentic(ctx, req)

end:
	return result, err
}
