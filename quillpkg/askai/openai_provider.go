package askai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOpenAIBaseURL is the hosted endpoint; any OpenAI-compatible server
// (OpenRouter, Ollama, vLLM, ...) works via the base_url profile setting.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIProvider implements Provider, StreamingProvider and AgenticProvider
// against the OpenAI-compatible chat-completions API.
type OpenAIProvider struct {
	BaseProvider

	APIKey  string
	BaseURL string

	httpClient *http.Client
}

// OpenAIProviderArgs contains configuration for the OpenAI-compatible provider.
type OpenAIProviderArgs struct {
	BaseProvider BaseProvider
	APIKey       string
	BaseURL      string
}

// NewOpenAIProvider creates a provider for an OpenAI-compatible endpoint.
func NewOpenAIProvider(args OpenAIProviderArgs) *OpenAIProvider {
	baseURL := args.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	timeout := time.Duration(0)
	if args.BaseProvider.TimeoutSeconds > 0 {
		timeout = time.Duration(args.BaseProvider.TimeoutSeconds) * time.Second
	}

	return &OpenAIProvider{
		BaseProvider: args.BaseProvider,
		APIKey:       args.APIKey,
		BaseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Wire types for the chat-completions API.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Tools       []chatTool    `json:"tools,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	N           int           `json:"n,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	Name       string         `json:"name,omitempty"`
}

type chatToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function chatToolFunction `json:"function"`
}

type chatToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Parameters  Property `json:"parameters"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// GenerateCompletion implements Provider.
func (p *OpenAIProvider) GenerateCompletion(ctx context.Context, req CompletionRequest) (choices []string, err error) {
	var resp chatResponse

	body := chatRequest{
		Model:    req.Model,
		Messages: toChatMessages(req.Messages),
		N:        req.N,
	}
	if req.Temperature > 0 {
		body.Temperature = &req.Temperature
	}

	resp, err = p.post(ctx, body)
	if err != nil {
		goto end
	}
	if len(resp.Choices) == 0 {
		err = fmt.Errorf("%w: no choices", ErrEmptyResponse)
		goto end
	}

	for _, c := range resp.Choices {
		choices = append(choices, c.Message.Content)
	}

end:
	return choices, err
}

// StreamCompletion implements StreamingProvider using server-sent events.
func (p *OpenAIProvider) StreamCompletion(ctx context.Context, req StreamRequest) (text string, err error) {
	var httpResp *http.Response
	var full strings.Builder
	var scanner *bufio.Scanner

	body := chatRequest{
		Model:    req.Model,
		Messages: toChatMessages(req.Messages),
		Stream:   true,
	}
	if req.Temperature > 0 {
		body.Temperature = &req.Temperature
	}

	httpResp, err = p.do(ctx, body)
	if err != nil {
		goto end
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	scanner = bufio.NewScanner(httpResp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}

		var chunk chatStreamChunk
		if json.Unmarshal([]byte(data), &chunk) != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if req.OnDelta != nil {
			req.OnDelta(delta)
		}
	}
	err = scanner.Err()
	if err != nil {
		goto end
	}

	text = full.String()
	if text == "" {
		err = ErrEmptyResponse
	}

end:
	return text, err
}

// RunAgentic implements AgenticProvider: a sequential multi-step tool loop.
// Tool execution is one batch per conversation step; results are appended as
// tool-role messages before the next model call.
func (p *OpenAIProvider) RunAgentic(ctx context.Context, req AgenticRequest) (result *AgenticResult, err error) {
	var resp chatResponse

	tools := make(map[string]Tool, len(req.Tools))
	chatTools := make([]chatTool, 0, len(req.Tools))
	for _, t := range req.Tools {
		tools[t.Name] = t
		chatTools = append(chatTools, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Schema,
			},
		})
	}

	maxSteps := req.MaxSteps
	if maxSteps <= 0 {
		maxSteps = 16
	}

	transcript := toChatMessages(req.Messages)
	result = &AgenticResult{FinishReason: FinishMaxSteps}

	for step := 0; step < maxSteps; step++ {
		resp, err = p.post(ctx, chatRequest{
			Model:    req.Model,
			Messages: transcript,
			Tools:    chatTools,
		})
		if err != nil {
			goto end
		}
		if len(resp.Choices) == 0 {
			err = fmt.Errorf("%w: no choices at step %d", ErrEmptyResponse, step)
			goto end
		}

		choice := resp.Choices[0]
		assistant := fromChatMessage(choice.Message)
		current := Step{Response: assistant}

		if len(assistant.ToolCalls) == 0 {
			result.Steps = append(result.Steps, current)
			result.FinishReason = FinishStop
			result.Text = assistant.Content
			req.OnEvent.emit(ToolCallEvent{Kind: FinishedEvent})
			goto end
		}

		transcript = append(transcript, choice.Message)
		for _, tc := range assistant.ToolCalls {
			req.OnEvent.emit(ToolCallEvent{
				Kind:      ToolInvokedEvent,
				Tool:      tc.Name,
				Arguments: string(tc.Arguments),
			})

			var content string
			tool, known := tools[tc.Name]
			if !known {
				raw, _ := json.Marshal(ErrorResult{Error: fmt.Sprintf("unknown tool: %s", tc.Name)})
				content = string(raw)
			} else {
				content = safeExecute(ctx, tool, tc.Arguments)
			}

			current.Results = append(current.Results, ToolResult{
				CallID:  tc.ID,
				Name:    tc.Name,
				Content: content,
			})
			transcript = append(transcript, chatMessage{
				Role:       string(ToolRole),
				Content:    content,
				ToolCallID: tc.ID,
				Name:       tc.Name,
			})

			req.OnEvent.emit(ToolCallEvent{
				Kind:   ToolReturnedEvent,
				Tool:   tc.Name,
				Result: content,
			})
		}
		result.Steps = append(result.Steps, current)
	}
	req.OnEvent.emit(ToolCallEvent{Kind: FinishedEvent})

end:
	return result, err
}

// post sends a non-streaming request and decodes the response.
func (p *OpenAIProvider) post(ctx context.Context, body chatRequest) (resp chatResponse, err error) {
	var httpResp *http.Response
	var raw []byte

	httpResp, err = p.do(ctx, body)
	if err != nil {
		goto end
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	raw, err = io.ReadAll(httpResp.Body)
	if err != nil {
		goto end
	}

	err = json.Unmarshal(raw, &resp)
	if err != nil {
		err = fmt.Errorf("decoding completion response: %w", err)
		goto end
	}
	if resp.Error != nil {
		err = fmt.Errorf("%w: %s", ErrAskAI, resp.Error.Message)
	}

end:
	return resp, err
}

// do issues the HTTP request and maps status codes onto sentinels.
func (p *OpenAIProvider) do(ctx context.Context, body chatRequest) (httpResp *http.Response, err error) {
	var payload []byte
	var httpReq *http.Request

	payload, err = json.Marshal(body)
	if err != nil {
		goto end
	}

	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		goto end
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)

	httpResp, err = p.httpClient.Do(httpReq)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrAskAI, err)
		goto end
	}

	switch httpResp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		drainAndClose(httpResp)
		err = fmt.Errorf("%w (HTTP %d)", ErrAuth, httpResp.StatusCode)
	default:
		msg := readErrorBody(httpResp)
		err = fmt.Errorf("%w: HTTP %d: %s", ErrAskAI, httpResp.StatusCode, msg)
	}

end:
	return httpResp, err
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func readErrorBody(resp *http.Response) string {
	defer func() {
		_ = resp.Body.Close()
	}()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var decoded struct {
		Error *apiError `json:"error"`
	}
	if json.Unmarshal(raw, &decoded) == nil && decoded.Error != nil {
		return decoded.Error.Message
	}
	return strings.TrimSpace(string(raw))
}

func toChatMessages(messages []Message) []chatMessage {
	out := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		cm := chatMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
			Name:       m.ToolName,
		}
		for _, tc := range m.ToolCalls {
			cm.ToolCalls = append(cm.ToolCalls, chatToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: chatToolFunction{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}
		out = append(out, cm)
	}
	return out
}

func fromChatMessage(cm chatMessage) Message {
	m := Message{
		Role:       Role(cm.Role),
		Content:    cm.Content,
		ToolCallID: cm.ToolCallID,
		ToolName:   cm.Name,
	}
	for _, tc := range cm.ToolCalls {
		m.ToolCalls = append(m.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return m
}
