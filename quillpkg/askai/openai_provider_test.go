package askai_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gitquill/gitquill/quillpkg/askai"
)

func newTestProvider(server *httptest.Server) *askai.OpenAIProvider {
	return askai.NewOpenAIProvider(askai.OpenAIProviderArgs{
		BaseProvider: askai.DefaultBaseProvider(),
		APIKey:       "sk-test",
		BaseURL:      server.URL,
	})
}

func completionResponse(contents ...string) string {
	choices := make([]string, 0, len(contents))
	for i, c := range contents {
		raw, _ := json.Marshal(c)
		choices = append(choices, fmt.Sprintf(`{"index":%d,"message":{"role":"assistant","content":%s},"finish_reason":"stop"}`, i, raw))
	}
	return `{"choices":[` + strings.Join(choices, ",") + `]}`
}

func TestOpenAIGenerateCompletion(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Model string `json:"model"`
		N     int    `json:"n"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		fmt.Fprint(w, completionResponse("First subject", "Second subject"))
	}))
	defer server.Close()

	provider := newTestProvider(server)
	choices, err := provider.GenerateCompletion(context.Background(), askai.CompletionRequest{
		Messages: []askai.Message{{Role: askai.UserRole, Content: "hi"}},
		Model:    "gpt-4o-mini",
		N:        2,
	})
	if err != nil {
		t.Fatalf("GenerateCompletion() failed: %v", err)
	}
	if len(choices) != 2 || choices[0] != "First subject" || choices[1] != "Second subject" {
		t.Errorf("choices = %v, want both subjects", choices)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want Bearer sk-test", gotAuth)
	}
	if gotBody.Model != "gpt-4o-mini" || gotBody.N != 2 {
		t.Errorf("request body = %+v, want model and n forwarded", gotBody)
	}
}

func TestOpenAIGenerateCompletion_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	provider := newTestProvider(server)
	_, err := provider.GenerateCompletion(context.Background(), askai.CompletionRequest{
		Messages: []askai.Message{{Role: askai.UserRole, Content: "hi"}},
		Model:    "gpt-4o-mini",
	})
	if !errors.Is(err, askai.ErrAuth) {
		t.Errorf("GenerateCompletion() error = %v, want ErrAuth", err)
	}
}

func TestOpenAIStreamCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\", world\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	var deltas []string
	provider := newTestProvider(server)
	text, err := provider.StreamCompletion(context.Background(), askai.StreamRequest{
		Messages: []askai.Message{{Role: askai.UserRole, Content: "hi"}},
		Model:    "gpt-4o-mini",
		OnDelta: func(delta string) {
			deltas = append(deltas, delta)
		},
	})
	if err != nil {
		t.Fatalf("StreamCompletion() failed: %v", err)
	}
	if text != "Hello, world" {
		t.Errorf("text = %q, want %q", text, "Hello, world")
	}
	if len(deltas) != 2 {
		t.Errorf("deltas = %v, want 2 callbacks", deltas)
	}
}

func TestOpenAIRunAgentic(t *testing.T) {
	// First call answers with a tool invocation, second with plain text.
	responses := []string{
		`{"choices":[{"index":0,"message":{"role":"assistant","content":"","tool_calls":[{"id":"call-1","type":"function","function":{"name":"lookup","arguments":"{\"key\":\"alpha\"}"}}]},"finish_reason":"tool_calls"}]}`,
		completionResponse("done"),
	}
	var requests []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		requests = append(requests, body)
		fmt.Fprint(w, responses[len(requests)-1])
	}))
	defer server.Close()

	var lookupArgs string
	var events []askai.EventKind
	provider := newTestProvider(server)
	result, err := provider.RunAgentic(context.Background(), askai.AgenticRequest{
		Messages: []askai.Message{{Role: askai.UserRole, Content: "go"}},
		Model:    "gpt-4o-mini",
		Tools: []askai.Tool{
			{
				Name:   "lookup",
				Schema: askai.ObjectSchema(nil),
				Execute: func(_ context.Context, raw json.RawMessage) any {
					lookupArgs = string(raw)
					return map[string]string{"value": "42"}
				},
			},
		},
		OnEvent: func(ev askai.ToolCallEvent) {
			events = append(events, ev.Kind)
		},
	})
	if err != nil {
		t.Fatalf("RunAgentic() failed: %v", err)
	}
	if result.FinishReason != askai.FinishStop {
		t.Errorf("FinishReason = %q, want %q", result.FinishReason, askai.FinishStop)
	}
	if len(result.Steps) != 2 {
		t.Fatalf("Steps = %d, want 2", len(result.Steps))
	}
	if result.Text != "done" {
		t.Errorf("Text = %q, want done", result.Text)
	}
	if lookupArgs != `{"key":"alpha"}` {
		t.Errorf("lookup arguments = %q, want the call arguments", lookupArgs)
	}
	if len(result.Steps[0].Results) != 1 || !strings.Contains(result.Steps[0].Results[0].Content, "42") {
		t.Errorf("step 0 results = %+v, want the lookup payload", result.Steps[0].Results)
	}

	// The second request's transcript must carry the tool result back.
	second, _ := json.Marshal(requests[1]["messages"])
	if !strings.Contains(string(second), `"tool_call_id":"call-1"`) {
		t.Errorf("second transcript %s lacks the tool result message", second)
	}

	wantEvents := []askai.EventKind{askai.ToolInvokedEvent, askai.ToolReturnedEvent, askai.FinishedEvent}
	if len(events) != len(wantEvents) {
		t.Fatalf("events = %v, want %v", events, wantEvents)
	}
	for i, want := range wantEvents {
		if events[i] != want {
			t.Errorf("events[%d] = %v, want %v", i, events[i], want)
		}
	}
}

func TestOpenAIRunAgentic_ToolPanicBecomesErrorPayload(t *testing.T) {
	responses := []string{
		`{"choices":[{"index":0,"message":{"role":"assistant","content":"","tool_calls":[{"id":"call-1","type":"function","function":{"name":"boom","arguments":"{}"}}]},"finish_reason":"tool_calls"}]}`,
		completionResponse("recovered"),
	}
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, responses[calls-1])
	}))
	defer server.Close()

	provider := newTestProvider(server)
	result, err := provider.RunAgentic(context.Background(), askai.AgenticRequest{
		Messages: []askai.Message{{Role: askai.UserRole, Content: "go"}},
		Model:    "gpt-4o-mini",
		Tools: []askai.Tool{
			{
				Name:   "boom",
				Schema: askai.ObjectSchema(nil),
				Execute: func(context.Context, json.RawMessage) any {
					panic("tool exploded")
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("RunAgentic() failed: %v", err)
	}
	if len(result.Steps) != 2 {
		t.Fatalf("Steps = %d, want the loop to continue past the panic", len(result.Steps))
	}
	content := result.Steps[0].Results[0].Content
	if !strings.Contains(content, "error") || !strings.Contains(content, "tool exploded") {
		t.Errorf("tool result = %q, want a tagged error payload", content)
	}
}

func TestOpenAIRunAgentic_UnknownTool(t *testing.T) {
	responses := []string{
		`{"choices":[{"index":0,"message":{"role":"assistant","content":"","tool_calls":[{"id":"call-1","type":"function","function":{"name":"nonexistent","arguments":"{}"}}]},"finish_reason":"tool_calls"}]}`,
		completionResponse("ok"),
	}
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, responses[calls-1])
	}))
	defer server.Close()

	provider := newTestProvider(server)
	result, err := provider.RunAgentic(context.Background(), askai.AgenticRequest{
		Messages: []askai.Message{{Role: askai.UserRole, Content: "go"}},
		Model:    "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("RunAgentic() failed: %v", err)
	}
	content := result.Steps[0].Results[0].Content
	if !strings.Contains(content, "unknown tool") {
		t.Errorf("tool result = %q, want an unknown-tool error payload", content)
	}
}
