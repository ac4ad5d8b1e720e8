package askai_test

import (
	"encoding/json"
	"testing"

	"github.com/gitquill/gitquill/quillpkg/askai"
)

func stepWithCalls(calls ...askai.ToolCall) askai.Step {
	return askai.Step{
		Response: askai.Message{Role: askai.AssistantRole, ToolCalls: calls},
	}
}

func TestFindToolCall(t *testing.T) {
	early := askai.ToolCall{ID: "c1", Name: "finish", Arguments: json.RawMessage(`{"a":1}`)}
	late := askai.ToolCall{ID: "c2", Name: "finish", Arguments: json.RawMessage(`{"a":2}`)}

	tests := []struct {
		name      string
		steps     []askai.Step
		wantID    string
		wantFound bool
	}{
		{
			name:      "found in final step",
			steps:     []askai.Step{stepWithCalls(), stepWithCalls(late)},
			wantID:    "c2",
			wantFound: true,
		},
		{
			name:      "found at an earlier step",
			steps:     []askai.Step{stepWithCalls(early), stepWithCalls()},
			wantID:    "c1",
			wantFound: true,
		},
		{
			name: "first occurrence wins",
			steps: []askai.Step{
				stepWithCalls(early),
				stepWithCalls(late),
			},
			wantID:    "c1",
			wantFound: true,
		},
		{
			name:  "absent",
			steps: []askai.Step{stepWithCalls(askai.ToolCall{ID: "x", Name: "other"})},
		},
		{
			name: "no steps",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, found := askai.FindToolCall(tt.steps, "finish")
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if found && call.ID != tt.wantID {
				t.Errorf("call.ID = %q, want %q", call.ID, tt.wantID)
			}
		})
	}
}

func TestDecodeToolArgs(t *testing.T) {
	type payload struct {
		Message string `json:"message"`
	}

	var out payload
	err := askai.DecodeToolArgs(askai.ToolCall{Arguments: json.RawMessage(`{"message":"hi"}`)}, &out)
	if err != nil {
		t.Fatalf("DecodeToolArgs() failed: %v", err)
	}
	if out.Message != "hi" {
		t.Errorf("Message = %q, want hi", out.Message)
	}

	err = askai.DecodeToolArgs(askai.ToolCall{Arguments: json.RawMessage(`not json`)}, &out)
	if err == nil {
		t.Error("DecodeToolArgs() succeeded on malformed arguments")
	}
}

func TestFlattenMessages(t *testing.T) {
	got := askai.FlattenMessages([]askai.Message{
		{Role: askai.SystemRole, Content: "You write commit messages."},
		{Role: askai.UserRole, Content: "Here is the diff."},
		{Role: askai.AssistantRole, Content: ""},
	})
	want := "You write commit messages.\n\nHere is the diff."
	if got != want {
		t.Errorf("FlattenMessages() = %q, want %q", got, want)
	}
}
