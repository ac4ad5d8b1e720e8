package askai

import "encoding/json"

// EventKind tags one ToolCallEvent variant.
type EventKind int

const (
	// ToolInvokedEvent reports a tool invocation the model requested.
	ToolInvokedEvent EventKind = iota

	// ToolReturnedEvent reports a tool result fed back to the model.
	ToolReturnedEvent

	// FinishedEvent reports that the conversation ended.
	FinishedEvent
)

// ToolCallEvent is a progress notification emitted during an agentic
// conversation. Events carry no control-flow meaning; they exist so callers
// can render live status.
type ToolCallEvent struct {
	Kind      EventKind
	Tool      string
	Arguments string
	Result    string
}

// EventSink receives progress events. A nil sink disables reporting.
type EventSink func(ToolCallEvent)

func (s EventSink) emit(ev ToolCallEvent) {
	if s != nil {
		s(ev)
	}
}

// AgenticRequest configures one multi-step tool conversation.
type AgenticRequest struct {
	Messages []Message
	Tools    []Tool
	Model    string
	MaxSteps int
	OnEvent  EventSink
}

// ToolResult pairs a tool call with the JSON payload it produced.
type ToolResult struct {
	CallID  string
	Name    string
	Content string
}

// Step records one assistant turn of an agentic conversation: the model's
// message (with any tool calls) and the results produced for those calls.
type Step struct {
	Response Message
	Results  []ToolResult
}

// Finish reasons reported by AgenticResult.
const (
	FinishStop     = "stop"
	FinishMaxSteps = "max_steps"
)

// AgenticResult is the transcript of a completed agentic conversation.
type AgenticResult struct {
	Steps        []Step
	FinishReason string
	Text         string // Final free-text content, if any
}

// FindToolCall scans every step's tool-call list (not just the last step)
// for the named tool and returns the first match. The model may invoke a
// terminating tool at a non-final step when the conversation harness still
// reports one more finishing turn.
func FindToolCall(steps []Step, name string) (call ToolCall, found bool) {
	for _, step := range steps {
		for _, tc := range step.Response.ToolCalls {
			if tc.Name == name {
				return tc, true
			}
		}
	}
	return ToolCall{}, false
}

// DecodeToolArgs unmarshals a tool call's arguments into out.
func DecodeToolArgs(call ToolCall, out any) error {
	if len(call.Arguments) == 0 {
		return json.Unmarshal([]byte("{}"), out)
	}
	return json.Unmarshal(call.Arguments, out)
}
