package askai

import (
	"context"
	"encoding/json"
	"fmt"
)

// Property is one node of a JSON-schema tool parameter description.
type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
	MaxLength   int                 `json:"maxLength,omitempty"`
}

// ObjectSchema builds the root object schema for a tool's parameters.
func ObjectSchema(props map[string]Property, required ...string) Property {
	return Property{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// StringProperty describes a plain string parameter.
func StringProperty(description string) Property {
	return Property{Type: "string", Description: description}
}

// IntProperty describes an integer parameter.
func IntProperty(description string) Property {
	return Property{Type: "integer", Description: description}
}

// BoolProperty describes a boolean parameter.
func BoolProperty(description string) Property {
	return Property{Type: "boolean", Description: description}
}

// ArrayProperty describes an array parameter with the given item schema.
func ArrayProperty(description string, items Property) Property {
	return Property{Type: "array", Description: description, Items: &items}
}

// Tool is one function the model may call during an agentic conversation.
//
// Execute must never fail in the Go sense: implementations catch their own
// errors and return a payload tagged with an "error" key so one bad call
// cannot abort the whole exchange. The returned value is marshaled to JSON
// and fed back into the conversation.
type Tool struct {
	Name        string
	Description string
	Schema      Property
	Execute     func(ctx context.Context, args json.RawMessage) any
}

// ErrorResult is the tagged payload tools return instead of raising.
type ErrorResult struct {
	Error string `json:"error"`
}

// safeExecute runs a tool, converting panics and marshal failures into
// tagged error payloads.
func safeExecute(ctx context.Context, tool Tool, args json.RawMessage) (content string) {
	var payload any

	func() {
		defer func() {
			if r := recover(); r != nil {
				payload = ErrorResult{Error: fmt.Sprintf("tool %s panicked: %v", tool.Name, r)}
			}
		}()
		payload = tool.Execute(ctx, args)
	}()

	raw, err := json.Marshal(payload)
	if err != nil {
		raw, _ = json.Marshal(ErrorResult{Error: fmt.Sprintf("tool %s returned unencodable result: %v", tool.Name, err)})
	}
	return string(raw)
}
