package commitmsg

import (
	"errors"
)

// Sentinel errors
var (
	// ErrCommitMsg is the base sentinel for all commitmsg package errors
	ErrCommitMsg = errors.New("error generating commit message")

	// ErrEmptySubject indicates the AI returned a message with no subject
	ErrEmptySubject = errors.New("empty commit subject")

	// ErrNoFinishCall indicates an agentic run ended without the finishing
	// tool call; the result cannot be recovered from free text
	ErrNoFinishCall = errors.New("no finishing call found; generation failed")
)

// Draft is the working state of one revision loop.
type Draft struct {
	// Subject is the commit message subject line
	Subject string

	// Body is the commit message body (can be empty)
	Body string

	// Raw is the raw AI response (for debugging)
	Raw string
}

// Message returns the full commit message (subject + body).
func (d Draft) Message() string {
	if d.Body == "" {
		return d.Subject
	}
	return d.Subject + "\n\n" + d.Body
}
