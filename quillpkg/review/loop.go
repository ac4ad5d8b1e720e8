// Package review implements the interactive accept/edit/revise/cancel loop
// around a generated commit draft. Only Accept hands a draft back for
// committing; the commit itself happens in the caller.
package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gitquill/gitquill/quillpkg/commitmsg"
)

// ErrReview is the base sentinel for review package errors
var ErrReview = errors.New("error reviewing commit message")

// DefaultMaxIterations bounds the revision loop; past it the loop
// force-cancels rather than running forever.
const DefaultMaxIterations = 10

// Action is one user choice at the proposal prompt.
type Action int

const (
	ActionAccept Action = iota
	ActionEdit
	ActionRevise
	ActionCancel
)

// Outcome is the terminal state of a review session.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeCancelled
)

// Prompter supplies the user-facing interactions the loop needs. Terminal
// and test implementations both satisfy it.
type Prompter interface {
	// ChooseAction presents the draft and returns the user's choice
	ChooseAction(draft commitmsg.Draft) (Action, error)

	// EditDraft opens the draft in an editor and returns the edited text.
	// ok is false when the editor failed or the result was unreadable.
	EditDraft(draft commitmsg.Draft) (text string, ok bool, err error)

	// ReadInstructions asks for free-text revision instructions; empty
	// means the user changed their mind
	ReadInstructions() (string, error)
}

// Regenerator re-invokes the generation path with user instructions.
type Regenerator func(ctx context.Context, instructions string) (commitmsg.Draft, error)

// RunArgs contains arguments for Run.
type RunArgs struct {
	Draft      commitmsg.Draft
	Prompter   Prompter
	Regenerate Regenerator

	// MaxIterations overrides DefaultMaxIterations when > 0
	MaxIterations int

	Writer io.Writer
	Logger *slog.Logger
}

// Run loops the draft through the user until Accept or Cancel. A failed edit
// returns to the proposal state; only an explicit cancel (or the iteration
// cap) is session-terminal.
func Run(ctx context.Context, args RunArgs) (outcome Outcome, draft commitmsg.Draft, err error) {
	var action Action

	draft = args.Draft
	outcome = OutcomeCancelled

	maxIterations := args.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	for i := 0; i < maxIterations; i++ {
		action, err = args.Prompter.ChooseAction(draft)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrReview, err)
			goto end
		}

		switch action {
		case ActionAccept:
			outcome = OutcomeAccepted
			goto end

		case ActionCancel:
			outcome = OutcomeCancelled
			goto end

		case ActionEdit:
			draft = runEdit(args, draft)

		case ActionRevise:
			draft, err = runRevise(ctx, args, draft)
			if err != nil {
				goto end
			}
		}
	}

	fmt.Fprintf(args.Writer, "Revision limit reached (%d); cancelling.\n", maxIterations)
	outcome = OutcomeCancelled

end:
	return outcome, draft, err
}

// runEdit opens the editor and folds the result back into the draft. Editor
// failures keep the current draft and return to the proposal state.
func runEdit(args RunArgs, draft commitmsg.Draft) commitmsg.Draft {
	text, ok, err := args.Prompter.EditDraft(draft)
	if err != nil || !ok {
		if args.Logger != nil && err != nil {
			args.Logger.Warn("Edit failed; keeping current draft", "error", err)
		}
		fmt.Fprintf(args.Writer, "Edit unavailable; message unchanged.\n")
		return draft
	}

	edited := ParseEditedMessage(text)
	if edited.Subject == "" {
		fmt.Fprintf(args.Writer, "Edited message had no subject; message unchanged.\n")
		return draft
	}
	return edited
}

// runRevise collects instructions and regenerates. Empty input is a no-op
// back to the proposal state, not an error.
func runRevise(ctx context.Context, args RunArgs, draft commitmsg.Draft) (next commitmsg.Draft, err error) {
	var instructions string

	next = draft

	instructions, err = args.Prompter.ReadInstructions()
	if err != nil {
		err = fmt.Errorf("%w: reading instructions: %v", ErrReview, err)
		goto end
	}
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		goto end
	}

	next, err = args.Regenerate(ctx, instructions)
	if err != nil {
		goto end
	}

end:
	return next, err
}

// ParseEditedMessage splits edited text on the first blank line: everything
// before is the subject (extra lines folded in), everything after the body.
// Text with no blank line becomes subject-only.
func ParseEditedMessage(text string) commitmsg.Draft {
	var draft commitmsg.Draft

	parts := strings.SplitN(strings.TrimSpace(text), "\n\n", 2)
	draft.Subject = commitmsg.NormalizeSubject(parts[0])
	if len(parts) > 1 {
		draft.Body = strings.TrimSpace(parts[1])
	}
	return draft
}
