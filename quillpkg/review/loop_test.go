package review_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gitquill/gitquill/quillpkg/commitmsg"
	"github.com/gitquill/gitquill/quillpkg/review"
)

// scriptedPrompter replays queued answers in order.
type scriptedPrompter struct {
	actions      []review.Action
	edits        []editResult
	instructions []string
}

type editResult struct {
	text string
	ok   bool
	err  error
}

func (p *scriptedPrompter) ChooseAction(commitmsg.Draft) (review.Action, error) {
	if len(p.actions) == 0 {
		return review.ActionCancel, nil
	}
	action := p.actions[0]
	p.actions = p.actions[1:]
	return action, nil
}

func (p *scriptedPrompter) EditDraft(commitmsg.Draft) (string, bool, error) {
	if len(p.edits) == 0 {
		return "", false, nil
	}
	edit := p.edits[0]
	p.edits = p.edits[1:]
	return edit.text, edit.ok, edit.err
}

func (p *scriptedPrompter) ReadInstructions() (string, error) {
	if len(p.instructions) == 0 {
		return "", nil
	}
	in := p.instructions[0]
	p.instructions = p.instructions[1:]
	return in, nil
}

func startDraft() commitmsg.Draft {
	return commitmsg.Draft{Subject: "Add retry logic", Body: "Retries twice."}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name        string
		prompter    *scriptedPrompter
		regenerate  review.Regenerator
		wantOutcome review.Outcome
		wantSubject string
		wantBody    string
		wantOutput  string
	}{
		{
			name: "accept returns the draft untouched",
			prompter: &scriptedPrompter{
				actions: []review.Action{review.ActionAccept},
			},
			wantOutcome: review.OutcomeAccepted,
			wantSubject: "Add retry logic",
			wantBody:    "Retries twice.",
		},
		{
			name: "cancel terminates without committing",
			prompter: &scriptedPrompter{
				actions: []review.Action{review.ActionCancel},
			},
			wantOutcome: review.OutcomeCancelled,
			wantSubject: "Add retry logic",
		},
		{
			name: "edit replaces the draft before accept",
			prompter: &scriptedPrompter{
				actions: []review.Action{review.ActionEdit, review.ActionAccept},
				edits: []editResult{
					{text: "Add retry with backoff\n\nRetries twice, doubling the delay.\n", ok: true},
				},
			},
			wantOutcome: review.OutcomeAccepted,
			wantSubject: "Add retry with backoff",
			wantBody:    "Retries twice, doubling the delay.",
		},
		{
			name: "failed edit keeps the draft and returns to the proposal",
			prompter: &scriptedPrompter{
				actions: []review.Action{review.ActionEdit, review.ActionAccept},
				edits: []editResult{
					{err: errors.New("editor exited 1")},
				},
			},
			wantOutcome: review.OutcomeAccepted,
			wantSubject: "Add retry logic",
			wantBody:    "Retries twice.",
			wantOutput:  "Edit unavailable",
		},
		{
			name: "edit that erases the subject is discarded",
			prompter: &scriptedPrompter{
				actions: []review.Action{review.ActionEdit, review.ActionAccept},
				edits: []editResult{
					{text: "  \n \n  \n", ok: true},
				},
			},
			wantOutcome: review.OutcomeAccepted,
			wantSubject: "Add retry logic",
			wantBody:    "Retries twice.",
			wantOutput:  "no subject",
		},
		{
			name: "revise regenerates with the given instructions",
			prompter: &scriptedPrompter{
				actions:      []review.Action{review.ActionRevise, review.ActionAccept},
				instructions: []string{"mention the backoff cap"},
			},
			regenerate: func(_ context.Context, instructions string) (commitmsg.Draft, error) {
				return commitmsg.Draft{Subject: "Cap retry backoff at 30s", Body: instructions}, nil
			},
			wantOutcome: review.OutcomeAccepted,
			wantSubject: "Cap retry backoff at 30s",
			wantBody:    "mention the backoff cap",
		},
		{
			name: "revise with empty instructions is a no-op",
			prompter: &scriptedPrompter{
				actions:      []review.Action{review.ActionRevise, review.ActionAccept},
				instructions: []string{"   "},
			},
			regenerate: func(context.Context, string) (commitmsg.Draft, error) {
				return commitmsg.Draft{}, errors.New("must not be called")
			},
			wantOutcome: review.OutcomeAccepted,
			wantSubject: "Add retry logic",
			wantBody:    "Retries twice.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			outcome, draft, err := review.Run(context.Background(), review.RunArgs{
				Draft:      startDraft(),
				Prompter:   tt.prompter,
				Regenerate: tt.regenerate,
				Writer:     &out,
			})
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}
			if outcome != tt.wantOutcome {
				t.Errorf("outcome = %v, want %v", outcome, tt.wantOutcome)
			}
			if draft.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", draft.Subject, tt.wantSubject)
			}
			if draft.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", draft.Body, tt.wantBody)
			}
			if tt.wantOutput != "" && !strings.Contains(out.String(), tt.wantOutput) {
				t.Errorf("output = %q, want substring %q", out.String(), tt.wantOutput)
			}
		})
	}
}

func TestRun_IterationCapCancels(t *testing.T) {
	prompter := &scriptedPrompter{
		actions: []review.Action{
			review.ActionRevise, review.ActionRevise, review.ActionRevise,
		},
		instructions: []string{"", "", ""},
	}
	var out bytes.Buffer
	outcome, _, err := review.Run(context.Background(), review.RunArgs{
		Draft:         startDraft(),
		Prompter:      prompter,
		MaxIterations: 3,
		Writer:        &out,
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if outcome != review.OutcomeCancelled {
		t.Errorf("outcome = %v, want OutcomeCancelled", outcome)
	}
	if !strings.Contains(out.String(), "Revision limit reached (3)") {
		t.Errorf("output = %q, want revision limit notice", out.String())
	}
}

func TestParseEditedMessage(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantSubject string
		wantBody    string
	}{
		{
			name:        "subject and body",
			text:        "feat: add export\n\n* writes CSV\n* writes JSON\n",
			wantSubject: "feat: add export",
			wantBody:    "* writes CSV\n* writes JSON",
		},
		{
			name:        "no blank line means subject only",
			text:        "Fix typo in README\n",
			wantSubject: "Fix typo in README",
			wantBody:    "",
		},
		{
			name:        "extra subject lines fold into one",
			text:        "Fix typo\nin README\n\ndetails here",
			wantSubject: "Fix typo in README",
			wantBody:    "details here",
		},
		{
			name:        "empty text",
			text:        "   \n",
			wantSubject: "",
			wantBody:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := review.ParseEditedMessage(tt.text)
			if draft.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", draft.Subject, tt.wantSubject)
			}
			if draft.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", draft.Body, tt.wantBody)
			}
		})
	}
}
