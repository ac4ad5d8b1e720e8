package quillcliui

import (
	"io"

	"github.com/gitquill/gitquill/quillpkg/commitmsg"
	"github.com/gitquill/gitquill/quillpkg/review"
)

// TerminalPrompter implements review.Prompter against a real terminal.
type TerminalPrompter struct {
	Writer io.Writer
}

// ChooseAction shows the draft and the action menu.
func (p *TerminalPrompter) ChooseAction(draft commitmsg.Draft) (action review.Action, err error) {
	var index int

	DisplayBox("Proposed commit message", draft.Message(), p.Writer)

	index, err = ShowMenu(MenuArgs{
		Prompt: "Action?",
		Options: []MenuOption{
			{Label: "accept", Description: "Commit with this message"},
			{Label: "edit", Description: "Open the message in your editor"},
			{Label: "revise", Description: "Regenerate with feedback"},
			{Label: "cancel", Description: "Abandon without committing"},
		},
		Writer: p.Writer,
	})
	if err != nil {
		goto end
	}

	switch index {
	case 0:
		action = review.ActionAccept
	case 1:
		action = review.ActionEdit
	case 2:
		action = review.ActionRevise
	default:
		action = review.ActionCancel
	}

end:
	return action, err
}

// EditDraft opens the draft in the user's editor. Failures report ok=false
// so the loop returns to the proposal state.
func (p *TerminalPrompter) EditDraft(draft commitmsg.Draft) (text string, ok bool, err error) {
	text, err = EditText(draft.Message() + "\n")
	if err != nil {
		goto end
	}
	ok = true

end:
	return text, ok, err
}

// ReadInstructions asks for revision feedback; empty input means the user
// changed their mind.
func (p *TerminalPrompter) ReadInstructions() (string, error) {
	return ReadLine("What should change?", p.Writer)
}
