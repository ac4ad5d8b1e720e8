package commitmsg

import (
	"context"
	"fmt"
	"strings"

	"github.com/gitquill/gitquill/quillpkg/askai"
)

// PullRequest is a generated title/description pair for a branch.
type PullRequest struct {
	Title       string
	Description string
}

// PullRequestArgs contains arguments for GeneratePullRequest.
type PullRequestArgs struct {
	Agent  *askai.Agent
	Model  string
	Prompt PromptArgs
}

// GeneratePullRequest asks the model for a PR title and markdown description
// built from the branch's commit subjects and combined diff.
func GeneratePullRequest(ctx context.Context, args PullRequestArgs) (pr PullRequest, err error) {
	var prompt string
	var choices []string
	var parts []string

	prompt, err = render("pr.tmpl", args.Prompt)
	if err != nil {
		goto end
	}

	choices, err = args.Agent.Complete(ctx, askai.CompletionRequest{
		Messages: []askai.Message{
			{Role: askai.UserRole, Content: prompt},
		},
		Model: args.Model,
	})
	if err != nil {
		goto end
	}

	parts = strings.SplitN(strings.TrimSpace(choices[0]), "\n\n", 2)
	pr.Title = NormalizeSubject(parts[0])
	if len(parts) > 1 {
		pr.Description = strings.TrimSpace(parts[1])
	}
	if pr.Title == "" {
		err = fmt.Errorf("%w: pull request title", ErrEmptySubject)
		goto end
	}

end:
	return pr, err
}
