package commitmsg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gitquill/gitquill/quillpkg/askai"
)

// DefaultSubjectCandidates is how many subject completions the quick path
// requests; duplicates collapse after normalization.
const DefaultSubjectCandidates = 3

// QuickArgs contains arguments for QuickGenerate.
type QuickArgs struct {
	Agent       *askai.Agent
	Model       string
	Prompt      PromptArgs
	Temperature float64

	// Candidates overrides DefaultSubjectCandidates when > 0
	Candidates int

	// OnDelta receives streamed body text when the provider supports it
	OnDelta func(chunk string)
}

// QuickGenerate produces a Draft from two independent completions, one for
// the subject and one for the body, issued concurrently and joined before
// returning. No shared state crosses the two branches.
func QuickGenerate(ctx context.Context, args QuickArgs) (draft Draft, err error) {
	var system, subjectPrompt, bodyPrompt string
	var subjects []string
	var body string

	system, err = BuildSystemPrompt(args.Prompt)
	if err != nil {
		goto end
	}
	subjectPrompt, err = BuildSubjectPrompt(args.Prompt)
	if err != nil {
		goto end
	}
	bodyPrompt, err = BuildBodyPrompt(args.Prompt)
	if err != nil {
		goto end
	}

	{
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			n := args.Candidates
			if n <= 0 {
				n = DefaultSubjectCandidates
			}
			choices, gerr := args.Agent.Complete(gctx, askai.CompletionRequest{
				Messages: []askai.Message{
					{Role: askai.SystemRole, Content: system},
					{Role: askai.UserRole, Content: subjectPrompt},
				},
				Model:       args.Model,
				Temperature: args.Temperature,
				N:           n,
			})
			if gerr != nil {
				return gerr
			}
			subjects = DedupSubjects(choices)
			return nil
		})

		g.Go(func() error {
			text, gerr := args.Agent.Stream(gctx, askai.StreamRequest{
				Messages: []askai.Message{
					{Role: askai.SystemRole, Content: system},
					{Role: askai.UserRole, Content: bodyPrompt},
				},
				Model:       args.Model,
				Temperature: args.Temperature,
				OnDelta:     args.OnDelta,
			})
			if gerr != nil {
				// A model declining to write a body is not a failure.
				if errors.Is(gerr, askai.ErrEmptyResponse) {
					return nil
				}
				return gerr
			}
			body = strings.TrimSpace(text)
			return nil
		})

		err = g.Wait()
		if err != nil {
			goto end
		}
	}

	if len(subjects) == 0 {
		err = fmt.Errorf("%w: all candidates were empty", ErrEmptySubject)
		goto end
	}

	draft.Subject = subjects[0]
	draft.Body = body
	draft.Raw = strings.Join(subjects, "\n")

end:
	return draft, err
}
