package splitter

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/gitquill/gitquill/quillpkg/askai"
	"github.com/gitquill/gitquill/quillpkg/commitmsg"
	"github.com/gitquill/gitquill/quillpkg/gitutils"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var negotiateTemplate = template.Must(template.ParseFS(templatesFS, "templates/negotiate.tmpl"))

// DefaultNegotiatorSteps caps the tool-loop length for splitting.
const DefaultNegotiatorSteps = 24

// ProposeToolName is the only terminating tool for the negotiator.
const ProposeToolName = "proposeCommitGroups"

// NegotiateArgs contains arguments for Negotiate.
type NegotiateArgs struct {
	Repo     *gitutils.Repo
	Agent    *askai.Agent
	Model    string
	Prompt   commitmsg.PromptArgs
	Snapshot []gitutils.ChangeHunk
	MaxSteps int
	OnEvent  askai.EventSink
	Logger   *slog.Logger
}

// Negotiate drives a tool-augmented conversation that partitions the given
// working-diff snapshot into commit groups. The returned proposal has passed
// ValidateProposal against the snapshot.
func Negotiate(ctx context.Context, args NegotiateArgs) (proposal Proposal, err error) {
	var buf bytes.Buffer
	var result *askai.AgenticResult
	var call askai.ToolCall
	var found bool
	var steps int

	err = negotiateTemplate.ExecuteTemplate(&buf, "negotiate.tmpl", args.Prompt)
	if err != nil {
		err = fmt.Errorf("%w: rendering prompt: %v", ErrSplitter, err)
		goto end
	}

	result, err = args.Agent.RunAgentic(ctx, askai.AgenticRequest{
		Messages: []askai.Message{
			{Role: askai.SystemRole, Content: buf.String()},
			{Role: askai.UserRole, Content: "Partition the working changes into logical commits now."},
		},
		Tools:    negotiatorTools(args),
		Model:    args.Model,
		MaxSteps: negotiatorSteps(args.MaxSteps),
		OnEvent:  args.OnEvent,
	})
	if err != nil {
		goto end
	}

	call, found = askai.FindToolCall(result.Steps, ProposeToolName)
	if !found {
		err = fmt.Errorf("%w (finish reason: %s)", ErrNoProposal, result.FinishReason)
		goto end
	}

	err = askai.DecodeToolArgs(call, &proposal)
	if err != nil {
		err = fmt.Errorf("%w: decoding %s arguments: %v", ErrInvalidProposal, ProposeToolName, err)
		goto end
	}

	err = ValidateProposal(proposal, args.Snapshot)
	if err != nil {
		goto end
	}

	steps = len(result.Steps)
	if args.Logger != nil {
		args.Logger.Debug("Negotiation finished",
			"steps", steps,
			"groups", len(proposal.Groups),
		)
	}

end:
	return proposal, err
}

func negotiatorSteps(requested int) int {
	if requested > 0 {
		return requested
	}
	return DefaultNegotiatorSteps
}

// negotiatorTools is a superset of the generator's inspection tools plus the
// hunk tools and the terminating proposal tool.
func negotiatorTools(args NegotiateArgs) []askai.Tool {
	return []askai.Tool{
		workingHunksTool(args.Snapshot),
		statusTool(args.Repo),
		workingDiffTool(args.Repo),
		historyTool(args.Repo),
		stageSelectedHunksTool(args.Repo, args.Snapshot),
		{
			Name:        ProposeToolName,
			Description: "Submit the final commit group partition. Calling this tool ends the conversation.",
			Schema: askai.ObjectSchema(map[string]askai.Property{
				"groups": askai.ArrayProperty("The commit groups in commit order",
					askai.ObjectSchema(map[string]askai.Property{
						"id":          askai.StringProperty("Short slug naming the group"),
						"title":       askai.StringProperty("Commit subject line"),
						"description": askai.StringProperty("Commit body describing the group"),
						"hunks": askai.ArrayProperty("Hunks assigned to this group",
							askai.ObjectSchema(map[string]askai.Property{
								"file":    askai.StringProperty("File path owning the hunk"),
								"hunkId":  askai.StringProperty("Hunk id exactly as reported"),
								"summary": askai.StringProperty("Short hunk description"),
							}, "file", "hunkId")),
						"priority":      askai.IntProperty("1=high, 2=normal, 3=low"),
						"justification": askai.StringProperty("Why these hunks belong together"),
					}, "id", "title", "hunks")),
				"explanation": askai.StringProperty("Overall explanation of the partition"),
			}, "groups", "explanation"),
			Execute: func(context.Context, json.RawMessage) any {
				return map[string]string{"status": "received"}
			},
		},
	}
}

type hunkListing struct {
	ID      string `json:"hunkId"`
	File    string `json:"file"`
	Summary string `json:"summary"`
	Added   int    `json:"added"`
	Removed int    `json:"removed"`
}

func workingHunksTool(snapshot []gitutils.ChangeHunk) askai.Tool {
	listing := make([]hunkListing, 0, len(snapshot))
	for _, h := range snapshot {
		listing = append(listing, hunkListing{
			ID:      h.ID,
			File:    h.File,
			Summary: h.Summary,
			Added:   h.Added,
			Removed: h.Removed,
		})
	}
	return askai.Tool{
		Name:        "getWorkingChangesAsHunks",
		Description: "List the working-diff hunks with their ids. Call this before grouping.",
		Schema:      askai.ObjectSchema(nil),
		Execute: func(context.Context, json.RawMessage) any {
			return map[string]any{"hunks": listing}
		},
	}
}

func statusTool(repo *gitutils.Repo) askai.Tool {
	return askai.Tool{
		Name:        "getStatus",
		Description: "Get the staged, modified, and untracked file lists.",
		Schema:      askai.ObjectSchema(nil),
		Execute: func(ctx context.Context, _ json.RawMessage) any {
			status, err := repo.Status(ctx)
			if err != nil {
				return askai.ErrorResult{Error: err.Error()}
			}
			return status
		},
	}
}

func workingDiffTool(repo *gitutils.Repo) askai.Tool {
	return askai.Tool{
		Name:        "readWorkingDiff",
		Description: "Read the raw unified diff of the working directory.",
		Schema:      askai.ObjectSchema(nil),
		Execute: func(ctx context.Context, _ json.RawMessage) any {
			diff, ok, err := repo.GetWorkingDiff(ctx, gitutils.DefaultContextLines)
			if err != nil {
				return askai.ErrorResult{Error: err.Error()}
			}
			if !ok {
				return map[string]string{"diff": "no changes"}
			}
			return map[string]string{"diff": diff}
		},
	}
}

func historyTool(repo *gitutils.Repo) askai.Tool {
	type historyArgs struct {
		Count int `json:"count"`
	}
	return askai.Tool{
		Name:        "getCommitHistory",
		Description: "Fetch recent commits (hash, subject, author, date).",
		Schema: askai.ObjectSchema(map[string]askai.Property{
			"count": askai.IntProperty("Maximum number of commits to return"),
		}),
		Execute: func(ctx context.Context, raw json.RawMessage) any {
			var in historyArgs
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &in); err != nil {
					return askai.ErrorResult{Error: err.Error()}
				}
			}
			if in.Count <= 0 {
				in.Count = 10
			}
			commits, err := repo.GetCommitHistory(ctx, in.Count)
			if err != nil {
				return askai.ErrorResult{Error: err.Error()}
			}
			return map[string]any{"commits": commits}
		},
	}
}

// stageSelectedHunksTool lets the model test a grouping mid-conversation.
// Staging here is advisory; application resets the index per group anyway.
func stageSelectedHunksTool(repo *gitutils.Repo, snapshot []gitutils.ChangeHunk) askai.Tool {
	type stageArgs struct {
		HunkIDs []string `json:"hunkIds"`
	}
	byID := make(map[string]gitutils.ChangeHunk, len(snapshot))
	for _, h := range snapshot {
		byID[h.ID] = h
	}
	return askai.Tool{
		Name:        "stageSelectedHunks",
		Description: "Stage the files owning the given hunks to test a grouping.",
		Schema: askai.ObjectSchema(map[string]askai.Property{
			"hunkIds": askai.ArrayProperty("Hunk ids to stage", askai.StringProperty("hunk id")),
		}, "hunkIds"),
		Execute: func(ctx context.Context, raw json.RawMessage) any {
			var in stageArgs
			if err := json.Unmarshal(raw, &in); err != nil {
				return askai.ErrorResult{Error: err.Error()}
			}
			hunks := make([]gitutils.ChangeHunk, 0, len(in.HunkIDs))
			for _, id := range in.HunkIDs {
				h, ok := byID[id]
				if !ok {
					return askai.ErrorResult{Error: fmt.Sprintf("unknown hunk id: %s", id)}
				}
				hunks = append(hunks, h)
			}
			if err := repo.StageSelectedHunks(ctx, hunks); err != nil {
				return askai.ErrorResult{Error: err.Error()}
			}
			return map[string]any{"staged": len(hunks)}
		},
	}
}
