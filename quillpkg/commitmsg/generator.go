package commitmsg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gitquill/gitquill/quillpkg/askai"
	"github.com/gitquill/gitquill/quillpkg/gitutils"
)

// DefaultGeneratorSteps caps the tool-loop length for message generation.
const DefaultGeneratorSteps = 32

// FinishToolName is the only terminating tool for the generator.
const FinishToolName = "finishCommitMessage"

// GeneratorArgs contains arguments for Generate.
type GeneratorArgs struct {
	Repo        *gitutils.Repo
	Agent       *askai.Agent
	Model       string
	Prompt      PromptArgs
	StagedFiles []string
	MaxSteps    int
	OnEvent     askai.EventSink
	Logger      *slog.Logger
}

type finishArgs struct {
	CommitMessage string `json:"commitMessage"`
	CommitBody    string `json:"commitBody"`
}

// Generate drives a tool-augmented conversation that produces one Draft.
// The model must terminate via finishCommitMessage; a run that never calls
// it fails hard rather than guessing from free text.
func Generate(ctx context.Context, args GeneratorArgs) (draft Draft, err error) {
	var system string
	var result *askai.AgenticResult
	var call askai.ToolCall
	var found bool
	var finish finishArgs

	system, err = BuildAgenticSystemPrompt(args.Prompt)
	if err != nil {
		goto end
	}

	result, err = args.Agent.RunAgentic(ctx, askai.AgenticRequest{
		Messages: []askai.Message{
			{Role: askai.SystemRole, Content: system},
			{Role: askai.UserRole, Content: "Generate the commit message for the staged changes now."},
		},
		Tools:    generatorTools(args),
		Model:    args.Model,
		MaxSteps: maxSteps(args.MaxSteps, DefaultGeneratorSteps),
		OnEvent:  args.OnEvent,
	})
	if err != nil {
		goto end
	}

	// The model may emit the finishing call at a non-final step, so every
	// step's tool calls are scanned.
	call, found = askai.FindToolCall(result.Steps, FinishToolName)
	if !found {
		err = fmt.Errorf("%w (finish reason: %s)", ErrNoFinishCall, result.FinishReason)
		goto end
	}

	err = askai.DecodeToolArgs(call, &finish)
	if err != nil {
		err = fmt.Errorf("%w: decoding %s arguments: %v", ErrCommitMsg, FinishToolName, err)
		goto end
	}

	draft.Subject = NormalizeSubject(finish.CommitMessage)
	draft.Body = strings.TrimSpace(finish.CommitBody)
	draft.Raw = result.Text
	if draft.Subject == "" {
		err = fmt.Errorf("%w: %s carried no message", ErrEmptySubject, FinishToolName)
		goto end
	}

	if args.Logger != nil {
		args.Logger.Debug("Agentic generation finished",
			"steps", len(result.Steps),
			"subject", draft.Subject,
		)
	}

end:
	return draft, err
}

func maxSteps(requested, fallback int) int {
	if requested > 0 {
		return requested
	}
	return fallback
}

// generatorTools builds the inspection tools plus the terminating tool.
// Execute funcs never fail; problems come back as tagged error payloads so
// one bad call cannot abort the exchange.
func generatorTools(args GeneratorArgs) []askai.Tool {
	return []askai.Tool{
		listStagedFilesTool(args.StagedFiles),
		readStagedFileTool(args.Repo),
		readStagedFileDiffsTool(args.Repo),
		recentExamplesTool(args.Repo),
		{
			Name:        FinishToolName,
			Description: "Submit the final commit message. Calling this tool ends the conversation.",
			Schema: askai.ObjectSchema(map[string]askai.Property{
				"commitMessage": askai.StringProperty("The commit subject line"),
				"commitBody":    askai.StringProperty("Optional commit body; empty when not needed"),
			}, "commitMessage"),
			Execute: func(context.Context, json.RawMessage) any {
				return map[string]string{"status": "received"}
			},
		},
	}
}

func listStagedFilesTool(files []string) askai.Tool {
	return askai.Tool{
		Name:        "listStagedFiles",
		Description: "List the file paths staged for this commit.",
		Schema:      askai.ObjectSchema(nil),
		Execute: func(context.Context, json.RawMessage) any {
			return map[string]any{"files": files}
		},
	}
}

func readStagedFileTool(repo *gitutils.Repo) askai.Tool {
	type readArgs struct {
		FilePath  string `json:"filePath"`
		StartLine int    `json:"startLine"`
		LineCount int    `json:"lineCount"`
	}
	return askai.Tool{
		Name:        "readStagedFile",
		Description: "Read a line-range slice of one staged file's content. Lines are 1-based; omit startLine/lineCount for the whole file.",
		Schema: askai.ObjectSchema(map[string]askai.Property{
			"filePath":  askai.StringProperty("Path of the staged file, relative to the repository root"),
			"startLine": askai.IntProperty("First line to read (1-based)"),
			"lineCount": askai.IntProperty("Number of lines to read"),
		}, "filePath"),
		Execute: func(ctx context.Context, raw json.RawMessage) any {
			var in readArgs
			if err := decodeJSON(raw, &in); err != nil {
				return askai.ErrorResult{Error: err.Error()}
			}
			content, err := repo.StagedFileContent(ctx, in.FilePath)
			if err != nil {
				return askai.ErrorResult{Error: err.Error()}
			}
			return map[string]any{
				"filePath": in.FilePath,
				"content":  sliceLines(content, in.StartLine, in.LineCount),
			}
		},
	}
}

func readStagedFileDiffsTool(repo *gitutils.Repo) askai.Tool {
	type diffArgs struct {
		FilePaths []string `json:"filePaths"`
	}
	type fileDiff struct {
		FilePath string `json:"filePath"`
		Diff     string `json:"diff,omitempty"`
		Error    string `json:"error,omitempty"`
	}
	return askai.Tool{
		Name:        "readStagedFileDiffs",
		Description: "Read the staged diff for one or more files in a single call.",
		Schema: askai.ObjectSchema(map[string]askai.Property{
			"filePaths": askai.ArrayProperty("Paths of staged files to diff", askai.StringProperty("file path")),
		}, "filePaths"),
		Execute: func(ctx context.Context, raw json.RawMessage) any {
			var in diffArgs
			if err := decodeJSON(raw, &in); err != nil {
				return askai.ErrorResult{Error: err.Error()}
			}
			diffs := make([]fileDiff, 0, len(in.FilePaths))
			for _, path := range in.FilePaths {
				entry := fileDiff{FilePath: path}
				diff, err := repo.GetFileDiff(ctx, path)
				switch {
				case err != nil:
					entry.Error = err.Error()
				case diff == "":
					entry.Diff = "no changes"
				default:
					entry.Diff = diff
				}
				diffs = append(diffs, entry)
			}
			return map[string]any{"diffs": diffs}
		},
	}
}

func recentExamplesTool(repo *gitutils.Repo) askai.Tool {
	type exampleArgs struct {
		Count int `json:"count"`
	}
	return askai.Tool{
		Name:        "getRecentCommitMessageExamples",
		Description: "Fetch up to count recent commit subject lines as style examples.",
		Schema: askai.ObjectSchema(map[string]askai.Property{
			"count": askai.IntProperty("Maximum number of examples to return"),
		}),
		Execute: func(ctx context.Context, raw json.RawMessage) any {
			var in exampleArgs
			if err := decodeJSON(raw, &in); err != nil {
				return askai.ErrorResult{Error: err.Error()}
			}
			if in.Count <= 0 {
				in.Count = 10
			}
			// Never fails; an empty repository yields an empty list.
			return map[string]any{
				"examples": repo.GetRecentCommitMessages(ctx, in.Count),
			}
		},
	}
}

func decodeJSON(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	return json.Unmarshal(raw, out)
}

func sliceLines(content string, startLine, lineCount int) string {
	if startLine <= 0 && lineCount <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	if startLine <= 0 {
		startLine = 1
	}
	if startLine > len(lines) {
		return ""
	}
	end := len(lines)
	if lineCount > 0 && startLine-1+lineCount < end {
		end = startLine - 1 + lineCount
	}
	return strings.Join(lines[startLine-1:end], "\n")
}
