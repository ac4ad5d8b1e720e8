package gitutils

import (
	"context"
	"fmt"
	"strings"
)

// DefaultContextLines matches git's own default unified-diff context width.
const DefaultContextLines = 3

// StagedDiffArgs contains arguments for StagedDiff.
type StagedDiffArgs struct {
	// ExcludeGlobs are pathspec globs removed from the diff, e.g. "*.lock".
	ExcludeGlobs []string

	// ContextLines is the unified-diff context width (0 means git default).
	ContextLines int
}

// StagedDiff is the snapshot of the index handed to generation.
type StagedDiff struct {
	Files    []string
	DiffText string
}

// GetStagedDiff returns the diff of staged changes, honoring exclude globs
// and the requested context width. Returns ok=false when nothing is staged
// after exclusions.
func (r *Repo) GetStagedDiff(ctx context.Context, args StagedDiffArgs) (diff StagedDiff, ok bool, err error) {
	var out string
	var gitArgs []string

	gitArgs = []string{"diff", "--cached"}
	if args.ContextLines > 0 {
		gitArgs = append(gitArgs, fmt.Sprintf("-U%d", args.ContextLines))
	}
	gitArgs = appendExcludePathspec(gitArgs, args.ExcludeGlobs)

	out, err = r.runGit(ctx, gitArgs...)
	if err != nil {
		goto end
	}
	if strings.TrimSpace(out) == "" {
		goto end
	}

	diff.DiffText = out
	diff.Files, err = r.stagedFilesExcluding(ctx, args.ExcludeGlobs)
	if err != nil {
		goto end
	}
	ok = len(diff.Files) > 0

end:
	return diff, ok, err
}

// GetWorkingDiff returns the diff of unstaged working-tree changes.
// Returns ok=false when the working tree is clean relative to the index.
func (r *Repo) GetWorkingDiff(ctx context.Context, contextLines int) (diff string, ok bool, err error) {
	var gitArgs []string

	gitArgs = []string{"diff"}
	if contextLines > 0 {
		gitArgs = append(gitArgs, fmt.Sprintf("-U%d", contextLines))
	}

	diff, err = r.runGit(ctx, gitArgs...)
	if err != nil {
		goto end
	}
	ok = strings.TrimSpace(diff) != ""

end:
	return diff, ok, err
}

// GetFileDiff returns the staged diff for a single file, or "" when the file
// has no staged changes.
func (r *Repo) GetFileDiff(ctx context.Context, relPath string) (diff string, err error) {
	diff, err = r.runGit(ctx, "diff", "--cached", "--", relPath)
	return diff, err
}

func (r *Repo) stagedFilesExcluding(ctx context.Context, excludeGlobs []string) (files []string, err error) {
	var out string
	var gitArgs []string

	gitArgs = []string{"diff", "--cached", "--name-only"}
	gitArgs = appendExcludePathspec(gitArgs, excludeGlobs)

	out, err = r.runGit(ctx, gitArgs...)
	if err != nil {
		goto end
	}

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		files = append(files, line)
	}

end:
	return files, err
}

// appendExcludePathspec appends git pathspec magic for each exclude glob.
func appendExcludePathspec(args []string, globs []string) []string {
	if len(globs) == 0 {
		return args
	}
	args = append(args, "--", ".")
	for _, g := range globs {
		args = append(args, fmt.Sprintf(":(exclude)%s", g))
	}
	return args
}
