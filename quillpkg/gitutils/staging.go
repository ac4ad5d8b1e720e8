package gitutils

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// StageAll stages every change in the work tree, untracked files included.
func (r *Repo) StageAll(ctx context.Context) (err error) {
	_, err = r.runGit(ctx, "add", "-A")
	return err
}

// StageFiles stages the specified files or directories.
func (r *Repo) StageFiles(ctx context.Context, paths ...string) (err error) {
	var args []string

	if len(paths) == 0 {
		goto end
	}

	args = append([]string{"add", "--"}, paths...)
	_, err = r.runGit(ctx, args...)

end:
	return err
}

// UnstageFiles removes the specified files from the index, leaving the
// work tree untouched.
func (r *Repo) UnstageFiles(ctx context.Context, paths ...string) (err error) {
	var args []string

	if len(paths) == 0 {
		goto end
	}

	args = append([]string{"restore", "--staged", "--"}, paths...)
	_, err = r.runGit(ctx, args...)

end:
	return err
}

// ResetAllStaged unstages everything. A repository with nothing staged is
// not an error.
func (r *Repo) ResetAllStaged(ctx context.Context) (err error) {
	_, err = r.runGit(ctx, "restore", "--staged", ".")
	if err != nil {
		// Nothing staged yet; restore complains on an empty index in
		// a repo without commits.
		err = nil
	}
	return err
}

// Commit commits the staged changes with the given message.
func (r *Repo) Commit(ctx context.Context, message string) (err error) {
	_, err = r.runGit(ctx, "commit", "-m", message)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	return err
}

// StageSelectedHunks stages the hunks' files at file granularity: every file
// touched by at least one hunk is staged whole. Callers that need byte-exact
// hunk application use ApplyHunkPatch instead.
func (r *Repo) StageSelectedHunks(ctx context.Context, hunks []ChangeHunk) (err error) {
	var files []string

	seen := make(map[string]bool, len(hunks))
	for _, h := range hunks {
		if seen[h.File] {
			continue
		}
		seen[h.File] = true
		files = append(files, h.File)
	}

	err = r.StageFiles(ctx, files...)
	return err
}

// ApplyHunkPatch stages exactly the given hunks by reconstructing a unified
// diff and feeding it to `git apply --cached`. The hunks must come from a
// current working-tree snapshot; a stale snapshot makes the patch fail.
func (r *Repo) ApplyHunkPatch(ctx context.Context, hunks []ChangeHunk) (err error) {
	var patch string

	if len(hunks) == 0 {
		goto end
	}

	patch = FormatPatch(hunks)
	err = r.applyCached(ctx, patch)

end:
	return err
}

func (r *Repo) applyCached(ctx context.Context, patch string) (err error) {
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, "git", "apply", "--cached", "-")
	cmd.Dir = r.Root
	cmd.Stdin = strings.NewReader(patch)
	cmd.Stderr = &stderr

	err = cmd.Run()
	if err != nil {
		err = fmt.Errorf("git apply --cached: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return err
}
