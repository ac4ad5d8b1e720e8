package gitutils

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// Repo is an exec-based wrapper around a single git working tree.
// All operations run git with the repo root as working directory.
type Repo struct {
	Root   string
	Branch string
}

// Open locates the repository containing dir and returns a Repo positioned
// at its root. Fails with ErrNotGitRepo when dir is not inside a work tree.
func Open(dir string) (repo *Repo, err error) {
	var root string
	var out []byte

	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	out, err = cmd.Output()
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrNotGitRepo, dir)
		goto end
	}

	root = string(bytes.TrimSpace(out))
	if root == "" {
		err = fmt.Errorf("%w: %s", ErrNotGitRepo, dir)
		goto end
	}
	repo = &Repo{
		Root: root,
	}

	// Branch is informational; a detached HEAD reports "HEAD".
	repo.Branch, err = repo.currentBranch()

end:
	return repo, err
}

// runGit runs git with the given arguments in the repo root and returns stdout.
// Stderr is folded into the returned error on failure.
func (r *Repo) runGit(ctx context.Context, args ...string) (out string, err error) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Root
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			err = fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		} else {
			err = fmt.Errorf("git %s: %w", args[0], err)
		}
		goto end
	}
	out = stdout.String()

end:
	return out, err
}

func (r *Repo) currentBranch() (branch string, err error) {
	var out string
	out, err = r.runGit(context.Background(), "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		goto end
	}
	branch = strings.TrimSpace(out)
end:
	return branch, err
}

// IsDirty reports whether the work tree or index has any uncommitted changes.
func (r *Repo) IsDirty(ctx context.Context) (dirty bool, err error) {
	out, err := r.runGit(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Status returns the structured staged/modified/untracked lists.
func (r *Repo) Status(ctx context.Context) (rs RepoStatus, err error) {
	var out string
	var statuses StatusMap

	out, err = r.runGit(ctx, "status", "--porcelain")
	if err != nil {
		goto end
	}

	statuses, err = ParseStatus(out)
	if err != nil {
		goto end
	}
	rs = GroupStatus(statuses)

end:
	return rs, err
}

// GetStagedFiles returns the list of files currently staged in the index.
func (r *Repo) GetStagedFiles(ctx context.Context) (files []string, err error) {
	var out string

	out, err = r.runGit(ctx, "diff", "--cached", "--name-only")
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

// StagedFileContent returns the staged (index) version of one file using the
// `git show :path` syntax. Fails for files staged for deletion.
func (r *Repo) StagedFileContent(ctx context.Context, relPath string) (content string, err error) {
	content, err = r.runGit(ctx, "show", fmt.Sprintf(":%s", relPath))
	return content, err
}

func sortStrings(ss []string) {
	sort.Strings(ss)
}
