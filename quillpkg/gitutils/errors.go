package gitutils

import "errors"

var (
	ErrNotGitRepo           = errors.New("not a git repository")
	ErrCommitFailed         = errors.New("failed to commit")
	ErrNoChanges            = errors.New("no changes")
	ErrInvalidGitStatusCode = errors.New("invalid git status code")
	ErrStdErrOutput         = errors.New("stderr output occurred")
)
