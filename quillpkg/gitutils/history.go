package gitutils

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CommitInfo contains metadata about one prior commit.
type CommitInfo struct {
	Hash    string
	Subject string
	Author  string
	Date    time.Time
}

// logFormat keeps fields tab-separated so subjects with punctuation survive.
const logFormat = "%H%x09%an%x09%aI%x09%s"

// GetCommitHistory returns up to count commits, newest first.
func (r *Repo) GetCommitHistory(ctx context.Context, count int) (commits []CommitInfo, err error) {
	return r.logHistory(ctx, count, "")
}

// GetFileCommitHistory returns up to count commits touching relPath, newest first.
func (r *Repo) GetFileCommitHistory(ctx context.Context, relPath string, count int) (commits []CommitInfo, err error) {
	return r.logHistory(ctx, count, relPath)
}

// GetRecentCommitMessages returns up to count prior subject lines, newest
// first. Never fails: a repository without commits yields an empty list.
func (r *Repo) GetRecentCommitMessages(ctx context.Context, count int) (subjects []string) {
	commits, err := r.GetCommitHistory(ctx, count)
	if err != nil {
		return nil
	}
	subjects = make([]string, 0, len(commits))
	for _, c := range commits {
		subjects = append(subjects, c.Subject)
	}
	return subjects
}

func (r *Repo) logHistory(ctx context.Context, count int, relPath string) (commits []CommitInfo, err error) {
	var out string
	var args []string

	args = []string{"log", fmt.Sprintf("-%d", count), "--pretty=format:" + logFormat}
	if relPath != "" {
		args = append(args, "--", relPath)
	}

	out, err = r.runGit(ctx, args...)
	if err != nil {
		// A repo with no commits yet is not an error worth surfacing here.
		if strings.Contains(err.Error(), "does not have any commits") {
			err = nil
		}
		goto end
	}

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 4)
		if len(fields) != 4 {
			continue
		}
		date, _ := time.Parse(time.RFC3339, fields[2])
		commits = append(commits, CommitInfo{
			Hash:    fields[0],
			Author:  fields[1],
			Date:    date,
			Subject: fields[3],
		})
	}

end:
	return commits, err
}
