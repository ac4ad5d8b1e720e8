package splitter

import (
	"errors"
)

// Sentinel errors
var (
	// ErrSplitter is the base sentinel for all splitter package errors
	ErrSplitter = errors.New("error splitting changes")

	// ErrNoProposal indicates the conversation ended without the
	// proposing tool call
	ErrNoProposal = errors.New("no commit group proposal found")

	// ErrInvalidProposal indicates a proposal that fails validation
	ErrInvalidProposal = errors.New("invalid commit group proposal")

	// ErrApplyAborted indicates group application stopped partway;
	// groups already committed stay committed
	ErrApplyAborted = errors.New("group application aborted")
)

// HunkRef points a group at one hunk of the working-diff snapshot.
type HunkRef struct {
	// File is the path of the file owning the hunk
	File string `json:"file"`

	// HunkID is the snapshot-stable hunk identifier
	HunkID string `json:"hunkId"`

	// Summary is a short human description of the hunk
	Summary string `json:"summary"`
}

// CommitGroup is a proposed grouping of hunks destined for one commit.
// A group is never mutated after acceptance.
type CommitGroup struct {
	// ID is a short slug naming the group
	ID string `json:"id"`

	// Title becomes the commit subject
	Title string `json:"title"`

	// Description becomes the commit body
	Description string `json:"description"`

	// Hunks are the hunk references assigned to this group
	Hunks []HunkRef `json:"hunks"`

	// Priority orders groups: 1=high, 2=normal, 3=low
	Priority int `json:"priority"`

	// Justification explains why these hunks belong together
	Justification string `json:"justification"`
}

// Files returns the unique file paths touched by the group, in first-seen
// order.
func (g CommitGroup) Files() []string {
	seen := make(map[string]bool, len(g.Hunks))
	files := make([]string, 0, len(g.Hunks))
	for _, h := range g.Hunks {
		if seen[h.File] {
			continue
		}
		seen[h.File] = true
		files = append(files, h.File)
	}
	return files
}

// Message returns the commit message for the group.
func (g CommitGroup) Message() string {
	if g.Description == "" {
		return g.Title
	}
	return g.Title + "\n\n" + g.Description
}

// Proposal is a complete partition of a diff snapshot into commit groups.
type Proposal struct {
	Groups      []CommitGroup `json:"groups"`
	Explanation string        `json:"explanation"`
}
