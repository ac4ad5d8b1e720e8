package gitutils

import (
	"fmt"
	"strings"
)

// FileStatus represents the status of a file from git status --porcelain.
// The two-character status format is: XY filename
// where X is the index status (position 0) and Y is the working tree status (position 1).
type FileStatus struct {
	StagedChange   ChangeType // Status in index (position 0)
	UnstagedChange ChangeType // Status in working tree (position 1)
	Staging        Staging    // Derived staging state
}

type StatusMap map[string]FileStatus

// RepoStatus groups the porcelain output into the three lists callers care about.
type RepoStatus struct {
	Staged    []string
	Modified  []string
	Untracked []string
}

// ParseStatus parses git status --porcelain output into a map of file statuses.
// Format of git status --porcelain:
//
//	XY filename
//	where X = index status (position 0), Y = worktree status (position 1)
//
// Examples:
//
//	"MM file.txt"     -> staged M, unstaged M
//	" M file.txt"     -> no staged change, unstaged M
//	"A  newfile.txt"  -> staged A, no unstaged change
//	"?? untracked.txt"-> untracked (both positions are '?')
func ParseStatus(output string) (statuses StatusMap, err error) {
	var lines []string

	statuses = make(StatusMap)

	lines = strings.Split(output, "\n")
	for _, line := range lines {
		var fp string
		var status FileStatus

		if len(line) < 4 {
			// Invalid line format - skip
			continue
		}

		fp, status, err = ParseStatusLine(line)
		if err != nil {
			goto end
		}
		statuses[fp] = status
	}

end:
	return statuses, err
}

// ParseStatusLine parses a single "XY filename" porcelain line.
func ParseStatusLine(line string) (fp string, status FileStatus, err error) {
	var stagedChange, unstagedChange ChangeType

	if len(line) < 4 {
		err = fmt.Errorf("porcelain line too short: %q", line)
		goto end
	}
	fp = strings.TrimSpace(line[3:])

	// Rename lines read "R  old -> new"; the new path is what callers stage.
	if idx := strings.Index(fp, " -> "); idx >= 0 {
		fp = fp[idx+4:]
	}

	// Parse position 0 (index/staged)
	stagedChange, err = ParseChangeType(line[0])
	if err != nil {
		goto end
	}

	// Parse position 1 (worktree/unstaged)
	unstagedChange, err = ParseChangeType(line[1])
	if err != nil {
		goto end
	}

	status = FileStatus{
		StagedChange:   stagedChange,
		UnstagedChange: unstagedChange,
		Staging:        ParseStaging(stagedChange, unstagedChange),
	}

end:
	return fp, status, err
}

// GroupStatus converts a StatusMap into the staged/modified/untracked lists.
func GroupStatus(statuses StatusMap) (rs RepoStatus) {
	for fp, status := range statuses {
		if status.StagedChange == UntrackedChangeType {
			rs.Untracked = append(rs.Untracked, fp)
			continue
		}
		if status.StagedChange != UnknownChangeType {
			rs.Staged = append(rs.Staged, fp)
		}
		if status.UnstagedChange != UnknownChangeType {
			rs.Modified = append(rs.Modified, fp)
		}
	}
	sortStrings(rs.Staged)
	sortStrings(rs.Modified)
	sortStrings(rs.Untracked)
	return rs
}
