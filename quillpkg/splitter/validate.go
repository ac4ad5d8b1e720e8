package splitter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gitquill/gitquill/quillpkg/gitutils"
)

// ValidateProposal checks a proposal against the hunk snapshot it was built
// from. Every snapshot hunk id must appear in exactly one group; a partition
// violating completeness or exclusivity is rejected before any commit is
// applied.
func ValidateProposal(proposal Proposal, snapshot []gitutils.ChangeHunk) (err error) {
	var missing, unknown, duplicated []string

	if len(proposal.Groups) == 0 {
		err = fmt.Errorf("%w: no groups", ErrInvalidProposal)
		goto end
	}
	if strings.TrimSpace(proposal.Explanation) == "" {
		err = fmt.Errorf("%w: missing explanation", ErrInvalidProposal)
		goto end
	}
	for _, g := range proposal.Groups {
		if strings.TrimSpace(g.Title) == "" {
			err = fmt.Errorf("%w: group %q has no title", ErrInvalidProposal, g.ID)
			goto end
		}
		if len(g.Hunks) == 0 {
			err = fmt.Errorf("%w: group %q has no hunks", ErrInvalidProposal, g.ID)
			goto end
		}
	}

	missing, unknown, duplicated = partitionDefects(proposal, snapshot)
	if len(duplicated) > 0 {
		err = fmt.Errorf("%w: hunks assigned to multiple groups: %s",
			ErrInvalidProposal, strings.Join(duplicated, ", "))
		goto end
	}
	if len(unknown) > 0 {
		err = fmt.Errorf("%w: unknown hunk ids: %s",
			ErrInvalidProposal, strings.Join(unknown, ", "))
		goto end
	}
	if len(missing) > 0 {
		err = fmt.Errorf("%w: unassigned hunks: %s",
			ErrInvalidProposal, strings.Join(missing, ", "))
		goto end
	}

end:
	return err
}

// partitionDefects compares the proposal's hunk ids against the snapshot's.
func partitionDefects(proposal Proposal, snapshot []gitutils.ChangeHunk) (missing, unknown, duplicated []string) {
	known := make(map[string]bool, len(snapshot))
	for _, h := range snapshot {
		known[h.ID] = true
	}

	assigned := make(map[string]int)
	for _, g := range proposal.Groups {
		for _, ref := range g.Hunks {
			assigned[ref.HunkID]++
			if !known[ref.HunkID] {
				unknown = append(unknown, ref.HunkID)
			}
		}
	}
	for id, count := range assigned {
		if count > 1 {
			duplicated = append(duplicated, id)
		}
	}
	for _, h := range snapshot {
		if assigned[h.ID] == 0 {
			missing = append(missing, h.ID)
		}
	}

	sort.Strings(missing)
	sort.Strings(unknown)
	sort.Strings(duplicated)
	return missing, unknown, duplicated
}
