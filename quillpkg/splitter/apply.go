package splitter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/gitquill/gitquill/quillpkg/gitutils"
)

// Granularity selects how a group's hunks reach the index.
type Granularity int

const (
	// FileGranularity stages whole files touched by the group
	FileGranularity Granularity = iota

	// PatchGranularity applies only the group's hunks as a cached patch
	PatchGranularity
)

// ApplyArgs contains arguments for Apply.
type ApplyArgs struct {
	Repo        *gitutils.Repo
	Proposal    Proposal
	Snapshot    []gitutils.ChangeHunk
	Granularity Granularity

	// DryRun reports what would be committed without touching the repo
	DryRun bool

	Writer io.Writer
	Logger *slog.Logger
}

// Applied describes one group that was committed.
type Applied struct {
	Group CommitGroup
	Files []string
}

// Apply turns an accepted proposal into commits, one group at a time in the
// order supplied: reset staged state, stage the group, commit, move on. A
// staging or commit failure aborts further application; groups already
// committed remain committed.
func Apply(ctx context.Context, args ApplyArgs) (applied []Applied, err error) {
	byID := make(map[string]gitutils.ChangeHunk, len(args.Snapshot))
	for _, h := range args.Snapshot {
		byID[h.ID] = h
	}

	for i, group := range args.Proposal.Groups {
		files := group.Files()

		if args.DryRun {
			fmt.Fprintf(args.Writer, "[dry-run] commit %d/%d: %s (%d files)\n",
				i+1, len(args.Proposal.Groups), group.Title, len(files))
			applied = append(applied, Applied{Group: group, Files: files})
			continue
		}

		_ = args.Repo.ResetAllStaged(ctx)

		err = stageGroup(ctx, args, group, byID)
		if err != nil {
			err = fmt.Errorf("%w: staging group %q: %v", ErrApplyAborted, group.ID, err)
			goto end
		}

		err = args.Repo.Commit(ctx, group.Message())
		if err != nil {
			err = fmt.Errorf("%w: committing group %q: %v", ErrApplyAborted, group.ID, err)
			goto end
		}

		if args.Logger != nil {
			args.Logger.Info("Committed group",
				"group", group.ID,
				"title", group.Title,
				"files", len(files),
			)
		}
		fmt.Fprintf(args.Writer, "Committed %d/%d: %s\n",
			i+1, len(args.Proposal.Groups), group.Title)

		applied = append(applied, Applied{Group: group, Files: files})
	}

end:
	return applied, err
}

func stageGroup(ctx context.Context, args ApplyArgs, group CommitGroup, byID map[string]gitutils.ChangeHunk) (err error) {
	var hunks []gitutils.ChangeHunk

	if args.Granularity == FileGranularity {
		err = args.Repo.StageFiles(ctx, group.Files()...)
		goto end
	}

	for _, ref := range group.Hunks {
		h, ok := byID[ref.HunkID]
		if !ok {
			err = fmt.Errorf("hunk %s not in snapshot", ref.HunkID)
			goto end
		}
		hunks = append(hunks, h)
	}
	err = args.Repo.ApplyHunkPatch(ctx, hunks)

end:
	return err
}
