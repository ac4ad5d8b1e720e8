package quillcmds

import (
	"context"
	"errors"
	"os"

	"github.com/gitquill/gitquill/quillpkg/commitmsg"
	"github.com/gitquill/gitquill/quillpkg/gitutils"
)

const recentExampleCount = 10

// openRepo opens the repository containing the current directory.
func openRepo() (repo *gitutils.Repo, err error) {
	var cwd string

	cwd, err = os.Getwd()
	if err != nil {
		err = userErr("finding working directory", err)
		goto end
	}

	repo, err = gitutils.Open(cwd)
	if err != nil {
		if errors.Is(err, gitutils.ErrNotGitRepo) {
			err = userErr("not a git repository", err)
			goto end
		}
		err = userErr("opening repository", err)
		goto end
	}

end:
	return repo, err
}

// collectStagedDiff stages everything when --stage-all is set, then returns
// the staged diff honoring the profile's exclude globs and context width.
func collectStagedDiff(ctx context.Context, repo *gitutils.Repo) (diff gitutils.StagedDiff, err error) {
	var ok bool

	if flags.stageAll {
		err = repo.StageAll(ctx)
		if err != nil {
			err = userErr("staging changes", err)
			goto end
		}
	}

	diff, ok, err = repo.GetStagedDiff(ctx, gitutils.StagedDiffArgs{
		ExcludeGlobs: profile.ExcludeGlobs,
		ContextLines: profile.ContextLines,
	})
	if err != nil {
		err = userErr("reading staged diff", err)
		goto end
	}
	if !ok {
		err = userErrGuide("no staged changes",
			"Stage files with git add, or pass --stage-all to stage everything.", nil)
		goto end
	}

end:
	return diff, err
}

// basePromptArgs builds the prompt parameters shared by every generation
// path.
func basePromptArgs(ctx context.Context, repo *gitutils.Repo, diffText string) commitmsg.PromptArgs {
	return commitmsg.PromptArgs{
		Locale:          profile.Locale,
		MaxSubjectChars: profile.MaxSubjectLength,
		Type:            profile.Type,
		Branch:          repo.Branch,
		Diff:            diffText,
		RecentSubjects:  repo.GetRecentCommitMessages(ctx, recentExampleCount),
	}
}

// commitDraft performs the final commit unless --dry-run is set.
func commitDraft(ctx context.Context, repo *gitutils.Repo, draft commitmsg.Draft) (err error) {
	if flags.dryRun {
		return nil
	}
	err = repo.Commit(ctx, draft.Message())
	if err != nil {
		err = userErr("failed to commit", err)
	}
	return err
}
