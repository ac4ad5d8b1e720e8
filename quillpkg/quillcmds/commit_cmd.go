package quillcmds

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitquill/gitquill/quillpkg/askai"
	"github.com/gitquill/gitquill/quillpkg/commitmsg"
	"github.com/gitquill/gitquill/quillpkg/gitutils"
	"github.com/gitquill/gitquill/quillpkg/quillcliui"
	"github.com/gitquill/gitquill/quillpkg/review"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Generate a commit message for the staged changes and commit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommit(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(commitCmd)
}

func runCommit(ctx context.Context) (err error) {
	var repo *gitutils.Repo
	var diff gitutils.StagedDiff
	var agent *askai.Agent
	var draft commitmsg.Draft
	var outcome review.Outcome
	var prompt commitmsg.PromptArgs

	repo, err = openRepo()
	if err != nil {
		goto end
	}

	diff, err = collectStagedDiff(ctx, repo)
	if err != nil {
		goto end
	}

	agent, err = newAgent()
	if err != nil {
		goto end
	}

	prompt = basePromptArgs(ctx, repo, diff.DiffText)

	quillcliui.DisplayNote("Generating commit message...", os.Stdout)
	draft, err = commitmsg.QuickGenerate(ctx, commitmsg.QuickArgs{
		Agent:  agent,
		Model:  profile.Model,
		Prompt: prompt,
	})
	if err != nil {
		err = userErrGuide("generating commit message",
			providerGuidance(profile.Provider), err)
		goto end
	}

	outcome, draft, err = review.Run(ctx, review.RunArgs{
		Draft:    draft,
		Prompter: &quillcliui.TerminalPrompter{Writer: os.Stdout},
		Regenerate: func(ctx context.Context, instructions string) (commitmsg.Draft, error) {
			revised := prompt
			revised.Instructions = instructions
			return commitmsg.QuickGenerate(ctx, commitmsg.QuickArgs{
				Agent:  agent,
				Model:  profile.Model,
				Prompt: revised,
			})
		},
		Writer: os.Stdout,
		Logger: logger,
	})
	if err != nil {
		err = userErr("reviewing commit message", err)
		goto end
	}
	if outcome != review.OutcomeAccepted {
		quillcliui.DisplayNote("Nothing committed.", os.Stdout)
		err = ErrCancel
		goto end
	}

	err = commitDraft(ctx, repo, draft)
	if err != nil {
		goto end
	}

	if flags.dryRun {
		quillcliui.DisplaySuccess("Dry run: message accepted, nothing committed", os.Stdout)
	} else {
		quillcliui.DisplaySuccess("Committed: "+draft.Subject, os.Stdout)
	}

end:
	return err
}
