package quillcmds

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitquill/gitquill/quillpkg/askai"
	"github.com/gitquill/gitquill/quillpkg/gitutils"
	"github.com/gitquill/gitquill/quillpkg/quillcliui"
	"github.com/gitquill/gitquill/quillpkg/splitter"
)

var splitPatchGranularity bool

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split the working changes into multiple logical commits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSplit(cmd.Context())
	},
}

func init() {
	splitCmd.Flags().BoolVar(&splitPatchGranularity, "patch", false,
		"stage each group's exact hunks instead of whole files")
	rootCmd.AddCommand(splitCmd)
}

func runSplit(ctx context.Context) (err error) {
	var repo *gitutils.Repo
	var agent *askai.Agent
	var snapshot []gitutils.ChangeHunk
	var proposal splitter.Proposal
	var applied []splitter.Applied
	var progress *quillcliui.Progress
	var choice int
	var granularity splitter.Granularity

	repo, err = openRepo()
	if err != nil {
		goto end
	}

	snapshot, err = repo.GetWorkingChangesAsHunks(ctx)
	if err != nil {
		err = userErr("reading working changes", err)
		goto end
	}
	if len(snapshot) == 0 {
		err = userErrGuide("no working changes to split",
			"Make some changes first; split looks at the uncommitted working tree.", nil)
		goto end
	}

	agent, err = newAgent()
	if err != nil {
		goto end
	}
	if !agent.SupportsAgentic() {
		err = userErrGuide("provider cannot split commits",
			"Splitting needs a tool-capable provider; use an OpenAI-compatible provider.", nil)
		goto end
	}

	progress = quillcliui.StartProgress("Negotiating commit groups...", os.Stdout)
	proposal, err = splitter.Negotiate(ctx, splitter.NegotiateArgs{
		Repo:     repo,
		Agent:    agent,
		Model:    profile.Model,
		Prompt:   basePromptArgs(ctx, repo, ""),
		Snapshot: snapshot,
		OnEvent:  progress.Sink(),
		Logger:   logger,
	})
	progress.Stop()
	if err != nil {
		err = userErr("negotiating commit groups", err)
		goto end
	}

	quillcliui.DisplayCommitGroups(proposal, os.Stdout)

	choice, err = quillcliui.ShowMenu(quillcliui.MenuArgs{
		Prompt: "Apply these groups?",
		Options: []quillcliui.MenuOption{
			{Label: "apply", Description: "Commit each group in order"},
			{Label: "cancel", Description: "Abandon without committing"},
		},
		Writer: os.Stdout,
	})
	if err != nil {
		err = userErr("reading selection", err)
		goto end
	}
	if choice != 0 {
		quillcliui.DisplayNote("Nothing committed.", os.Stdout)
		err = ErrCancel
		goto end
	}

	granularity = splitter.FileGranularity
	if splitPatchGranularity {
		granularity = splitter.PatchGranularity
	}

	applied, err = splitter.Apply(ctx, splitter.ApplyArgs{
		Repo:        repo,
		Proposal:    proposal,
		Snapshot:    snapshot,
		Granularity: granularity,
		DryRun:      flags.dryRun,
		Writer:      os.Stdout,
		Logger:      logger,
	})
	if err != nil {
		if len(applied) > 0 {
			quillcliui.DisplayWarning("Application aborted; earlier groups remain committed.", os.Stdout)
		}
		err = userErr("applying commit groups", err)
		goto end
	}

	quillcliui.DisplaySuccess("Created commits for all groups", os.Stdout)

end:
	return err
}
