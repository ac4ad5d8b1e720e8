package quillcmds

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitquill/gitquill/quillpkg/askai"
	"github.com/gitquill/gitquill/quillpkg/commitmsg"
	"github.com/gitquill/gitquill/quillpkg/gitutils"
	"github.com/gitquill/gitquill/quillpkg/quillcliui"
	"github.com/gitquill/gitquill/quillpkg/review"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Let the model inspect the staged changes with tools before writing the message",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgent(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(agentCmd)
}

func runAgent(ctx context.Context) (err error) {
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

	draft, err = generateAgentic(ctx, repo, agent, prompt, diff.Files)
	if err != nil {
		goto end
	}

	outcome, draft, err = review.Run(ctx, review.RunArgs{
		Draft:    draft,
		Prompter: &quillcliui.TerminalPrompter{Writer: os.Stdout},
		Regenerate: func(ctx context.Context, instructions string) (commitmsg.Draft, error) {
			revised := prompt
			revised.Instructions = instructions
			return generateAgentic(ctx, repo, agent, revised, diff.Files)
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

// generateAgentic runs the tool loop with live progress. Providers without
// tool support fall back to the quick two-completion path.
func generateAgentic(ctx context.Context, repo *gitutils.Repo, agent *askai.Agent, prompt commitmsg.PromptArgs, stagedFiles []string) (draft commitmsg.Draft, err error) {
	var progress *quillcliui.Progress

	if !agent.SupportsAgentic() {
		quillcliui.DisplayNote("Provider "+profile.Provider+" has no tool support; using single-shot generation.", os.Stdout)
		draft, err = commitmsg.QuickGenerate(ctx, commitmsg.QuickArgs{
			Agent:  agent,
			Model:  profile.Model,
			Prompt: prompt,
		})
		goto end
	}

	progress = quillcliui.StartProgress("Inspecting staged changes...", os.Stdout)
	draft, err = commitmsg.Generate(ctx, commitmsg.GeneratorArgs{
		Repo:        repo,
		Agent:       agent,
		Model:       profile.Model,
		Prompt:      prompt,
		StagedFiles: stagedFiles,
		OnEvent:     progress.Sink(),
		Logger:      logger,
	})
	progress.Stop()

	if err != nil {
		if errors.Is(err, commitmsg.ErrNoFinishCall) {
			err = userErrGuide("generation failed",
				"The model never submitted a final message. Re-run the command to retry.", err)
			goto end
		}
		err = userErrGuide("generating commit message",
			providerGuidance(profile.Provider), err)
		goto end
	}

end:
	return draft, err
}
