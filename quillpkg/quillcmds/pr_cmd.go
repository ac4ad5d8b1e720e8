package quillcmds

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/gitquill/gitquill/quillpkg/askai"
	"github.com/gitquill/gitquill/quillpkg/commitmsg"
	"github.com/gitquill/gitquill/quillpkg/gitutils"
	"github.com/gitquill/gitquill/quillpkg/quillcliui"
)

const prHistoryCount = 20

var prBase string

var prCmd = &cobra.Command{
	Use:   "pr",
	Short: "Generate a pull request title and description and open it with gh",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPR(cmd.Context())
	},
}

func init() {
	prCmd.Flags().StringVar(&prBase, "base", "", "base branch for the pull request")
	rootCmd.AddCommand(prCmd)
}

func runPR(ctx context.Context) (err error) {
	var repo *gitutils.Repo
	var agent *askai.Agent
	var commits []gitutils.CommitInfo
	var subjects []string
	var pr commitmsg.PullRequest
	var prompt commitmsg.PromptArgs

	repo, err = openRepo()
	if err != nil {
		goto end
	}

	commits, err = repo.GetCommitHistory(ctx, prHistoryCount)
	if err != nil {
		err = userErr("reading commit history", err)
		goto end
	}
	if len(commits) == 0 {
		err = userErr("no commits to open a pull request for", nil)
		goto end
	}
	for _, c := range commits {
		subjects = append(subjects, c.Subject)
	}

	agent, err = newAgent()
	if err != nil {
		goto end
	}

	prompt = basePromptArgs(ctx, repo, "")
	prompt.RecentSubjects = subjects

	quillcliui.DisplayNote("Generating pull request...", os.Stdout)
	pr, err = commitmsg.GeneratePullRequest(ctx, commitmsg.PullRequestArgs{
		Agent:  agent,
		Model:  profile.Model,
		Prompt: prompt,
	})
	if err != nil {
		err = userErrGuide("generating pull request",
			providerGuidance(profile.Provider), err)
		goto end
	}

	quillcliui.DisplayBox(pr.Title, pr.Description, os.Stdout)

	if flags.dryRun {
		quillcliui.DisplaySuccess("Dry run: pull request not opened", os.Stdout)
		goto end
	}

	err = openPullRequest(ctx, pr)
	if err != nil {
		goto end
	}
	quillcliui.DisplaySuccess("Pull request opened", os.Stdout)

end:
	return err
}

// openPullRequest shells out to the GitHub CLI.
func openPullRequest(ctx context.Context, pr commitmsg.PullRequest) (err error) {
	var cmd *exec.Cmd
	var stderr bytes.Buffer
	var args []string

	_, err = exec.LookPath("gh")
	if err != nil {
		err = userErrGuide("gh not found",
			"Install the GitHub CLI (https://cli.github.com) and run gh auth login.", err)
		goto end
	}

	args = []string{"pr", "create", "--title", pr.Title, "--body", pr.Description}
	if prBase != "" {
		args = append(args, "--base", prBase)
	}

	cmd = exec.CommandContext(ctx, "gh", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr
	err = cmd.Run()
	if err != nil {
		err = userErr(fmt.Sprintf("gh pr create failed: %s", bytes.TrimSpace(stderr.Bytes())), err)
		goto end
	}

end:
	return err
}
