// Package quillcmds implements the gitquill command tree. Exit codes: 0 on
// success or user cancel, 1 on any handled failure.
package quillcmds

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitquill/gitquill/quillpkg/askai"
	"github.com/gitquill/gitquill/quillpkg/quillcfg"
	"github.com/gitquill/gitquill/quillpkg/quillcliui"
)

var flags struct {
	profile      string
	provider     string
	model        string
	apiKey       string
	baseURL      string
	locale       string
	maxLength    int
	contextLines int
	exclude      []string
	stageAll     bool
	dryRun       bool
	quiet        bool
	verbose      bool
}

// profile holds the resolved configuration, populated in PersistentPreRunE
// and immutable for the rest of the session.
var profile quillcfg.Profile

var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:           "gitquill",
	Short:         "AI-assisted commit messages, commit splitting, and pull requests",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(flags.quiet, flags.verbose)

		// Version needs no provider configuration.
		if cmd.Name() == "version" {
			return nil
		}

		cfg, err := quillcfg.Load("")
		if err != nil {
			return userErr("loading configuration", err)
		}

		profile, err = quillcfg.Resolve(cfg, quillcfg.Overrides{
			Profile:      flags.profile,
			Provider:     flags.provider,
			Model:        flags.model,
			APIKey:       flags.apiKey,
			BaseURL:      flags.baseURL,
			Locale:       flags.locale,
			MaxLength:    flags.maxLength,
			ContextLines: flags.contextLines,
			Exclude:      flags.exclude,
		})
		if err != nil {
			return userErr("resolving profile", err)
		}

		logger.Debug("Profile resolved",
			"profile", profile.Name,
			"provider", profile.Provider,
			"model", profile.Model,
		)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.profile, "profile", "", "configuration profile to use")
	pf.StringVar(&flags.provider, "provider", "", "completion provider (openai, gemini, claude-cli)")
	pf.StringVar(&flags.model, "model", "", "model to request")
	pf.StringVar(&flags.apiKey, "api-key", "", "provider API key")
	pf.StringVar(&flags.baseURL, "base-url", "", "override the provider endpoint")
	pf.StringVar(&flags.locale, "locale", "", "language for generated messages")
	pf.IntVar(&flags.maxLength, "max-length", 0, "maximum subject line length")
	pf.IntVar(&flags.contextLines, "context-lines", 0, "diff context line width")
	pf.StringSliceVar(&flags.exclude, "exclude", nil, "glob patterns to exclude from the diff")
	pf.BoolVarP(&flags.stageAll, "stage-all", "a", false, "stage all changes before generating")
	pf.BoolVar(&flags.dryRun, "dry-run", false, "show what would be committed without committing")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "only print errors and the final result")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger(quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Execute runs the command tree and maps errors onto exit codes.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if errors.Is(err, ErrCancel) {
		// User-driven cancellation is a clean exit
		os.Exit(0)
	}

	var ue *UserError
	if errors.As(err, &ue) {
		quillcliui.DisplayError(ue.Error(), os.Stderr)
		if ue.Guidance != "" {
			fmt.Fprintf(os.Stderr, "\n%s\n", ue.Guidance)
		}
		os.Exit(1)
	}

	quillcliui.DisplayError(err.Error(), os.Stderr)
	os.Exit(1)
}

// newAgent builds the provider and agent from the resolved profile.
func newAgent() (agent *askai.Agent, err error) {
	var provider askai.Provider

	provider, err = askai.NewProvider(askai.ProviderConfig{
		Name:           profile.Provider,
		APIKey:         profile.APIKey,
		BaseURL:        profile.BaseURL,
		TimeoutSeconds: profile.TimeoutSeconds,
	})
	if err != nil {
		err = userErrGuide("configuring provider",
			providerGuidance(profile.Provider), err)
		goto end
	}

	agent = askai.NewAgent(askai.AgentArgs{
		Provider:       provider,
		TimeoutSeconds: profile.TimeoutSeconds,
	})

end:
	return agent, err
}

func providerGuidance(name string) string {
	switch name {
	case "openai":
		return "Set your API key with GITQUILL_API_KEY, --api-key, or api_key in ~/.config/gitquill/config.yaml.\nFor OpenAI-compatible servers also set base_url."
	case "gemini":
		return "Set your Gemini API key with GITQUILL_API_KEY, --api-key, or api_key in ~/.config/gitquill/config.yaml."
	case "claude-cli":
		return "Install the Claude Code CLI and sign in; gitquill shells out to the claude executable."
	}
	return "Supported providers: openai, gemini, claude-cli."
}
