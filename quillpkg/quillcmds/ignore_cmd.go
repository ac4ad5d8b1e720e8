package quillcmds

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitquill/gitquill/quillpkg/gitutils"
	"github.com/gitquill/gitquill/quillpkg/quillcfg"
	"github.com/gitquill/gitquill/quillpkg/quillcliui"
)

var ignoreGlobal bool

var ignoreCmd = &cobra.Command{
	Use:   "ignore",
	Short: "Manage patterns excluded from generated diffs",
}

var ignoreAddCmd = &cobra.Command{
	Use:   "add <pattern>",
	Short: "Exclude a pattern, locally via .git/info/exclude or globally via the profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIgnoreAdd(args[0])
	},
}

var ignoreListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active ignore patterns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIgnoreList()
	},
}

func init() {
	ignoreAddCmd.Flags().BoolVar(&ignoreGlobal, "global", false,
		"store the pattern in the profile instead of this repository")
	ignoreCmd.AddCommand(ignoreAddCmd)
	ignoreCmd.AddCommand(ignoreListCmd)
	rootCmd.AddCommand(ignoreCmd)
}

func runIgnoreAdd(pattern string) (err error) {
	if ignoreGlobal {
		err = addGlobalIgnore(pattern)
		goto end
	}
	err = addRepoIgnore(pattern)

end:
	return err
}

func addRepoIgnore(pattern string) (err error) {
	var repo *gitutils.Repo
	var exclude *gitutils.ExcludeFile
	var present bool

	repo, err = openRepo()
	if err != nil {
		goto end
	}

	exclude = gitutils.NewExcludeFile(repo.Root)
	present, err = exclude.ContainsPattern(pattern)
	if err != nil {
		err = userErr("reading exclude file", err)
		goto end
	}
	if present {
		quillcliui.DisplayNote("Pattern already present.", os.Stdout)
		goto end
	}

	err = exclude.AppendPattern(pattern)
	if err != nil {
		err = userErr("updating exclude file", err)
		goto end
	}
	quillcliui.DisplaySuccess("Added "+pattern+" to "+gitutils.ExcludeFilepath, os.Stdout)

end:
	return err
}

func addGlobalIgnore(pattern string) (err error) {
	var cfg *quillcfg.Config

	cfg, err = quillcfg.Load("")
	if err != nil {
		err = userErr("loading configuration", err)
		goto end
	}

	{
		name := profile.Name
		p, found := cfg.Profiles[name]
		if !found {
			p = quillcfg.Profile{}
		}
		for _, existing := range p.GlobalIgnoreGlobs {
			if existing == pattern {
				quillcliui.DisplayNote("Pattern already present.", os.Stdout)
				goto end
			}
		}
		p.GlobalIgnoreGlobs = append(p.GlobalIgnoreGlobs, pattern)
		cfg.Profiles[name] = p
	}

	err = quillcfg.Save(cfg, "")
	if err != nil {
		err = userErr("saving configuration", err)
		goto end
	}
	quillcliui.DisplaySuccess("Added "+pattern+" to profile "+profile.Name, os.Stdout)

end:
	return err
}

func runIgnoreList() (err error) {
	var repo *gitutils.Repo
	var patterns []string

	repo, err = openRepo()
	if err != nil {
		goto end
	}

	patterns, err = gitutils.NewExcludeFile(repo.Root).Patterns()
	if err != nil {
		err = userErr("reading exclude file", err)
		goto end
	}

	if len(patterns) == 0 && len(profile.GlobalIgnoreGlobs) == 0 {
		quillcliui.DisplayNote("No ignore patterns configured.", os.Stdout)
		goto end
	}

	for _, p := range patterns {
		fmt.Fprintf(os.Stdout, "repo    %s\n", p)
	}
	for _, p := range profile.GlobalIgnoreGlobs {
		fmt.Fprintf(os.Stdout, "global  %s\n", p)
	}

end:
	return err
}
