// Package cli provides the command-line interface for mdlmirror.
package cli

import (
	"context"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/mdlmirror/mdlmirror/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "mdlmirror",
	Short: "Mirror LMS courses into a local store and Markdown",
	Long: `Mirror LMS courses into a local store and Markdown.

mdlmirror syncs the structure of your courses (sections, modules, pages,
files, grades, assignments) into a local SQLite database, tracks content
changes across syncs, and renders each course to a Markdown document with
downloaded attachments.

Typical flow:
  mdlmirror init        # write config, pick courses
  mdlmirror fetch       # sync course content into the local store
  mdlmirror parse       # render stored content to Markdown
  mdlmirror download    # fetch file attachments`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(historyCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context) error {
	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.Commit),
	)
}
