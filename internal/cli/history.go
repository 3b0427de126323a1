package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mdlmirror/mdlmirror/internal/config"
	"github.com/mdlmirror/mdlmirror/internal/db"
)

var historyCmd = &cobra.Command{
	Use:   "history <cmid>",
	Short: "Show recorded content changes for a page",
	Long: `Show recorded content changes for a page.

Every fetch that finds different content for an already-stored page appends
one snapshot to the page history log. This lists the snapshots for one
course-module id, oldest first.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cmid, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid course-module id %q", args[0])
	}

	database, err := db.New(db.DefaultConfig(config.DatabasePath()))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	entries, err := database.HistoryByCourseModule(cmid)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("no recorded changes for course-module %d\n", cmid)
		return nil
	}

	for i, e := range entries {
		fmt.Printf("- change %d at %s (%d bytes)\n", i+1,
			e.RecordedAt.Format("2006-01-02 15:04:05"), len(e.Content))
	}
	return nil
}
