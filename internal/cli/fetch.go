package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdlmirror/mdlmirror/internal/config"
	"github.com/mdlmirror/mdlmirror/internal/db"
	"github.com/mdlmirror/mdlmirror/internal/fetch"
	"github.com/mdlmirror/mdlmirror/internal/log"
	"github.com/mdlmirror/mdlmirror/internal/sync"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Sync configured courses into the local store",
	Long: `Sync configured courses into the local store.

For every course in the config this fetches the section tree, its pages,
grades and assignments, and upserts them into the local database. Each
course is written in a single transaction; re-running fetch with unchanged
remote content only refreshes timestamps. Page content changes are recorded
in the page history log.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	database, err := db.New(db.DefaultConfig(config.DatabasePath()))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	client := fetch.NewClient(cfg.API.BaseURL, cfg.API.Token)
	syncer := sync.New(database)

	pages, err := client.CoursePages(ctx)
	if err != nil {
		return fmt.Errorf("fetch pages: %w", err)
	}
	assignments, err := client.Assignments(ctx)
	if err != nil {
		return fmt.Errorf("fetch assignments: %w", err)
	}
	if _, err := syncer.SyncAssignments(assignments); err != nil {
		return err
	}

	for _, course := range cfg.Courses {
		sections, err := client.CourseContents(ctx, course.ID)
		if err != nil {
			return fmt.Errorf("fetch course %d: %w", course.ID, err)
		}
		res, err := syncer.SyncCourse(course.ID, sections, pages)
		if err != nil {
			return err
		}

		grades, err := client.CourseGrades(ctx, course.ID, cfg.API.UserID)
		if err != nil {
			return fmt.Errorf("fetch grades for course %d: %w", course.ID, err)
		}
		gradeCount, err := syncer.SyncGrades(course.ID, grades)
		if err != nil {
			return err
		}

		log.Printf("✓ course %d: %d sections, %d modules, %d files, %d pages (%d changed), %d grades\n",
			course.ID, res.Sections, res.Modules, res.Contents+res.Files, res.Pages, res.PagesChanged, gradeCount)
	}

	return nil
}
