package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdlmirror/mdlmirror/internal/config"
	"github.com/mdlmirror/mdlmirror/internal/db"
	"github.com/mdlmirror/mdlmirror/internal/fetch"
)

var (
	initBaseURL string
	initToken   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and local database",
	Long: `Create the config file and local database.

Verifies the site URL and token against the remote web service, records the
user id it reports, and seeds the course list from the user's enrolments.
Edit the generated config to prune courses or set per-course directories.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initBaseURL, "url", "", "LMS site root URL (required)")
	initCmd.Flags().StringVar(&initToken, "token", "", "web service token (required)")
	_ = initCmd.MarkFlagRequired("url")
	_ = initCmd.MarkFlagRequired("token")
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client := fetch.NewClient(initBaseURL, initToken)
	info, err := client.SiteInfo(ctx)
	if err != nil {
		return fmt.Errorf("verify site: %w", err)
	}
	fmt.Printf("✓ connected to %s as %s\n", info.SiteName, info.FullName)

	courses, err := client.EnrolledCourses(ctx, info.UserID)
	if err != nil {
		return fmt.Errorf("list enrolled courses: %w", err)
	}

	cfg := &config.Config{
		API: config.APIConfig{
			BaseURL: initBaseURL,
			Token:   initToken,
			UserID:  info.UserID,
		},
	}
	for _, c := range courses {
		course := config.CourseConfig{ID: c.ID}
		if c.ShortName != nil {
			course.ShortName = *c.ShortName
		}
		cfg.Courses = append(cfg.Courses, course)
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Printf("✓ wrote %s with %d courses\n", config.File(), len(cfg.Courses))

	database, err := db.New(db.DefaultConfig(config.DatabasePath()))
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	defer func() { _ = database.Close() }()
	fmt.Printf("✓ database ready at %s\n", database.Path())

	return nil
}
