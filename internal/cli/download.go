package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdlmirror/mdlmirror/internal/config"
	"github.com/mdlmirror/mdlmirror/internal/db"
	"github.com/mdlmirror/mdlmirror/internal/download"
	"github.com/mdlmirror/mdlmirror/internal/fetch"
	"github.com/mdlmirror/mdlmirror/internal/log"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download stored file attachments",
	Long: `Download stored file attachments.

Sweeps the local store for module contents and page attachments without a
recorded local path and downloads each one into its owning course's
directory. Files already on disk are skipped, so re-running is cheap.`,
	Args: cobra.NoArgs,
	RunE: runDownload,
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if len(cfg.Courses) == 0 {
		return fmt.Errorf("no courses configured")
	}

	database, err := db.New(db.DefaultConfig(config.DatabasePath()))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	client := fetch.NewClient(cfg.API.BaseURL, cfg.API.Token)
	dl := download.New(database, client)

	progress := NewProgressBar(0, 20)

	res, err := dl.Sweep(ctx, cfg.CourseDir, func(done, total int, name string) {
		progress.SetTotal(total)
		progress.Update(done, name)
		ClearLine()
		fmt.Print("   " + progress.Render())
	})
	ClearLine()
	if err != nil {
		return err
	}

	log.Printf("   ✓ %d downloaded, %d already present, %d failed\n",
		res.Downloaded, res.Skipped, res.Failed)
	return nil
}
