package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/mdlmirror/mdlmirror/internal/assemble"
	"github.com/mdlmirror/mdlmirror/internal/config"
	"github.com/mdlmirror/mdlmirror/internal/db"
	"github.com/mdlmirror/mdlmirror/internal/render"
)

var viewCmd = &cobra.Command{
	Use:   "view <courseid>",
	Short: "Preview a stored course in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runView,
}

func runView(cmd *cobra.Command, args []string) error {
	courseID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid course id %q", args[0])
	}

	if _, err := config.Load(); err != nil {
		return err
	}
	database, err := db.New(db.DefaultConfig(config.DatabasePath()))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	tree, err := assemble.Staged(database, courseID)
	if errors.Is(err, assemble.ErrNotSynced) {
		fmt.Printf("course %d has no stored content yet; run 'mdlmirror fetch' first\n", courseID)
		return nil
	}
	if err != nil {
		return err
	}

	doc, err := render.New().Course(tree)
	if err != nil {
		return fmt.Errorf("render course %d: %w", courseID, err)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// No styled terminal available, print the raw Markdown.
		fmt.Print(doc)
		return nil
	}
	out, err := renderer.Render(doc)
	if err != nil {
		fmt.Print(doc)
		return nil
	}
	fmt.Print(out)
	return nil
}
