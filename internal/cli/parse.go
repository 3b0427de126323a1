package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"

	"github.com/mdlmirror/mdlmirror/internal/assemble"
	"github.com/mdlmirror/mdlmirror/internal/config"
	"github.com/mdlmirror/mdlmirror/internal/db"
	"github.com/mdlmirror/mdlmirror/internal/render"
)

var (
	parseJSON bool
	parseHTML bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Render stored courses to Markdown",
	Long: `Render stored courses to Markdown.

Reconstructs each configured course's section tree from the local store and
writes <course dir>/<shortname>.md. Grades and assignments get their own
sections at the end of the document.

Flags switch the output format: --json dumps the reconstructed tree,
--html converts the Markdown document to HTML.`,
	Args: cobra.NoArgs,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "export the reconstructed tree as JSON")
	parseCmd.Flags().BoolVar(&parseHTML, "html", false, "also export the document as HTML")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	database, err := db.New(db.DefaultConfig(config.DatabasePath()))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	renderer := render.New()

	for _, course := range cfg.Courses {
		tree, err := assemble.Staged(database, course.ID)
		if errors.Is(err, assemble.ErrNotSynced) {
			fmt.Printf("course %d has no stored content yet; run 'mdlmirror fetch' first\n", course.ID)
			continue
		}
		if err != nil {
			return err
		}

		dir := cfg.CourseDir(course.ID)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create course directory: %w", err)
		}
		base := filepath.Join(dir, courseBasename(cfg, course.ID))

		if parseJSON {
			data, err := json.MarshalIndent(tree, "", "  ")
			if err != nil {
				return fmt.Errorf("encode course %d: %w", course.ID, err)
			}
			if err := os.WriteFile(base+".json", data, 0644); err != nil {
				return fmt.Errorf("write %s.json: %w", base, err)
			}
			fmt.Printf("✓ wrote %s.json\n", base)
			continue
		}

		doc, err := renderer.Course(tree)
		if err != nil {
			return fmt.Errorf("render course %d: %w", course.ID, err)
		}

		grades, err := database.GradesByCourse(course.ID)
		if err != nil {
			return err
		}
		if md := renderer.Grades(grades); md != "" {
			doc += "\n" + md
		}
		assignments, err := database.AssignmentsByCourse(course.ID)
		if err != nil {
			return err
		}
		if md := renderer.Assignments(assignments); md != "" {
			doc += "\n" + md
		}

		if err := os.WriteFile(base+".md", []byte(doc), 0644); err != nil {
			return fmt.Errorf("write %s.md: %w", base, err)
		}
		fmt.Printf("✓ wrote %s.md\n", base)

		if parseHTML {
			var buf bytes.Buffer
			if err := goldmark.Convert([]byte(doc), &buf); err != nil {
				return fmt.Errorf("convert course %d to HTML: %w", course.ID, err)
			}
			if err := os.WriteFile(base+".html", buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("write %s.html: %w", base, err)
			}
			fmt.Printf("✓ wrote %s.html\n", base)
		}
	}

	return nil
}

func courseBasename(cfg *config.Config, id int64) string {
	if course := cfg.Course(id); course != nil && course.ShortName != "" {
		return course.ShortName
	}
	return fmt.Sprintf("course-%d", id)
}
