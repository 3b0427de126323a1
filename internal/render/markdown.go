// Package render turns an assembled course tree into deterministic Markdown.
// HTML-bearing fields pass through a structural cleanup before conversion.
package render

import (
	"fmt"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/mdlmirror/mdlmirror/internal/assemble"
	"github.com/mdlmirror/mdlmirror/internal/models"
)

// Renderer converts assembled course trees into Markdown documents.
type Renderer struct {
	conv *md.Converter
}

// New creates a Renderer with a shared HTML-to-Markdown converter.
func New() *Renderer {
	return &Renderer{conv: md.NewConverter("", true, nil)}
}

// Course renders the whole tree depth-first. Section names become level-1
// headings; the first module in a section renders at level 2 (the section
// intro by convention) and subsequent modules at level 3. File entries link
// to the local path when one is recorded, otherwise the remote URL.
func (r *Renderer) Course(course *assemble.Course) (string, error) {
	var b strings.Builder

	for _, sec := range course.Sections {
		b.WriteString("# " + sec.Name + "\n")
		if summary, err := r.htmlToMarkdown(sec.Summary); err != nil {
			return "", fmt.Errorf("section %q summary: %w", sec.Name, err)
		} else if summary != "" {
			b.WriteString(summary + "\n\n")
		}

		for i, mod := range sec.Modules {
			if i == 0 {
				b.WriteString("## " + mod.Name + "\n")
			} else {
				b.WriteString("### " + mod.Name + "\n")
			}

			desc, err := r.htmlToMarkdown(mod.Description)
			if err != nil {
				return "", fmt.Errorf("module %q description: %w", mod.Name, err)
			}
			// Some modules carry a description that is just their own
			// name again. Skip it rather than printing the heading twice.
			if desc != "" && !headingVariant(desc, mod.Name) {
				b.WriteString(desc + "\n\n")
			}

			for _, f := range mod.Content {
				target := f.FileURL
				if f.LocalPath != nil && *f.LocalPath != "" {
					target = *f.LocalPath
				}
				b.WriteString(fmt.Sprintf("\n[%s](%s)\n\n", f.Filename, target))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

// htmlToMarkdown cleans a fragment and converts it, returning "" for
// fragments that clean down to nothing.
func (r *Renderer) htmlToMarkdown(fragment string) (string, error) {
	cleaned := CleanHTML(fragment)
	if strings.TrimSpace(cleaned) == "" {
		return "", nil
	}
	out, err := r.conv.ConvertString(cleaned)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// headingVariant reports whether a converted description is just a close
// variant of the module name: identical after dropping bold markup, trailing
// ellipses and case.
func headingVariant(desc, name string) bool {
	return normalizeHeading(desc) == normalizeHeading(name)
}

func normalizeHeading(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "…")
	s = strings.TrimSuffix(s, "...")
	s = strings.TrimSpace(s)
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Grades renders a course's grade items as a Markdown table.
func (r *Renderer) Grades(grades []models.Grade) string {
	if len(grades) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("# Grades\n\n")
	b.WriteString("| Item | Grade | Range | Feedback |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, g := range grades {
		name := ""
		if g.ItemName != nil {
			name = *g.ItemName
		}
		grade := "-"
		if g.GradeRaw != nil {
			grade = strings.TrimSuffix(strings.TrimSuffix(fmt.Sprintf("%.2f", *g.GradeRaw), "0"), "0")
			grade = strings.TrimSuffix(grade, ".")
		}
		feedback := ""
		if g.Feedback != nil {
			if fb, err := r.htmlToMarkdown(*g.Feedback); err == nil {
				feedback = strings.ReplaceAll(fb, "\n", " ")
			}
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %d–%d | %s |\n", name, grade, g.GradeMin, g.GradeMax, feedback))
	}
	return b.String()
}

// Assignments renders a course's assignments with their deadlines.
func (r *Renderer) Assignments(assignments []models.Assignment) string {
	if len(assignments) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("# Assignments\n\n")
	for _, a := range assignments {
		b.WriteString("## " + a.Name + "\n")
		if a.DueDate > 0 {
			b.WriteString("Due: " + time.Unix(a.DueDate, 0).UTC().Format("2006-01-02 15:04") + "\n")
		}
		if a.CutoffDate > 0 {
			b.WriteString("Cutoff: " + time.Unix(a.CutoffDate, 0).UTC().Format("2006-01-02 15:04") + "\n")
		}
		if a.Intro != nil {
			if intro, err := r.htmlToMarkdown(*a.Intro); err == nil && intro != "" {
				b.WriteString("\n" + intro + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
