// Package assemble reconstructs nested course trees from the normalized
// tables. Two strategies produce identical trees: staged retrieval (one query
// per node level, the default) and a single outer join regrouped in
// application code (Joined). Node ordering follows ascending local row id, so
// repeated assemblies over unchanged data yield the same tree.
package assemble

import (
	"errors"
	"fmt"

	"github.com/mdlmirror/mdlmirror/internal/db"
)

// ErrNotSynced reports that no rows exist for the requested course. It is a
// domain condition, not a failure: the caller decides whether to tell the
// user to fetch first.
var ErrNotSynced = errors.New("course has no stored content")

// Course is the reconstructed tree handed to the renderer and exporters.
type Course struct {
	CourseID int64     `json:"courseid"`
	Sections []Section `json:"sections"`
}

// Section is one section node with its modules.
type Section struct {
	SectionID int64    `json:"sectionid"`
	Name      string   `json:"name"`
	Summary   string   `json:"summary"`
	Modules   []Module `json:"modules"`
}

// Module is one module node. After the page combine step, Description holds
// the page content and Content the page's attachment union whenever a page
// backs this module.
type Module struct {
	ModuleID    int64      `json:"moduleid"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Content     []FileLink `json:"content"`
	Pages       []Page     `json:"pages,omitempty"`
}

// Page is one page node with its attachments.
type Page struct {
	PageID  int64      `json:"pageid"`
	Name    string     `json:"name"`
	Content string     `json:"content"`
	Files   []FileLink `json:"files"`
}

// FileLink is a leaf file entry. LocalPath is set once the downloader has
// fetched the file.
type FileLink struct {
	Filename  string  `json:"filename"`
	FileURL   string  `json:"fileurl"`
	LocalPath *string `json:"localpath,omitempty"`
}

// Staged reconstructs the course tree with one query per node level:
// sections by course, modules by section, content by module, then pages and
// their files. No duplication is possible because every child list comes from
// its own filtered query.
func Staged(database *db.DB, courseID int64) (*Course, error) {
	sections, err := database.SectionsByCourse(courseID)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("course %d: %w", courseID, ErrNotSynced)
	}

	pages, err := pagesByModule(database, courseID)
	if err != nil {
		return nil, err
	}

	course := &Course{CourseID: courseID}
	for _, sec := range sections {
		node := Section{
			SectionID: sec.SectionID,
			Name:      sec.Name,
			Summary:   sec.Summary,
		}
		modules, err := database.ModulesBySection(sec.SectionID)
		if err != nil {
			return nil, err
		}
		for _, mod := range modules {
			mnode := Module{
				ModuleID: mod.ModuleID,
				Name:     mod.Name,
			}
			if mod.Description != nil {
				mnode.Description = *mod.Description
			}
			contents, err := database.ContentByModule(mod.ModuleID)
			if err != nil {
				return nil, err
			}
			for _, c := range contents {
				mnode.Content = append(mnode.Content, FileLink{
					Filename:  c.Filename,
					FileURL:   c.FileURL,
					LocalPath: c.LocalPath,
				})
			}
			combine(&mnode, pages[mod.ModuleID])
			node.Modules = append(node.Modules, mnode)
		}
		course.Sections = append(course.Sections, node)
	}
	return course, nil
}

// pagesByModule loads a course's pages keyed by their course-module id, each
// with its attachment list.
func pagesByModule(database *db.DB, courseID int64) (map[int64][]Page, error) {
	rows, err := database.PagesByCourse(courseID)
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]Page, len(rows))
	for _, p := range rows {
		files, err := database.FilesByPage(p.PageID)
		if err != nil {
			return nil, err
		}
		node := Page{
			PageID:  p.PageID,
			Name:    p.Name,
			Content: p.Content,
		}
		for _, f := range files {
			node.Files = append(node.Files, FileLink{
				Filename:  f.Filename,
				FileURL:   f.FileURL,
				LocalPath: f.LocalPath,
			})
		}
		out[p.CourseModule] = append(out[p.CourseModule], node)
	}
	return out, nil
}

// combine merges a module's backing pages into the module node: the page
// content replaces the module description and the page's attachment union
// replaces the module's file list. Applying it again with the same pages
// yields the same module state.
func combine(mod *Module, pages []Page) {
	if len(pages) == 0 {
		return
	}
	mod.Pages = pages
	last := pages[len(pages)-1]
	if last.Content != "" {
		mod.Description = last.Content
		mod.Content = append([]FileLink(nil), last.Files...)
	}
}
