package assemble

import (
	"fmt"

	"github.com/mdlmirror/mdlmirror/internal/db"
)

// joinRow is one flat row of the five-table outer join. Child columns are
// nullable because a section may have no modules, a module no content or
// page, and a page no files.
type joinRow struct {
	SectionRow     uint
	SectionID      int64
	SectionName    string
	SectionSummary string

	ModuleRow  *uint
	ModuleID   *int64
	ModuleName *string
	ModuleDesc *string

	ContentRow  *uint
	ContentName *string
	ContentURL  *string
	ContentPath *string

	PageRow     *uint
	PageID      *int64
	PageName    *string
	PageContent *string

	FileRow  *uint
	FileName *string
	FileURL  *string
	FilePath *string
}

const joinQuery = `
SELECT
  s.id AS section_row, s.section_id, s.name AS section_name, s.summary AS section_summary,
  m.id AS module_row, m.module_id, m.name AS module_name, m.description AS module_desc,
  c.id AS content_row, c.filename AS content_name, c.file_url AS content_url, c.local_path AS content_path,
  p.id AS page_row, p.page_id, p.name AS page_name, p.content AS page_content,
  f.id AS file_row, f.filename AS file_name, f.file_url, f.local_path AS file_path
FROM sections s
LEFT JOIN modules m ON m.section_id = s.section_id
LEFT JOIN content c ON c.module_id = m.module_id
LEFT JOIN pages p ON p.course_module = m.module_id
LEFT JOIN files f ON f.page_id = p.page_id
WHERE s.course_id = ?
ORDER BY s.id, m.id, c.id, p.id, f.id`

// Joined reconstructs the course tree from a single outer join. Because a
// module's content rows and its page's file rows cross-multiply in the join,
// the regrouping collapses rows by local id per branch: content, pages and
// files are each collected at most once no matter how many joined rows repeat
// them. The collapse keys are row ids, never a non-deterministic expression.
func Joined(database *db.DB, courseID int64) (*Course, error) {
	var rows []joinRow
	if err := database.Raw(joinQuery, courseID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("join course %d: %w", courseID, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("course %d: %w", courseID, ErrNotSynced)
	}

	course := &Course{CourseID: courseID}
	var (
		secIdx  = map[uint]int{}
		modIdx  = map[uint]int{} // module row id -> index within its section
		pageIdx = map[uint]int{} // page row id -> index within its module
		seen    = map[string]bool{}
	)

	for _, r := range rows {
		si, ok := secIdx[r.SectionRow]
		if !ok {
			course.Sections = append(course.Sections, Section{
				SectionID: r.SectionID,
				Name:      r.SectionName,
				Summary:   r.SectionSummary,
			})
			si = len(course.Sections) - 1
			secIdx[r.SectionRow] = si
		}
		sec := &course.Sections[si]

		if r.ModuleRow == nil {
			continue
		}
		mi, ok := modIdx[*r.ModuleRow]
		if !ok {
			mod := Module{ModuleID: *r.ModuleID, Name: deref(r.ModuleName)}
			if r.ModuleDesc != nil {
				mod.Description = *r.ModuleDesc
			}
			sec.Modules = append(sec.Modules, mod)
			mi = len(sec.Modules) - 1
			modIdx[*r.ModuleRow] = mi
		}
		mod := &sec.Modules[mi]

		if r.ContentRow != nil && !seen[fmt.Sprintf("c%d", *r.ContentRow)] {
			seen[fmt.Sprintf("c%d", *r.ContentRow)] = true
			mod.Content = append(mod.Content, FileLink{
				Filename:  deref(r.ContentName),
				FileURL:   deref(r.ContentURL),
				LocalPath: r.ContentPath,
			})
		}

		if r.PageRow == nil {
			continue
		}
		pi, ok := pageIdx[*r.PageRow]
		if !ok {
			mod.Pages = append(mod.Pages, Page{
				PageID:  *r.PageID,
				Name:    deref(r.PageName),
				Content: deref(r.PageContent),
			})
			pi = len(mod.Pages) - 1
			pageIdx[*r.PageRow] = pi
		}
		if r.FileRow != nil && !seen[fmt.Sprintf("f%d", *r.FileRow)] {
			seen[fmt.Sprintf("f%d", *r.FileRow)] = true
			mod.Pages[pi].Files = append(mod.Pages[pi].Files, FileLink{
				Filename:  deref(r.FileName),
				FileURL:   deref(r.FileURL),
				LocalPath: r.FilePath,
			})
		}
	}

	// Apply the page combine step after regrouping so it runs exactly once
	// per module, same as the staged strategy.
	for si := range course.Sections {
		for mi := range course.Sections[si].Modules {
			mod := &course.Sections[si].Modules[mi]
			combine(mod, mod.Pages)
		}
	}
	return course, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
