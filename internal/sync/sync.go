// Package sync writes fetched course DTOs into the local store.
//
// One call to SyncCourse is one sync pass for that course: a single
// transaction covering every section, module, content, page and attachment
// observed, committed atomically. Parents are always written before their
// children so child rows only ever reference committed external ids. Sync is
// additive: rows the remote no longer reports are left in place, their
// last_fetched simply stops advancing.
package sync

import (
	"fmt"
	"time"

	"github.com/mdlmirror/mdlmirror/internal/db"
	"github.com/mdlmirror/mdlmirror/internal/models"
)

// Syncer applies sync passes against one database handle.
type Syncer struct {
	db  *db.DB
	now time.Time
}

// New creates a Syncer. The timestamp is snapshotted once here so every row
// written by this pass carries the same last_fetched value.
func New(database *db.DB) *Syncer {
	return &Syncer{db: database, now: time.Now().UTC()}
}

// NewAt creates a Syncer with an explicit pass timestamp.
func NewAt(database *db.DB, now time.Time) *Syncer {
	return &Syncer{db: database, now: now}
}

// Result summarizes what one course sync pass wrote.
type Result struct {
	Sections     int
	Modules      int
	Contents     int
	Pages        int
	Files        int
	PagesChanged int
}

// SyncCourse writes one course's section tree and its pages in a single
// transaction. A failure anywhere rolls back the whole pass; previously
// committed courses are unaffected.
func (s *Syncer) SyncCourse(courseID int64, sections []models.SectionDTO, pages *models.PagesDTO) (*Result, error) {
	res := &Result{}
	err := s.db.Transaction(func(tx *db.DB) error {
		if err := s.writeSections(tx, courseID, sections, res); err != nil {
			return err
		}
		if pages != nil {
			if err := s.writePages(tx, courseID, pages.Pages, res); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sync course %d: %w", courseID, err)
	}
	return res, nil
}

func (s *Syncer) writeSections(tx *db.DB, courseID int64, sections []models.SectionDTO, res *Result) error {
	for _, sec := range sections {
		row := models.Section{
			SectionID:    sec.ID,
			Name:         sec.Name,
			Summary:      sec.Summary,
			TimeModified: sec.TimeModified,
			CourseID:     courseID,
			LastFetched:  s.now,
		}
		if err := db.Upsert(tx, &row); err != nil {
			return fmt.Errorf("section %d: %w", sec.ID, err)
		}
		res.Sections++

		for _, mod := range sec.Modules {
			mrow := models.Module{
				ModuleID:     mod.ID,
				Name:         mod.Name,
				Instance:     mod.Instance,
				ContextID:    mod.ContextID,
				Description:  mod.Description,
				TimeModified: mod.TimeModified,
				SectionID:    sec.ID,
				LastFetched:  s.now,
			}
			if err := db.Upsert(tx, &mrow); err != nil {
				return fmt.Errorf("module %d: %w", mod.ID, err)
			}
			res.Modules++

			for _, c := range mod.Contents {
				if c.Type != "file" || c.Filename == "" || c.FileURL == "" {
					continue // url/label pseudo-content carries no file
				}
				crow := models.Content{
					Filename:     c.Filename,
					FileURL:      c.FileURL,
					TimeModified: c.TimeModified,
					ModuleID:     mod.ID,
					LastFetched:  s.now,
				}
				if err := db.Upsert(tx, &crow); err != nil {
					return fmt.Errorf("content %q in module %d: %w", c.Filename, mod.ID, err)
				}
				res.Contents++
			}
		}
	}
	return nil
}

func (s *Syncer) writePages(tx *db.DB, courseID int64, pages []models.PageDTO, res *Result) error {
	for _, p := range pages {
		if p.Course != courseID {
			continue // the pages endpoint reports all courses at once
		}
		prow := models.Page{
			PageID:       p.ID,
			CourseModule: p.CourseModule,
			CourseID:     p.Course,
			Name:         p.Name,
			Intro:        p.Intro,
			Content:      p.Content,
			Revision:     p.Revision,
			TimeModified: p.TimeModified,
		}
		changed, err := tx.SyncPage(&prow, s.now)
		if err != nil {
			return fmt.Errorf("page %d: %w", p.ID, err)
		}
		res.Pages++
		if changed {
			res.PagesChanged++
		}

		for _, f := range append(append([]models.FileDTO{}, p.IntroFiles...), p.ContentFiles...) {
			if f.Filename == "" {
				continue
			}
			frow := models.File{
				Filename:     f.Filename,
				FileURL:      f.FileURL,
				TimeModified: f.TimeModified,
				PageID:       p.ID,
				LastFetched:  s.now,
			}
			if err := db.Upsert(tx, &frow); err != nil {
				return fmt.Errorf("file %q on page %d: %w", f.Filename, p.ID, err)
			}
			res.Files++
		}
	}
	return nil
}

// SyncGrades writes one course's grade items in a single transaction.
func (s *Syncer) SyncGrades(courseID int64, grades *models.GradesDTO) (int, error) {
	count := 0
	err := s.db.Transaction(func(tx *db.DB) error {
		for _, ug := range grades.UserGrades {
			if ug.CourseID != courseID {
				continue
			}
			for _, g := range ug.GradeItems {
				row := models.Grade{
					GradeID:            g.ID,
					ItemName:           g.ItemName,
					ItemModule:         g.ItemModule,
					ItemInstance:       g.ItemInstance,
					CMID:               g.CMID,
					GradeRaw:           g.GradeRaw,
					GradeDateSubmitted: g.GradeDateSubmitted,
					GradeDateGraded:    g.GradeDateGraded,
					GradeMin:           g.GradeMin,
					GradeMax:           g.GradeMax,
					Feedback:           g.Feedback,
					CourseID:           ug.CourseID,
					LastFetched:        s.now,
				}
				if err := db.Upsert(tx, &row); err != nil {
					return fmt.Errorf("grade %d: %w", g.ID, err)
				}
				count++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("sync grades for course %d: %w", courseID, err)
	}
	return count, nil
}

// SyncAssignments writes the assignments envelope, one transaction per course
// so a bad course does not roll back its siblings.
func (s *Syncer) SyncAssignments(assignments *models.AssignmentsDTO) (int, error) {
	total := 0
	for _, course := range assignments.Courses {
		err := s.db.Transaction(func(tx *db.DB) error {
			for _, a := range course.Assignments {
				row := models.Assignment{
					AssignID:        a.ID,
					CMID:            a.CMID,
					Name:            a.Name,
					DueDate:         a.DueDate,
					SubmissionsOpen: a.SubmissionsOpen,
					CutoffDate:      a.CutoffDate,
					TimeModified:    a.TimeModified,
					Intro:           a.Intro,
					CourseID:        course.ID,
					LastFetched:     s.now,
				}
				if err := db.Upsert(tx, &row); err != nil {
					return fmt.Errorf("assignment %d: %w", a.ID, err)
				}
				total++
			}
			return nil
		})
		if err != nil {
			return total, fmt.Errorf("sync assignments for course %d: %w", course.ID, err)
		}
	}
	return total, nil
}
