package db

import (
	"fmt"

	"github.com/mdlmirror/mdlmirror/internal/models"
)

// SectionsByCourse returns a course's sections in insertion order.
func (db *DB) SectionsByCourse(courseID int64) ([]models.Section, error) {
	return ByParent[models.Section](db, "course_id", courseID)
}

// ModulesBySection returns a section's modules in insertion order. The id is
// the section's external id, which is what module rows reference.
func (db *DB) ModulesBySection(sectionID int64) ([]models.Module, error) {
	return ByParent[models.Module](db, "section_id", sectionID)
}

// ContentByModule returns a module's file contents in insertion order.
func (db *DB) ContentByModule(moduleID int64) ([]models.Content, error) {
	return ByParent[models.Content](db, "module_id", moduleID)
}

// AllContent returns every stored content row, used by the downloader to
// sweep for files that have not been fetched yet.
func (db *DB) AllContent() ([]models.Content, error) {
	return All[models.Content](db)
}

// CourseOfModule resolves the course owning a module by walking up to its
// section row.
func (db *DB) CourseOfModule(moduleID int64) (int64, error) {
	var courseID int64
	res := db.Raw(`SELECT s.course_id FROM sections s
		JOIN modules m ON m.section_id = s.section_id
		WHERE m.module_id = ?`, moduleID).Scan(&courseID)
	if res.Error != nil {
		return 0, fmt.Errorf("resolve course of module %d: %w", moduleID, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("module %d has no stored section", moduleID)
	}
	return courseID, nil
}

// SetContentLocalPath records the downloaded location of a content row,
// identified by its (filename, fileurl, module_id) triple.
func (db *DB) SetContentLocalPath(filename, fileURL string, moduleID int64, localPath string) error {
	res := db.Model(&models.Content{}).
		Where("filename = ? AND file_url = ? AND module_id = ?", filename, fileURL, moduleID).
		Update("local_path", localPath)
	if res.Error != nil {
		return fmt.Errorf("update content path: %w", res.Error)
	}
	return nil
}
