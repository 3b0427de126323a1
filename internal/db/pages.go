package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mdlmirror/mdlmirror/internal/models"
)

// SyncPage applies the page change state machine inside the caller's
// transaction. Three outcomes:
//
//   - no stored row for this page id: the page is written, no history entry
//     (there is nothing to diff against);
//   - stored content equals incoming content: only last_fetched is refreshed;
//   - stored content differs: the row is overwritten and one PageHistory
//     snapshot of the new content is appended.
//
// The read happens in the same transaction as the eventual write. now is the
// single per-sync-pass timestamp shared by the page row and its history entry.
// Returns true when a history entry was appended.
func (db *DB) SyncPage(p *models.Page, now time.Time) (bool, error) {
	var existing models.Page
	err := db.Where("page_id = ?", p.PageID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		p.LastFetched = now
		return false, Upsert(db, p)
	case err != nil:
		return false, fmt.Errorf("read page %d: %w", p.PageID, err)
	}

	if existing.Content == p.Content {
		res := db.Model(&models.Page{}).
			Where("page_id = ?", p.PageID).
			Update("last_fetched", now)
		if res.Error != nil {
			return false, fmt.Errorf("refresh page %d: %w", p.PageID, res.Error)
		}
		return false, nil
	}

	p.LastFetched = now
	if err := Upsert(db, p); err != nil {
		return false, err
	}
	hist := models.PageHistory{
		CourseModule: p.CourseModule,
		Content:      p.Content,
		RecordedAt:   now,
	}
	if err := db.Create(&hist).Error; err != nil {
		return false, fmt.Errorf("append page history for cmid %d: %w", p.CourseModule, err)
	}
	return true, nil
}

// PagesByCourse returns a course's pages in insertion order.
func (db *DB) PagesByCourse(courseID int64) ([]models.Page, error) {
	return ByParent[models.Page](db, "course_id", courseID)
}

// FilesByPage returns a page's attachments in insertion order. The id is the
// page's external id.
func (db *DB) FilesByPage(pageID int64) ([]models.File, error) {
	return ByParent[models.File](db, "page_id", pageID)
}

// AllFiles returns every stored page attachment.
func (db *DB) AllFiles() ([]models.File, error) {
	return All[models.File](db)
}

// CourseOfPage resolves the course owning a page attachment's parent page.
func (db *DB) CourseOfPage(pageID int64) (int64, error) {
	var courseID int64
	res := db.Model(&models.Page{}).
		Select("course_id").
		Where("page_id = ?", pageID).
		Scan(&courseID)
	if res.Error != nil {
		return 0, fmt.Errorf("resolve course of page %d: %w", pageID, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("page %d is not stored", pageID)
	}
	return courseID, nil
}

// SetFileLocalPath records the downloaded location of a page attachment.
func (db *DB) SetFileLocalPath(filename string, pageID int64, localPath string) error {
	res := db.Model(&models.File{}).
		Where("filename = ? AND page_id = ?", filename, pageID).
		Update("local_path", localPath)
	if res.Error != nil {
		return fmt.Errorf("update file path: %w", res.Error)
	}
	return nil
}

// HistoryByCourseModule returns the recorded content snapshots for one
// course-module id, oldest first.
func (db *DB) HistoryByCourseModule(cmid int64) ([]models.PageHistory, error) {
	var rows []models.PageHistory
	if err := db.Where("course_module = ?", cmid).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select page history: %w", err)
	}
	return rows, nil
}
