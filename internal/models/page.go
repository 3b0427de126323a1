package models

import "time"

// Page is the full HTML body behind a page-type module. Pages are the only
// content-bearing entity whose writes go through the change tracker, which
// appends a PageHistory row whenever the stored content actually changed.
type Page struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	PageID       int64  `gorm:"uniqueIndex" json:"pageid"`
	CourseModule int64  `gorm:"index" json:"coursemodule"`
	CourseID     int64  `gorm:"index" json:"courseid"`
	Name         string `gorm:"size:255" json:"name"`
	Intro        string `gorm:"type:text" json:"intro"`
	Content      string `gorm:"type:text" json:"content"`
	Revision     int64  `json:"revision"`
	TimeModified int64  `json:"timemodified"`

	LastFetched time.Time `json:"lastfetched"`
}

// TableName specifies the table name for GORM.
func (Page) TableName() string {
	return "pages"
}

// ConflictKey returns the columns forming the page's external identity.
func (Page) ConflictKey() []string {
	return []string{"page_id"}
}

// MutableColumns returns the columns refreshed when a sync re-observes the row.
func (Page) MutableColumns() []string {
	return []string{"course_module", "course_id", "name", "intro", "content", "revision", "time_modified", "last_fetched"}
}

// PageHistory is one snapshot in the append-only audit trail of page content.
// Rows are only ever inserted, never updated or deleted.
type PageHistory struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	CourseModule int64     `gorm:"index" json:"cmid"`
	Content      string    `gorm:"type:text" json:"content"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// TableName specifies the table name for GORM.
func (PageHistory) TableName() string {
	return "page_history"
}
