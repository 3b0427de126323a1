// Package models defines the core data structures for mdlmirror.
//
// Every entity carries two identities: the auto-assigned local row id (ID)
// and the id assigned by the remote LMS (SectionID, ModuleID, ...). Foreign
// keys between entities always reference the remote id, matching the ids the
// remote API hands out in nested DTOs.
package models

import "time"

// Section is a top-level grouping of course material (a "week" or "topic").
type Section struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	SectionID    int64  `gorm:"uniqueIndex" json:"sectionid"`
	Name         string `gorm:"size:255" json:"name"`
	Summary      string `gorm:"type:text" json:"summary"` // raw HTML from the remote
	TimeModified int64  `json:"timemodified"`

	CourseID    int64     `gorm:"index" json:"courseid"`
	LastFetched time.Time `json:"lastfetched"`
}

// TableName specifies the table name for GORM.
func (Section) TableName() string {
	return "sections"
}

// ConflictKey returns the columns forming the section's external identity.
func (Section) ConflictKey() []string {
	return []string{"section_id"}
}

// MutableColumns returns the columns refreshed when a sync re-observes the row.
func (Section) MutableColumns() []string {
	return []string{"name", "summary", "time_modified", "course_id", "last_fetched"}
}
