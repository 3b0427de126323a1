package models

import "time"

// Module is a single activity or resource inside a section. A module may own
// file contents and may be backed by a page (matched via the shared
// course-module id handed out by the remote).
type Module struct {
	ID           uint    `gorm:"primaryKey" json:"-"`
	ModuleID     int64   `gorm:"uniqueIndex" json:"moduleid"`
	Name         string  `gorm:"size:255" json:"name"`
	Instance     *int64  `json:"instance,omitempty"`
	ContextID    *int64  `json:"contextid,omitempty"`
	Description  *string `gorm:"type:text" json:"description,omitempty"`
	TimeModified int64   `json:"timemodified"`

	// References Section.SectionID, not the local row id.
	SectionID   int64     `gorm:"index" json:"section_id"`
	LastFetched time.Time `json:"lastfetched"`
}

// TableName specifies the table name for GORM.
func (Module) TableName() string {
	return "modules"
}

// ConflictKey returns the columns forming the module's external identity.
func (Module) ConflictKey() []string {
	return []string{"module_id"}
}

// MutableColumns returns the columns refreshed when a sync re-observes the row.
func (Module) MutableColumns() []string {
	return []string{"name", "instance", "context_id", "description", "time_modified", "section_id", "last_fetched"}
}
