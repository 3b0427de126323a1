package models

import "time"

// Content is a file attached to a module. A module may legitimately carry two
// files with the same name pointing at different URLs, so identity is the
// (filename, fileurl, module_id) triple rather than the name alone.
type Content struct {
	ID           uint    `gorm:"primaryKey" json:"-"`
	Filename     string  `gorm:"size:255;uniqueIndex:idx_content_identity" json:"filename"`
	FileURL      string  `gorm:"size:1000;uniqueIndex:idx_content_identity" json:"fileurl"`
	LocalPath    *string `gorm:"size:1000" json:"localpath,omitempty"`
	TimeModified int64   `json:"timemodified"`

	// References Module.ModuleID.
	ModuleID    int64     `gorm:"uniqueIndex:idx_content_identity" json:"module_id"`
	LastFetched time.Time `json:"lastfetched"`
}

// TableName specifies the table name for GORM.
func (Content) TableName() string {
	return "content"
}

// ConflictKey returns the columns forming the content's identity.
func (Content) ConflictKey() []string {
	return []string{"filename", "file_url", "module_id"}
}

// MutableColumns returns the columns refreshed when a sync re-observes the row.
// LocalPath is deliberately absent: it is owned by the downloader, and a
// re-sync must not wipe a previously recorded download.
func (Content) MutableColumns() []string {
	return []string{"time_modified", "last_fetched"}
}
