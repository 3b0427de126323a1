package models

import "time"

// File is an attachment belonging to a page (an intro file or a content
// file). Identity is (filename, page_id): unlike module content, a page never
// exposes two attachments under the same name.
type File struct {
	ID           uint    `gorm:"primaryKey" json:"-"`
	Filename     string  `gorm:"size:255;uniqueIndex:idx_file_identity" json:"filename"`
	FileURL      string  `gorm:"size:1000" json:"fileurl"`
	LocalPath    *string `gorm:"size:1000" json:"localpath,omitempty"`
	TimeModified int64   `json:"timemodified"`

	// References Page.PageID.
	PageID      int64     `gorm:"uniqueIndex:idx_file_identity" json:"page_id"`
	LastFetched time.Time `json:"lastfetched"`
}

// TableName specifies the table name for GORM.
func (File) TableName() string {
	return "files"
}

// ConflictKey returns the columns forming the file's identity.
func (File) ConflictKey() []string {
	return []string{"filename", "page_id"}
}

// MutableColumns returns the columns refreshed when a sync re-observes the row.
// LocalPath is owned by the downloader and survives re-syncs.
func (File) MutableColumns() []string {
	return []string{"file_url", "time_modified", "last_fetched"}
}
