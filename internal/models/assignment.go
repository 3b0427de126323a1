package models

import "time"

// Assignment is a gradable task with submission deadlines.
type Assignment struct {
	ID              uint    `gorm:"primaryKey" json:"-"`
	AssignID        int64   `gorm:"uniqueIndex" json:"assignid"`
	CMID            int64   `json:"cmid"`
	Name            string  `gorm:"size:255" json:"name"`
	DueDate         int64   `json:"duedate"`
	SubmissionsOpen int64   `json:"submissionsopen"`
	CutoffDate      int64   `json:"cutoffdate"`
	TimeModified    int64   `json:"timemodified"`
	Intro           *string `gorm:"type:text" json:"intro,omitempty"`

	CourseID    int64     `gorm:"index" json:"courseid"`
	LastFetched time.Time `json:"lastfetched"`
}

// TableName specifies the table name for GORM.
func (Assignment) TableName() string {
	return "assignments"
}

// ConflictKey returns the columns forming the assignment's external identity.
func (Assignment) ConflictKey() []string {
	return []string{"assign_id"}
}

// MutableColumns returns the columns refreshed when a sync re-observes the row.
func (Assignment) MutableColumns() []string {
	return []string{
		"cm_id", "name", "due_date", "submissions_open", "cutoff_date",
		"time_modified", "intro", "course_id", "last_fetched",
	}
}
