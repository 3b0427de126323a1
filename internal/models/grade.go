package models

import "time"

// Grade is one grade-report line item for the configured user.
type Grade struct {
	ID                 uint     `gorm:"primaryKey" json:"-"`
	GradeID            int64    `gorm:"uniqueIndex" json:"gradeid"`
	ItemName           *string  `gorm:"size:255" json:"itemname,omitempty"`
	ItemModule         *string  `gorm:"size:50" json:"itemmodule,omitempty"`
	ItemInstance       int64    `json:"iteminstance"`
	CMID               *int64   `json:"cmid,omitempty"`
	GradeRaw           *float64 `json:"graderaw,omitempty"`
	GradeDateSubmitted *int64   `json:"gradedatesubmitted,omitempty"`
	GradeDateGraded    *int64   `json:"gradedategraded,omitempty"`
	GradeMin           int64    `json:"grademin"`
	GradeMax           int64    `json:"grademax"`
	Feedback           *string  `gorm:"type:text" json:"feedback,omitempty"`

	CourseID    int64     `gorm:"index" json:"courseid"`
	LastFetched time.Time `json:"lastfetched"`
}

// TableName specifies the table name for GORM.
func (Grade) TableName() string {
	return "grades"
}

// ConflictKey returns the columns forming the grade's external identity.
func (Grade) ConflictKey() []string {
	return []string{"grade_id"}
}

// MutableColumns returns the columns refreshed when a sync re-observes the row.
func (Grade) MutableColumns() []string {
	return []string{
		"item_name", "item_module", "item_instance", "cm_id",
		"grade_raw", "grade_date_submitted", "grade_date_graded",
		"grade_min", "grade_max", "feedback", "course_id", "last_fetched",
	}
}
