package models

// DTO shapes as the remote web service hands them out. These mirror the JSON
// the LMS returns, transport metadata included; the sync layer maps them down
// to the persisted entities above.

// SectionDTO is one section from core_course_get_contents.
type SectionDTO struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Summary      string      `json:"summary"`
	TimeModified int64       `json:"timemodified"`
	Modules      []ModuleDTO `json:"modules"`
}

// ModuleDTO is one activity inside a SectionDTO.
type ModuleDTO struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Instance     *int64       `json:"instance,omitempty"`
	ContextID    *int64       `json:"contextid,omitempty"`
	Description  *string      `json:"description,omitempty"`
	ModName      string       `json:"modname"`
	TimeModified int64        `json:"timemodified"`
	Contents     []ContentDTO `json:"contents,omitempty"`
}

// ContentDTO is one file entry inside a ModuleDTO. Type distinguishes real
// files from url/label pseudo-content.
type ContentDTO struct {
	Type         string `json:"type"`
	Filename     string `json:"filename"`
	FileURL      string `json:"fileurl"`
	TimeModified int64  `json:"timemodified"`
}

// PagesDTO is the envelope returned by mod_page_get_pages_by_courses.
type PagesDTO struct {
	Pages    []PageDTO           `json:"pages"`
	Warnings []map[string]string `json:"warnings,omitempty"`
}

// PageDTO is one page resource with its attachment lists.
type PageDTO struct {
	ID           int64     `json:"id"`
	CourseModule int64     `json:"coursemodule"`
	Course       int64     `json:"course"`
	Name         string    `json:"name"`
	Intro        string    `json:"intro"`
	IntroFiles   []FileDTO `json:"introfiles"`
	Content      string    `json:"content"`
	ContentFiles []FileDTO `json:"contentfiles"`
	Revision     int64     `json:"revision"`
	TimeModified int64     `json:"timemodified"`
}

// FileDTO is one attachment inside a PageDTO.
type FileDTO struct {
	Filename     string `json:"filename"`
	FilePath     string `json:"filepath"`
	FileURL      string `json:"fileurl"`
	TimeModified int64  `json:"timemodified"`
}

// GradesDTO is the envelope returned by gradereport_user_get_grade_items.
type GradesDTO struct {
	UserGrades []UserGradesDTO `json:"usergrades"`
}

// UserGradesDTO is one user's grade table for one course.
type UserGradesDTO struct {
	CourseID   int64          `json:"courseid"`
	UserID     int64          `json:"userid"`
	GradeItems []GradeItemDTO `json:"gradeitems"`
}

// GradeItemDTO is one grade line item.
type GradeItemDTO struct {
	ID                 int64    `json:"id"`
	ItemName           *string  `json:"itemname"`
	ItemModule         *string  `json:"itemmodule"`
	ItemInstance       int64    `json:"iteminstance"`
	CMID               *int64   `json:"cmid"`
	GradeRaw           *float64 `json:"graderaw"`
	GradeDateSubmitted *int64   `json:"gradedatesubmitted"`
	GradeDateGraded    *int64   `json:"gradedategraded"`
	GradeMin           int64    `json:"grademin"`
	GradeMax           int64    `json:"grademax"`
	Feedback           *string  `json:"feedback"`
}

// AssignmentsDTO is the envelope returned by mod_assign_get_assignments.
type AssignmentsDTO struct {
	Courses []AssignmentCourseDTO `json:"courses"`
}

// AssignmentCourseDTO groups assignments under their owning course.
type AssignmentCourseDTO struct {
	ID           int64           `json:"id"`
	TimeModified int64           `json:"timemodified"`
	Assignments  []AssignmentDTO `json:"assignments"`
}

// AssignmentDTO is one assignment entry.
type AssignmentDTO struct {
	ID              int64   `json:"id"`
	CMID            int64   `json:"cmid"`
	Course          int64   `json:"course"`
	Name            string  `json:"name"`
	DueDate         int64   `json:"duedate"`
	SubmissionsOpen int64   `json:"allowsubmissionsfromdate"`
	CutoffDate      int64   `json:"cutoffdate"`
	TimeModified    int64   `json:"timemodified"`
	Intro           *string `json:"intro"`
}

// SiteInfoDTO is the reply to core_webservice_get_site_info, used during init.
type SiteInfoDTO struct {
	SiteName  string `json:"sitename"`
	Username  string `json:"username"`
	FullName  string `json:"fullname"`
	UserID    int64  `json:"userid"`
	SiteURL   string `json:"siteurl"`
	Release   string `json:"release"`
	UserCount int    `json:"usercount,omitempty"`
}

// CourseDTO is one enrolled course from core_enrol_get_users_courses.
type CourseDTO struct {
	ID        int64   `json:"id"`
	ShortName *string `json:"shortname"`
	FullName  string  `json:"fullname"`
}
