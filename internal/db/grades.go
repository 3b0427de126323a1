package db

import "github.com/mdlmirror/mdlmirror/internal/models"

// GradesByCourse returns a course's grade items in insertion order.
func (db *DB) GradesByCourse(courseID int64) ([]models.Grade, error) {
	return ByParent[models.Grade](db, "course_id", courseID)
}

// AssignmentsByCourse returns a course's assignments in insertion order.
func (db *DB) AssignmentsByCourse(courseID int64) ([]models.Assignment, error) {
	return ByParent[models.Assignment](db, "course_id", courseID)
}
