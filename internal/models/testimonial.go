package models

import "time"

// Testimonial is a short note from one student about a classmate. There is at most one per
// (from, to) pair.
type Testimonial struct {
	FromStudentID   string    `db:"from_student_id" json:"from_student_id"`
	ToStudentID     string    `db:"to_student_id" json:"to_student_id"`
	FromStudentName string    `db:"from_student_name" json:"from_student_name"`
	Text            string    `db:"text" json:"text"`
	WordCount       int       `db:"word_count" json:"word_count"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
