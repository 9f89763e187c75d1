package models

import "time"

// DefaultPhotoSlots is used when a college is created without a slot count.
const DefaultPhotoSlots = 4

// College configures the yearbook questions and photo slots its students fill in.
type College struct {
	ID                string     `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	YearbookQuestions StringList `db:"yearbook_questions" json:"yearbook_questions"`
	PhotoSlots        int        `db:"photo_slots" json:"photo_slots"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}
