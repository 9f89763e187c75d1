package models

import "time"

const (
	PhotoStorageDrive = "drive"
	PhotoStorageLocal = "local"
)

// Photo occupies one slot of a student's yearbook page.
type Photo struct {
	UserID     string    `db:"user_id" json:"user_id"`
	SlotIndex  int       `db:"slot_index" json:"slot_index"`
	FileID     string    `db:"file_id" json:"file_id"`
	FileURL    string    `db:"file_url" json:"file_url"`
	Filename   string    `db:"filename" json:"filename"`
	Storage    string    `db:"storage" json:"storage"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}
