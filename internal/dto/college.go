package dto

// CreateCollegeRequest defines payload for creating a college.
type CreateCollegeRequest struct {
	Name              string   `json:"name" validate:"required,max=200"`
	YearbookQuestions []string `json:"yearbook_questions" validate:"omitempty,dive,required"`
	PhotoSlots        int      `json:"photo_slots" validate:"omitempty,min=1,max=20"`
}

// UpdateCollegeRequest changes any subset of a college's settings.
type UpdateCollegeRequest struct {
	Name              *string  `json:"name" validate:"omitempty,max=200"`
	YearbookQuestions []string `json:"yearbook_questions" validate:"omitempty,dive,required"`
	PhotoSlots        *int     `json:"photo_slots" validate:"omitempty,min=1,max=20"`
}
