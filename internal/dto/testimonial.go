package dto

// CreateTestimonialRequest writes or rewrites the caller's testimonial about a classmate.
type CreateTestimonialRequest struct {
	ToStudentID string `json:"to_student_id" validate:"required"`
	Text        string `json:"text"`
}

// UpdateTestimonialRequest is an admin edit of a testimonial's text.
type UpdateTestimonialRequest struct {
	Text string `json:"text"`
}

// TestimonialResult reports whether a testimonial was created or rewritten.
type TestimonialResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	WordCount int    `json:"word_count"`
}
