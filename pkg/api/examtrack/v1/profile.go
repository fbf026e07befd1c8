package examtrackv1

import "time"

type Profile struct {
	UserID     string    `json:"user_id"`
	StudyField string    `json:"study_field,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

type SetStudyFieldRequest struct {
	StudyField string `json:"study_field"`
}

type SubjectOptionsRequest struct {
	ExamType string `json:"exam_type" validate:"required"`
}

type SubjectOptionsResponse struct {
	Subjects []*SubjectOption `json:"subjects"`
}

type SubjectOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type TopicsRequest struct {
	Subject string `json:"subject" validate:"required"`
}

type TopicsResponse struct {
	Topics []string `json:"topics"`
}
