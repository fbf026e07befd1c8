package examtrackv1

import "time"

type AddSessionRequest struct {
	DurationMinutes int    `json:"duration_minutes" validate:"gt=0"`
	Date            string `json:"date,omitempty"`
	SubjectCode     string `json:"subject_code,omitempty"`
	ExamType        string `json:"exam_type,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// ListSessionsRequest bounds the listing by inclusive YYYY-MM-DD dates.
type ListSessionsRequest struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type ListSessionsResponse struct {
	Sessions []*StudySession `json:"sessions"`
}

type StudySession struct {
	ID              int64     `json:"id"`
	SubjectID       *int64    `json:"subject_id,omitempty"`
	SubjectName     string    `json:"subject_name,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	SessionDate     string    `json:"session_date"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type DailyStudy struct {
	Date         string            `json:"date"`
	TotalMinutes int               `json:"total_minutes"`
	SessionCount int               `json:"session_count"`
	Breakdown    []*SubjectMinutes `json:"breakdown"`
}

type SubjectMinutes struct {
	Subject string `json:"subject"`
	Minutes int    `json:"minutes"`
}
