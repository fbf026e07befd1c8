package examtrackv1

import (
	"encoding/json"
	"time"
)

// SubmitExamRequest carries the raw score object, {"MATH": {"correct": 30, "incorrect": 4}, ...}.
type SubmitExamRequest struct {
	ExamType string          `json:"exam_type" validate:"required"`
	Date     string          `json:"date,omitempty"`
	Scores   json.RawMessage `json:"scores" validate:"required"`
}

type EditExamRequest struct {
	ID     int64           `json:"id" validate:"gt=0"`
	Date   string          `json:"date,omitempty"`
	Scores json.RawMessage `json:"scores" validate:"required"`
}

type ListExamsRequest struct {
	Pagination *PaginationRequest `json:"pagination,omitempty"`
	Filter     string             `json:"filter,omitempty"`
	OrderBy    string             `json:"order_by,omitempty"`
}

type ListExamsResponse struct {
	Exams      []*Exam             `json:"exams"`
	Pagination *PaginationResponse `json:"pagination"`
}

type Exam struct {
	ID        int64         `json:"id"`
	ExamType  string        `json:"exam_type"`
	Date      string        `json:"date"`
	TotalNet  float64       `json:"total_net"`
	CreatedAt time.Time     `json:"created_at"`
	Results   []*ExamResult `json:"results,omitempty"`
}

type ExamResult struct {
	ID             int64   `json:"id"`
	SubjectID      int64   `json:"subject_id"`
	SubjectName    string  `json:"subject_name"`
	CorrectCount   int     `json:"correct_count"`
	IncorrectCount int     `json:"incorrect_count"`
	Net            float64 `json:"net"`
}
