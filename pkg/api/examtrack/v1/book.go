package examtrackv1

import "time"

type AddBookRequest struct {
	Title       string `json:"title" validate:"required"`
	TotalUnits  int    `json:"total_units" validate:"gt=0"`
	SubjectCode string `json:"subject_code,omitempty"`
	ExamType    string `json:"exam_type,omitempty"`
}

type UpdateBookProgressRequest struct {
	ID             int64 `json:"id" validate:"gt=0"`
	CompletedUnits int   `json:"completed_units" validate:"gte=0"`
}

type ListBooksResponse struct {
	Books []*Book `json:"books"`
}

type Book struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	SubjectID      *int64      `json:"subject_id,omitempty"`
	SubjectName    string      `json:"subject_name,omitempty"`
	TotalUnits     int         `json:"total_units"`
	CompletedUnits int         `json:"completed_units"`
	Progress       Progress    `json:"progress"`
	CreatedAt      time.Time   `json:"created_at"`
	Units          []*BookUnit `json:"units,omitempty"`
}

// Progress is the resolved completion of a book.
type Progress struct {
	Completed  int  `json:"completed"`
	Total      int  `json:"total"`
	Percentage int  `json:"percentage"`
	ByUnits    bool `json:"by_units"`
}

type AddUnitRequest struct {
	BookID    int64  `json:"book_id" validate:"gt=0"`
	UnitName  string `json:"unit_name" validate:"required"`
	UnitOrder int    `json:"unit_order,omitempty" validate:"gte=0"`
}

type ToggleRequest struct {
	ID   int64 `json:"id" validate:"gt=0"`
	Done bool  `json:"done"`
}

type BookUnit struct {
	ID          int64       `json:"id"`
	BookID      int64       `json:"book_id"`
	UnitName    string      `json:"unit_name"`
	UnitOrder   int         `json:"unit_order"`
	IsCompleted bool        `json:"is_completed"`
	Tests       []*BookTest `json:"tests,omitempty"`
	Stats       *UnitStats  `json:"stats,omitempty"`
}

type UnitStats struct {
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	WrongAnswers   int     `json:"wrong_answers"`
	SuccessRate    int     `json:"success_rate"`
	Net            float64 `json:"net"`
}

// SaveTestRequest adds a test to UnitID, or rewrites test ID when set.
type SaveTestRequest struct {
	ID             int64  `json:"id,omitempty" validate:"gte=0"`
	UnitID         int64  `json:"unit_id,omitempty" validate:"gte=0"`
	TestName       string `json:"test_name,omitempty"`
	TotalQuestions int    `json:"total_questions" validate:"gte=0"`
	CorrectAnswers int    `json:"correct_answers" validate:"gte=0"`
	WrongAnswers   int    `json:"wrong_answers" validate:"gte=0"`
}

type BookTest struct {
	ID             int64  `json:"id"`
	UnitID         int64  `json:"unit_id"`
	TestName       string `json:"test_name,omitempty"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`
	WrongAnswers   int    `json:"wrong_answers"`
}
