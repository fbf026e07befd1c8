package repository

// Collection names of the backing store.
const (
	Exams         = "exams"
	Subjects      = "subjects"
	ExamResults   = "exam_results"
	Books         = "books"
	BookUnits     = "book_units"
	BookTests     = "book_tests"
	Goals         = "goals"
	StudySessions = "study_sessions"
	Profiles      = "profiles"
)
