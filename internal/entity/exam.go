package entity

import "time"

// Exam is a scored mock exam header.
type Exam struct {
	ID        int64
	UserID    string
	Type      ExamType
	Date      time.Time
	TotalNet  float64
	CreatedAt time.Time
	Results   []ExamResult
}

// ExamResult holds one subject's answer counts for an exam.
type ExamResult struct {
	ID             int64
	ExamID         int64
	SubjectID      int64
	SubjectName    string
	CorrectCount   int
	IncorrectCount int
	Net            float64
}

// Score is a raw correct/incorrect pair.
type Score struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Attempted reports whether any question was answered.
func (s Score) Attempted() bool { return s.Correct != 0 || s.Incorrect != 0 }

// ScoreEntry binds a validated subject code to its score.
type ScoreEntry struct {
	Code  string
	Score Score
}

// ScoreSheet is the validated, ordered form of a submitted score payload.
type ScoreSheet struct {
	ExamType ExamType
	Entries  []ScoreEntry
}

// Attempted returns the entries that carry at least one answer.
func (s ScoreSheet) Attempted() []ScoreEntry {
	out := make([]ScoreEntry, 0, len(s.Entries))
	for _, e := range s.Entries {
		if e.Score.Attempted() {
			out = append(out, e)
		}
	}
	return out
}

// Subject is a shared lookup row keyed by (name, type).
type Subject struct {
	ID   int64
	Name string
	Type ExamType
}
