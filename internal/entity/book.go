package entity

import "time"

// Book is a question bank or course book tracked by a user.
type Book struct {
	ID             int64
	UserID         string
	Title          string
	SubjectID      *int64
	SubjectName    string
	TotalUnits     int
	CompletedUnits int
	CreatedAt      time.Time
	Units          []BookUnit
	Progress       Progress
	Percentage     int
}

// BookUnit is a chapter/topic of a book.
type BookUnit struct {
	ID          int64
	BookID      int64
	UnitName    string
	UnitOrder   int
	IsCompleted bool
	Tests       []BookTest
	Stats       UnitStats
}

// BookTest is a practice test solved inside a unit.
type BookTest struct {
	ID             int64
	UnitID         int64
	TestName       string
	TotalQuestions int
	CorrectAnswers int
	WrongAnswers   int
}

// UnitStats aggregates the tests of a unit.
type UnitStats struct {
	TotalQuestions int
	CorrectAnswers int
	WrongAnswers   int
	SuccessRate    int
	Net            float64
}

// Progress is the completion state of a book. Older books only carry counters,
// newer ones are tracked by unit rows.
type Progress interface {
	Completed() int
	Total() int
}

// UnitProgress derives completion from unit rows.
type UnitProgress struct {
	CompletedUnits int
	Units          int
}

func (p UnitProgress) Completed() int { return p.CompletedUnits }
func (p UnitProgress) Total() int     { return p.Units }

// CounterProgress uses the legacy completed_units/total_units counters.
type CounterProgress struct {
	CompletedUnits int
	TotalUnits     int
}

func (p CounterProgress) Completed() int { return p.CompletedUnits }
func (p CounterProgress) Total() int     { return p.TotalUnits }

// ResolveProgress picks the progress variant for a book once, at load time.
func ResolveProgress(b *Book) Progress {
	if len(b.Units) > 0 {
		done := 0
		for _, u := range b.Units {
			if u.IsCompleted {
				done++
			}
		}
		return UnitProgress{CompletedUnits: done, Units: len(b.Units)}
	}
	return CounterProgress{CompletedUnits: b.CompletedUnits, TotalUnits: b.TotalUnits}
}
