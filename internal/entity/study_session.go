package entity

import "time"

// StudySession is a block of study time logged by a user.
type StudySession struct {
	ID              int64
	UserID          string
	SubjectID       *int64
	SubjectName     string
	DurationMinutes int
	SessionDate     time.Time
	Notes           string
	CreatedAt       time.Time
}

// SubjectMinutes is one slice of a daily breakdown.
type SubjectMinutes struct {
	Subject string
	Minutes int
}

// DailyStudy summarises the sessions of a single day.
type DailyStudy struct {
	Date         time.Time
	TotalMinutes int
	SessionCount int
	Breakdown    []SubjectMinutes
}

// Profile stores per-user preferences.
type Profile struct {
	UserID     string
	StudyField StudyField
	UpdatedAt  time.Time
}
