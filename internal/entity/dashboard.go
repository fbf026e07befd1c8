package entity

import "time"

// NetPoint is one exam on the net progression chart.
type NetPoint struct {
	Date     time.Time
	ExamType ExamType
	TotalNet float64
}

// SubjectAverage is one axis of the subject radar.
type SubjectAverage struct {
	Subject  string
	Score    int
	FullMark int
}

// Dashboard is the landing page summary.
type Dashboard struct {
	TYTAverage        float64
	AYTAverage        float64
	CompletedUnits    int
	TodayStudyMinutes int
	DaysLeft          int
	RecentExams       []Exam
	Progression       []NetPoint
	SubjectAverages   []SubjectAverage
}
