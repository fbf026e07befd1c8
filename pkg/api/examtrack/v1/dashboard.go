package examtrackv1

type Dashboard struct {
	TYTAverage        float64           `json:"tyt_average"`
	AYTAverage        float64           `json:"ayt_average"`
	CompletedUnits    int               `json:"completed_units"`
	TodayStudyMinutes int               `json:"today_study_minutes"`
	DaysLeft          int               `json:"days_left"`
	RecentExams       []*Exam           `json:"recent_exams"`
	Progression       []*NetPoint       `json:"progression"`
	SubjectAverages   []*SubjectAverage `json:"subject_averages"`
}

type NetPoint struct {
	Date     string  `json:"date"`
	ExamType string  `json:"exam_type"`
	TotalNet float64 `json:"total_net"`
}

type SubjectAverage struct {
	Subject  string `json:"subject"`
	Score    int    `json:"score"`
	FullMark int    `json:"full_mark"`
}
