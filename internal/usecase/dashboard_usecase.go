package usecase

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/repository"
	"github.com/eslsoft/examtrack/internal/scoring"
)

const (
	recentExamCount = 5
	radarFullMark   = 40
)

// TargetDate is the calendar day of the exam the dashboard counts down to.
type TargetDate time.Time

// DashboardUsecase builds the landing page summary.
type DashboardUsecase interface {
	Dashboard(ctx context.Context, userID string) (*entity.Dashboard, error)
}

// NewDashboardUsecase composes the book and study usecases with the exam store.
func NewDashboardUsecase(store repository.Store, books BookUsecase, study StudyUsecase, target TargetDate) DashboardUsecase {
	return &dashboardUsecase{
		store:  store,
		books:  books,
		study:  study,
		target: entity.DateOf(time.Time(target)),
		clock:  time.Now,
	}
}

type dashboardUsecase struct {
	store  repository.Store
	books  BookUsecase
	study  StudyUsecase
	target time.Time
	clock  func() time.Time
}

func (u *dashboardUsecase) Dashboard(ctx context.Context, userID string) (*entity.Dashboard, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	rows, err := u.store.Select(ctx, repository.Exams, repository.Where(repository.Filter{"user_id": userID}).Order("date", false))
	if err != nil {
		return nil, err
	}
	exams := lo.Map(rows, func(r repository.Row, _ int) entity.Exam { return mapExam(r) })

	out := &entity.Dashboard{
		DaysLeft:        daysUntil(u.clock(), u.target),
		RecentExams:     []entity.Exam{},
		Progression:     make([]entity.NetPoint, 0, len(exams)),
		SubjectAverages: []entity.SubjectAverage{},
	}
	byType := lo.GroupBy(exams, func(e entity.Exam) entity.ExamType { return e.Type })
	out.TYTAverage = scoring.Average(lo.Map(byType[entity.ExamTypeTYT], func(e entity.Exam, _ int) float64 { return e.TotalNet }))
	out.AYTAverage = scoring.Average(lo.Map(byType[entity.ExamTypeAYT], func(e entity.Exam, _ int) float64 { return e.TotalNet }))

	for _, e := range exams {
		out.Progression = append(out.Progression, entity.NetPoint{Date: e.Date, ExamType: e.Type, TotalNet: e.TotalNet})
	}
	for i := len(exams) - 1; i >= 0 && len(out.RecentExams) < recentExamCount; i-- {
		out.RecentExams = append(out.RecentExams, exams[i])
	}

	results, err := loadResults(ctx, u.store, lo.Map(exams, func(e entity.Exam, _ int) int64 { return e.ID }))
	if err != nil {
		return nil, err
	}
	out.SubjectAverages = subjectAverages(results)

	books, err := u.books.ListBooks(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, b := range books {
		out.CompletedUnits += b.Progress.Completed()
	}

	today, err := u.study.TodayStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	out.TodayStudyMinutes = today.TotalMinutes
	return out, nil
}

// subjectAverages averages the per subject nets and orders the axes by name.
func subjectAverages(results map[int64][]entity.ExamResult) []entity.SubjectAverage {
	nets := make(map[string][]float64)
	for _, rs := range results {
		for _, r := range rs {
			nets[r.SubjectName] = append(nets[r.SubjectName], r.Net)
		}
	}
	names := lo.Keys(nets)
	sort.Strings(names)
	out := make([]entity.SubjectAverage, 0, len(names))
	for _, name := range names {
		out = append(out, entity.SubjectAverage{
			Subject:  name,
			Score:    int(math.Round(scoring.Average(nets[name]))),
			FullMark: radarFullMark,
		})
	}
	return out
}

// daysUntil counts whole days from now to target, rounding partial days up.
func daysUntil(now, target time.Time) int {
	left := target.Sub(now.UTC())
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}
