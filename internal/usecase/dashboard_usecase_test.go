package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/repository/repotest"
)

func TestDashboard(t *testing.T) {
	store := repotest.NewStore()
	exams := newExamUsecase(store)
	books := newBookUsecase(store)
	study := newStudyUsecase(store)
	uc := &dashboardUsecase{
		store:  store,
		books:  books,
		study:  study,
		target: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		clock:  fixedClock,
	}
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		sheet := entity.ScoreSheet{Entries: []entity.ScoreEntry{
			{Code: "MATH", Score: entity.Score{Correct: 20 + i}},
			{Code: "TURKISH", Score: entity.Score{Correct: 30, Incorrect: 4}},
		}}
		if _, err := exams.SubmitExam(ctx, "user-1", entity.ExamTypeTYT, fixedNow.AddDate(0, 0, -10+i), sheet); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if _, err := exams.SubmitExam(ctx, "user-1", entity.ExamTypeAYT, fixedNow.AddDate(0, 0, -20), entity.ScoreSheet{Entries: []entity.ScoreEntry{
		{Code: "PHYSICS", Score: entity.Score{Correct: 10, Incorrect: 4}},
	}}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	book, _ := books.AddBook(ctx, "user-1", BookInput{Title: "Legacy", TotalUnits: 10})
	if _, err := books.UpdateBookProgress(ctx, "user-1", book.ID, 3); err != nil {
		t.Fatalf("progress: %v", err)
	}
	if _, err := study.AddSession(ctx, "user-1", SessionInput{DurationMinutes: 25}); err != nil {
		t.Fatalf("session: %v", err)
	}

	got, err := uc.Dashboard(ctx, "user-1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	// TYT nets are 49..54, AYT has a single 9.
	if got.TYTAverage != 51.5 || got.AYTAverage != 9 {
		t.Fatalf("unexpected averages: %v / %v", got.TYTAverage, got.AYTAverage)
	}
	if got.CompletedUnits != 3 || got.TodayStudyMinutes != 25 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if got.DaysLeft != 10 {
		t.Fatalf("expected 10 days left, got %d", got.DaysLeft)
	}
	if len(got.RecentExams) != 5 || got.RecentExams[0].TotalNet != 54 {
		t.Fatalf("unexpected recent exams: %+v", got.RecentExams)
	}
	if len(got.Progression) != 7 || got.Progression[0].ExamType != entity.ExamTypeAYT {
		t.Fatalf("expected progression oldest first, got %+v", got.Progression)
	}
	want := map[string]int{"Fizik": 9, "Matematik": 23, "Türkçe": 29}
	if len(got.SubjectAverages) != len(want) {
		t.Fatalf("unexpected radar: %+v", got.SubjectAverages)
	}
	for _, avg := range got.SubjectAverages {
		if want[avg.Subject] != avg.Score || avg.FullMark != 40 {
			t.Fatalf("unexpected radar axis: %+v", avg)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	target := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2026, 6, 13, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2026, 6, 12, 23, 0, 0, 0, time.UTC), 2},
		{target, 0},
		{target.AddDate(0, 1, 0), 0},
	}
	for _, tc := range cases {
		if got := daysUntil(tc.now, target); got != tc.want {
			t.Errorf("daysUntil(%v) = %d, want %d", tc.now, got, tc.want)
		}
	}
}
