package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/repository/repotest"
)

func TestAddSession(t *testing.T) {
	uc := newStudyUsecase(repotest.NewStore())
	ctx := context.Background()

	session, err := uc.AddSession(ctx, "user-1", SessionInput{DurationMinutes: 45, SubjectCode: "chemistry", Notes: " organic "})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !session.SessionDate.Equal(entity.DateOf(fixedNow)) {
		t.Fatalf("expected today, got %v", session.SessionDate)
	}
	if session.SubjectName != "Kimya" || session.SubjectID == nil || session.Notes != "organic" {
		t.Fatalf("unexpected session: %+v", session)
	}

	for _, minutes := range []int{0, -5} {
		if _, err := uc.AddSession(ctx, "user-1", SessionInput{DurationMinutes: minutes}); !errors.Is(err, entity.ErrInvalidDuration) {
			t.Fatalf("expected ErrInvalidDuration for %d, got %v", minutes, err)
		}
	}
}

func TestTodayStats(t *testing.T) {
	uc := newStudyUsecase(repotest.NewStore())
	ctx := context.Background()

	inputs := []SessionInput{
		{DurationMinutes: 30, SubjectCode: "MATH"},
		{DurationMinutes: 50},
		{DurationMinutes: 40, SubjectCode: "MATH"},
		{DurationMinutes: 90, SubjectCode: "MATH", Date: fixedNow.AddDate(0, 0, -1)},
	}
	for _, in := range inputs {
		if _, err := uc.AddSession(ctx, "user-1", in); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if _, err := uc.AddSession(ctx, "user-2", SessionInput{DurationMinutes: 15}); err != nil {
		t.Fatalf("add: %v", err)
	}

	stats, err := uc.TodayStats(ctx, "user-1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalMinutes != 120 || stats.SessionCount != 3 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	want := []entity.SubjectMinutes{{Subject: "Matematik", Minutes: 70}, {Subject: "General", Minutes: 50}}
	if len(stats.Breakdown) != len(want) {
		t.Fatalf("unexpected breakdown: %+v", stats.Breakdown)
	}
	for i := range want {
		if stats.Breakdown[i] != want[i] {
			t.Fatalf("breakdown[%d]: expected %+v, got %+v", i, want[i], stats.Breakdown[i])
		}
	}
}

func TestListSessions_Range(t *testing.T) {
	uc := newStudyUsecase(repotest.NewStore())
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := uc.AddSession(ctx, "user-1", SessionInput{DurationMinutes: 10 + i, Date: fixedNow.AddDate(0, 0, -i)}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	all, err := uc.ListSessions(ctx, "user-1", nil, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 || all[0].DurationMinutes != 10 || all[3].DurationMinutes != 13 {
		t.Fatalf("expected newest first, got %+v", all)
	}

	start := fixedNow.AddDate(0, 0, -2)
	end := fixedNow.AddDate(0, 0, -1).Add(-time.Hour)
	ranged, err := uc.ListSessions(ctx, "user-1", &start, &end)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ranged) != 2 || ranged[0].DurationMinutes != 11 || ranged[1].DurationMinutes != 12 {
		t.Fatalf("unexpected range: %+v", ranged)
	}

	if err := uc.DeleteSession(ctx, "user-2", all[0].ID); !errors.Is(err, entity.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := uc.DeleteSession(ctx, "user-1", all[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
