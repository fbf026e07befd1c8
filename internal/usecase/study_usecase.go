package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/examtrack/internal/catalog"
	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/repository"
)

// generalSubject labels minutes logged without a subject.
const generalSubject = "General"

// SessionInput describes a study session to log. A zero Date means today and
// SubjectCode is optional.
type SessionInput struct {
	DurationMinutes int
	Date            time.Time
	SubjectCode     string
	ExamType        entity.ExamType
	Notes           string
}

// StudyUsecase logs study time and summarises it.
type StudyUsecase interface {
	AddSession(ctx context.Context, userID string, in SessionInput) (*entity.StudySession, error)
	ListSessions(ctx context.Context, userID string, start, end *time.Time) ([]entity.StudySession, error)
	TodayStats(ctx context.Context, userID string) (*entity.DailyStudy, error)
	DeleteSession(ctx context.Context, userID string, sessionID int64) error
}

// NewStudyUsecase wires the store with default behaviour.
func NewStudyUsecase(store repository.Store) StudyUsecase {
	return &studyUsecase{
		store: store,
		clock: time.Now,
	}
}

type studyUsecase struct {
	store repository.Store
	clock func() time.Time
}

func (u *studyUsecase) AddSession(ctx context.Context, userID string, in SessionInput) (*entity.StudySession, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	if in.DurationMinutes <= 0 {
		return nil, entity.ErrInvalidDuration
	}
	now := u.clock().UTC()
	session := entity.StudySession{
		UserID:          userID,
		DurationMinutes: in.DurationMinutes,
		SessionDate:     entity.DateOf(now),
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       now,
	}
	if !in.Date.IsZero() {
		session.SessionDate = entity.DateOf(in.Date)
	}
	if strings.TrimSpace(in.SubjectCode) != "" {
		examType := entity.ExamTypeTYT
		if in.ExamType != "" {
			if examType, err = entity.ParseExamType(string(in.ExamType)); err != nil {
				return nil, err
			}
		}
		code, err := catalog.ParseCode(examType, in.SubjectCode)
		if err != nil {
			return nil, err
		}
		session.SubjectName = catalog.CanonicalName(code)
		id, err := catalog.GetOrCreateSubject(ctx, u.store, session.SubjectName, examType)
		if err != nil {
			return nil, err
		}
		session.SubjectID = &id
	}

	row, err := u.store.Insert(ctx, repository.StudySessions, repository.Row{
		"user_id":          session.UserID,
		"subject_id":       session.SubjectID,
		"duration_minutes": session.DurationMinutes,
		"session_date":     session.SessionDate,
		"notes":            nullable(session.Notes),
		"created_at":       session.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	session.ID = row.Int64("id")
	return &session, nil
}

// ListSessions returns sessions newest first, optionally bounded by inclusive dates.
func (u *studyUsecase) ListSessions(ctx context.Context, userID string, start, end *time.Time) ([]entity.StudySession, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	q := repository.Where(repository.Filter{"user_id": userID})
	if start != nil {
		q.And("session_date", repository.OpGTE, entity.DateOf(*start))
	}
	if end != nil {
		q.And("session_date", repository.OpLTE, entity.DateOf(*end))
	}
	q.Order("session_date", true).Order("created_at", true)
	return u.load(ctx, q)
}

func (u *studyUsecase) load(ctx context.Context, q *repository.Query) ([]entity.StudySession, error) {
	rows, err := u.store.Select(ctx, repository.StudySessions, q)
	if err != nil {
		return nil, err
	}
	names, err := catalog.SubjectNames(ctx, u.store, subjectIDs(rows))
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(r repository.Row, _ int) entity.StudySession {
		s := mapSession(r)
		if s.SubjectID != nil {
			s.SubjectName = names[*s.SubjectID]
		}
		return s
	}), nil
}

// TodayStats totals today's sessions and breaks them down by subject, largest first.
func (u *studyUsecase) TodayStats(ctx context.Context, userID string) (*entity.DailyStudy, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	today := entity.DateOf(u.clock())
	sessions, err := u.load(ctx, repository.Where(repository.Filter{"user_id": userID, "session_date": today}))
	if err != nil {
		return nil, err
	}
	return summarizeDay(today, sessions), nil
}

func summarizeDay(day time.Time, sessions []entity.StudySession) *entity.DailyStudy {
	stats := &entity.DailyStudy{Date: day, SessionCount: len(sessions), Breakdown: []entity.SubjectMinutes{}}
	minutes := make(map[string]int)
	var order []string
	for _, s := range sessions {
		stats.TotalMinutes += s.DurationMinutes
		name := s.SubjectName
		if name == "" {
			name = generalSubject
		}
		if _, ok := minutes[name]; !ok {
			order = append(order, name)
		}
		minutes[name] += s.DurationMinutes
	}
	for _, name := range order {
		stats.Breakdown = append(stats.Breakdown, entity.SubjectMinutes{Subject: name, Minutes: minutes[name]})
	}
	sort.SliceStable(stats.Breakdown, func(i, j int) bool {
		return stats.Breakdown[i].Minutes > stats.Breakdown[j].Minutes
	})
	return stats
}

func (u *studyUsecase) DeleteSession(ctx context.Context, userID string, sessionID int64) error {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return err
	}
	if sessionID <= 0 {
		return entity.ErrSessionNotFound
	}
	n, err := u.store.Delete(ctx, repository.StudySessions, repository.Filter{"id": sessionID, "user_id": userID})
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrSessionNotFound
	}
	return nil
}
