package usecase

import (
	"context"

	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/repository"
)

// loadOwned fetches a user scoped row by id, mapping a miss to notFound.
func loadOwned(ctx context.Context, store repository.Store, collection, userID string, id int64, notFound error) (repository.Row, error) {
	if id <= 0 {
		return nil, notFound
	}
	row, err := store.SelectOne(ctx, collection, repository.Filter{"id": id, "user_id": userID})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound
	}
	return row, nil
}

func subjectIDs(rows []repository.Row) []int64 {
	seen := make(map[int64]struct{}, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		id := r.OptInt64("subject_id")
		if id == nil {
			continue
		}
		if _, ok := seen[*id]; ok {
			continue
		}
		seen[*id] = struct{}{}
		ids = append(ids, *id)
	}
	return ids
}

func mapExam(r repository.Row) entity.Exam {
	return entity.Exam{
		ID:        r.Int64("id"),
		UserID:    r.String("user_id"),
		Type:      entity.ExamType(r.String("type")),
		Date:      r.Time("date"),
		TotalNet:  r.Float64("total_net"),
		CreatedAt: r.Time("created_at"),
	}
}

func mapBook(r repository.Row) entity.Book {
	return entity.Book{
		ID:             r.Int64("id"),
		UserID:         r.String("user_id"),
		Title:          r.String("title"),
		SubjectID:      r.OptInt64("subject_id"),
		TotalUnits:     r.Int("total_units"),
		CompletedUnits: r.Int("completed_units"),
		CreatedAt:      r.Time("created_at"),
	}
}

func mapUnit(r repository.Row) entity.BookUnit {
	return entity.BookUnit{
		ID:          r.Int64("id"),
		BookID:      r.Int64("book_id"),
		UnitName:    r.String("unit_name"),
		UnitOrder:   r.Int("unit_order"),
		IsCompleted: r.Bool("is_completed"),
	}
}

func mapTest(r repository.Row) entity.BookTest {
	return entity.BookTest{
		ID:             r.Int64("id"),
		UnitID:         r.Int64("unit_id"),
		TestName:       r.String("test_name"),
		TotalQuestions: r.Int("total_questions"),
		CorrectAnswers: r.Int("correct_answers"),
		WrongAnswers:   r.Int("wrong_answers"),
	}
}

func mapGoal(r repository.Row) entity.Goal {
	return entity.Goal{
		ID:           r.Int64("id"),
		UserID:       r.String("user_id"),
		Title:        r.String("title"),
		Description:  r.String("description"),
		GoalType:     entity.GoalType(r.String("goal_type")),
		TargetValue:  r.OptInt("target_value"),
		CurrentValue: r.Int("current_value"),
		IsCompleted:  r.Bool("is_completed"),
		DueDate:      r.OptTime("due_date"),
		CreatedAt:    r.Time("created_at"),
	}
}

func mapSession(r repository.Row) entity.StudySession {
	return entity.StudySession{
		ID:              r.Int64("id"),
		UserID:          r.String("user_id"),
		SubjectID:       r.OptInt64("subject_id"),
		DurationMinutes: r.Int("duration_minutes"),
		SessionDate:     r.Time("session_date"),
		Notes:           r.String("notes"),
		CreatedAt:       r.Time("created_at"),
	}
}

// nullable stores blank strings as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
