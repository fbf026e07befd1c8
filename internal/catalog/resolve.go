package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/repository"
)

// GetOrCreateSubject returns the id of the (name, examType) subject row,
// creating it when missing. The insert is conflict-tolerant so concurrent
// callers converge on one row.
func GetOrCreateSubject(ctx context.Context, store repository.Store, name string, examType entity.ExamType) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, entity.ErrUnknownSubject
	}
	filter := repository.Filter{"name": name, "type": string(examType)}

	if err := store.InsertIgnore(ctx, repository.Subjects, repository.Row{"name": name, "type": string(examType)}, "name", "type"); err != nil {
		return 0, fmt.Errorf("ensure subject %q: %w", name, err)
	}
	row, err := store.SelectOne(ctx, repository.Subjects, filter)
	if err != nil {
		return 0, fmt.Errorf("lookup subject %q: %w", name, err)
	}
	if row == nil {
		return 0, entity.ErrSubjectNotFound
	}
	return row.Int64("id"), nil
}

// SubjectNames loads the names of the given subject ids.
func SubjectNames(ctx context.Context, store repository.Store, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}
	rows, err := store.Select(ctx, repository.Subjects, &repository.Query{
		Where: []repository.Cond{{Column: "id", Op: repository.OpIN, Value: values}},
	})
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	for _, row := range rows {
		names[row.Int64("id")] = row.String("name")
	}
	return names, nil
}

// Seed creates the subject rows of every exam type and returns how many
// subjects the catalog holds.
func Seed(ctx context.Context, store repository.Store) (int, error) {
	n := 0
	for _, examType := range []entity.ExamType{entity.ExamTypeTYT, entity.ExamTypeAYT} {
		for _, code := range subjectsByType[examType] {
			if _, err := GetOrCreateSubject(ctx, store, CanonicalName(code), examType); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
