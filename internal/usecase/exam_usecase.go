package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/eslsoft/examtrack/internal/catalog"
	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/repository"
	"github.com/eslsoft/examtrack/internal/scoring"
	"github.com/eslsoft/examtrack/pkg/filterexpr"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ExamUsecase scores and stores mock exams.
type ExamUsecase interface {
	ParseScores(examType entity.ExamType, raw []byte) (entity.ScoreSheet, error)
	SubmitExam(ctx context.Context, userID string, examType entity.ExamType, date time.Time, sheet entity.ScoreSheet) (*entity.Exam, error)
	EditExam(ctx context.Context, userID string, examID int64, date time.Time, sheet entity.ScoreSheet) (*entity.Exam, error)
	DeleteExam(ctx context.Context, userID string, examID int64) error
	GetExam(ctx context.Context, userID string, examID int64) (*entity.Exam, error)
	ListExams(ctx context.Context, query *repository.ListExamQuery) ([]entity.Exam, int64, error)
}

// NewExamUsecase wires the store with default behaviour.
func NewExamUsecase(store repository.Store) ExamUsecase {
	return &examUsecase{
		store: store,
		clock: time.Now,
	}
}

type examUsecase struct {
	store repository.Store
	clock func() time.Time
}

var listExamsSchema = filterexpr.ResourceSchema{
	Filter: map[string]filterexpr.FilterField{
		"exam_type": {
			Column: "type",
			Kind:   filterexpr.KindString,
			Ops:  []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpIN},
			Normalize: func(v any) (any, error) {
				t, err := entity.ParseExamType(v.(string))
				return string(t), err
			},
		},
		"date": {
			Kind: filterexpr.KindTimestamp,
			Ops:  []filterexpr.Op{filterexpr.OpGT, filterexpr.OpGTE, filterexpr.OpLT, filterexpr.OpLTE},
		},
		"total_net": {
			Kind: filterexpr.KindNumber,
			Ops:  []filterexpr.Op{filterexpr.OpGTE, filterexpr.OpLTE},
		},
	},
	Order: filterexpr.OrderSchema{
		Default:     "date",
		DefaultDesc: true,
		Fallback:    "id",
		Fields: map[string]filterexpr.OrderField{
			"date":       {},
			"total_net":  {},
			"created_at": {},
			"id":         {},
		},
	},
}

// ParseScores decodes a {"CODE": {"correct": n, "incorrect": m}} payload and
// validates every code against the exam type's subject list. Unattempted
// subjects are dropped and the entries come back in display order.
func (u *examUsecase) ParseScores(examType entity.ExamType, raw []byte) (entity.ScoreSheet, error) {
	examType, err := entity.ParseExamType(string(examType))
	if err != nil {
		return entity.ScoreSheet{}, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var payload map[string]entity.Score
	if err := dec.Decode(&payload); err != nil {
		return entity.ScoreSheet{}, fmt.Errorf("%w: %v", entity.ErrInvalidPayload, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return entity.ScoreSheet{}, fmt.Errorf("%w: trailing data after score object", entity.ErrInvalidPayload)
	}

	sheet := entity.ScoreSheet{ExamType: examType}
	seen := make(map[string]struct{}, len(payload))
	for rawCode, score := range payload {
		code, err := catalog.ParseCode(examType, rawCode)
		if err != nil {
			return entity.ScoreSheet{}, fmt.Errorf("%w: %q", err, rawCode)
		}
		if _, dup := seen[code]; dup {
			return entity.ScoreSheet{}, fmt.Errorf("%w: duplicate subject %q", entity.ErrInvalidPayload, code)
		}
		seen[code] = struct{}{}
		if score.Correct < 0 || score.Incorrect < 0 {
			return entity.ScoreSheet{}, entity.ErrNegativeCount
		}
		if !score.Attempted() {
			continue
		}
		sheet.Entries = append(sheet.Entries, entity.ScoreEntry{Code: code, Score: score})
	}
	sort.Slice(sheet.Entries, func(i, j int) bool {
		return catalog.OrderOf(examType, sheet.Entries[i].Code) < catalog.OrderOf(examType, sheet.Entries[j].Code)
	})
	return sheet, nil
}

// retained re-validates a sheet for examType and keeps the attempted entries.
func retained(examType entity.ExamType, sheet entity.ScoreSheet) ([]entity.ScoreEntry, error) {
	if sheet.ExamType != "" && sheet.ExamType != examType {
		return nil, fmt.Errorf("%w: sheet is for %s", entity.ErrInvalidExamType, sheet.ExamType)
	}
	entries := make([]entity.ScoreEntry, 0, len(sheet.Entries))
	for _, e := range sheet.Attempted() {
		code, err := catalog.ParseCode(examType, e.Code)
		if err != nil {
			return nil, err
		}
		if e.Score.Correct < 0 || e.Score.Incorrect < 0 {
			return nil, entity.ErrNegativeCount
		}
		entries = append(entries, entity.ScoreEntry{Code: code, Score: e.Score})
	}
	if len(entries) == 0 {
		return nil, entity.ErrNoScoredSubjects
	}
	return entries, nil
}

func totalOf(entries []entity.ScoreEntry) float64 {
	scores := make([]entity.Score, len(entries))
	for i, e := range entries {
		scores[i] = e.Score
	}
	return scoring.TotalNet(scores)
}

func (u *examUsecase) SubmitExam(ctx context.Context, userID string, examType entity.ExamType, date time.Time, sheet entity.ScoreSheet) (*entity.Exam, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	examType, err = entity.ParseExamType(string(examType))
	if err != nil {
		return nil, err
	}
	entries, err := retained(examType, sheet)
	if err != nil {
		return nil, err
	}

	now := u.clock().UTC()
	if date.IsZero() {
		date = now
	}
	exam := &entity.Exam{
		UserID:    userID,
		Type:      examType,
		Date:      entity.DateOf(date),
		TotalNet:  totalOf(entries),
		CreatedAt: now,
	}

	err = u.store.InTx(ctx, func(tx repository.Store) error {
		row, err := tx.Insert(ctx, repository.Exams, repository.Row{
			"user_id":    exam.UserID,
			"type":       string(exam.Type),
			"date":       exam.Date,
			"total_net":  exam.TotalNet,
			"created_at": exam.CreatedAt,
		})
		if err != nil {
			return err
		}
		exam.ID = row.Int64("id")
		exam.Results, err = insertResults(ctx, tx, exam.ID, examType, entries)
		return err
	})
	if err != nil {
		return nil, err
	}
	return exam, nil
}

func insertResults(ctx context.Context, tx repository.Store, examID int64, examType entity.ExamType, entries []entity.ScoreEntry) ([]entity.ExamResult, error) {
	results := make([]entity.ExamResult, 0, len(entries))
	for _, e := range entries {
		name := catalog.CanonicalName(e.Code)
		subjectID, err := catalog.GetOrCreateSubject(ctx, tx, name, examType)
		if err != nil {
			return nil, err
		}
		row, err := tx.Insert(ctx, repository.ExamResults, repository.Row{
			"exam_id":         examID,
			"subject_id":      subjectID,
			"correct_count":   e.Score.Correct,
			"incorrect_count": e.Score.Incorrect,
		})
		if err != nil {
			return nil, err
		}
		results = append(results, entity.ExamResult{
			ID:             row.Int64("id"),
			ExamID:         examID,
			SubjectID:      subjectID,
			SubjectName:    name,
			CorrectCount:   e.Score.Correct,
			IncorrectCount: e.Score.Incorrect,
			Net:            scoring.NetForSubject(e.Score.Correct, e.Score.Incorrect),
		})
	}
	return results, nil
}

// EditExam replaces every result of the exam and recomputes its total. A zero
// date keeps the stored one.
func (u *examUsecase) EditExam(ctx context.Context, userID string, examID int64, date time.Time, sheet entity.ScoreSheet) (*entity.Exam, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	row, err := loadOwned(ctx, u.store, repository.Exams, userID, examID, entity.ErrExamNotFound)
	if err != nil {
		return nil, err
	}
	exam := mapExam(row)
	entries, err := retained(exam.Type, sheet)
	if err != nil {
		return nil, err
	}
	exam.TotalNet = totalOf(entries)
	if !date.IsZero() {
		exam.Date = entity.DateOf(date)
	}

	err = u.store.InTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Delete(ctx, repository.ExamResults, repository.Filter{"exam_id": exam.ID}); err != nil {
			return err
		}
		var err error
		if exam.Results, err = insertResults(ctx, tx, exam.ID, exam.Type, entries); err != nil {
			return err
		}
		_, err = tx.Update(ctx, repository.Exams, repository.Filter{"id": exam.ID, "user_id": userID}, repository.Row{
			"total_net": exam.TotalNet,
			"date":      exam.Date,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (u *examUsecase) DeleteExam(ctx context.Context, userID string, examID int64) error {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return err
	}
	if examID <= 0 {
		return entity.ErrExamNotFound
	}
	n, err := u.store.Delete(ctx, repository.Exams, repository.Filter{"id": examID, "user_id": userID})
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrExamNotFound
	}
	return nil
}

func (u *examUsecase) GetExam(ctx context.Context, userID string, examID int64) (*entity.Exam, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	row, err := loadOwned(ctx, u.store, repository.Exams, userID, examID, entity.ErrExamNotFound)
	if err != nil {
		return nil, err
	}
	exam := mapExam(row)
	results, err := loadResults(ctx, u.store, []int64{exam.ID})
	if err != nil {
		return nil, err
	}
	exam.Results = results[exam.ID]
	return &exam, nil
}

// loadResults returns the results of the given exams keyed by exam id, with
// subject names and nets filled in.
func loadResults(ctx context.Context, store repository.Store, examIDs []int64) (map[int64][]entity.ExamResult, error) {
	out := make(map[int64][]entity.ExamResult, len(examIDs))
	if len(examIDs) == 0 {
		return out, nil
	}
	ids := make([]any, len(examIDs))
	for i, id := range examIDs {
		ids[i] = id
	}
	rows, err := store.Select(ctx, repository.ExamResults, (&repository.Query{}).And("exam_id", repository.OpIN, ids))
	if err != nil {
		return nil, err
	}
	names, err := catalog.SubjectNames(ctx, store, subjectIDs(rows))
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		res := entity.ExamResult{
			ID:             r.Int64("id"),
			ExamID:         r.Int64("exam_id"),
			SubjectID:      r.Int64("subject_id"),
			CorrectCount:   r.Int("correct_count"),
			IncorrectCount: r.Int("incorrect_count"),
		}
		res.SubjectName = names[res.SubjectID]
		res.Net = scoring.NetForSubject(res.CorrectCount, res.IncorrectCount)
		out[res.ExamID] = append(out[res.ExamID], res)
	}
	return out, nil
}

func (u *examUsecase) ListExams(ctx context.Context, query *repository.ListExamQuery) ([]entity.Exam, int64, error) {
	if query == nil {
		return nil, 0, entity.ErrNotAuthenticated
	}
	userID, err := entity.NormalizeUserID(query.UserID)
	if err != nil {
		return nil, 0, err
	}
	compiled, err := filterexpr.Compile(&query.FilterOrder, listExamsSchema)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", entity.ErrInvalidFilter, err)
	}

	q := repository.Where(repository.Filter{"user_id": userID})
	for _, p := range compiled.Predicates {
		q.And(p.Column, predicateOp(p.Op), p.Value)
	}
	total, err := u.store.Count(ctx, repository.Exams, q)
	if err != nil {
		return nil, 0, err
	}
	for _, o := range compiled.Order {
		q.Order(o.Column, o.Desc)
	}
	size := int(query.PageSize)
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	page := query.Pagination
	page.PageSize = int32(size)
	q.Page(size, int(page.Offset()))

	rows, err := u.store.Select(ctx, repository.Exams, q)
	if err != nil {
		return nil, 0, err
	}
	exams := make([]entity.Exam, len(rows))
	for i, r := range rows {
		exams[i] = mapExam(r)
	}
	return exams, total, nil
}

func predicateOp(op filterexpr.Op) repository.Op {
	switch op {
	case filterexpr.OpGT:
		return repository.OpGT
	case filterexpr.OpGTE:
		return repository.OpGTE
	case filterexpr.OpLT:
		return repository.OpLT
	case filterexpr.OpLTE:
		return repository.OpLTE
	case filterexpr.OpIN:
		return repository.OpIN
	default:
		return repository.OpEQ
	}
}
