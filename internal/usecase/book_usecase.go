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
	"github.com/eslsoft/examtrack/internal/scoring"
)

// BookInput describes a new book. SubjectCode is optional; ExamType defaults to TYT.
type BookInput struct {
	Title       string
	TotalUnits  int
	SubjectCode string
	ExamType    entity.ExamType
}

// BookUsecase manages books, their units and the practice tests inside them.
type BookUsecase interface {
	AddBook(ctx context.Context, userID string, in BookInput) (*entity.Book, error)
	UpdateBookProgress(ctx context.Context, userID string, bookID int64, completed int) (*entity.Book, error)
	DeleteBook(ctx context.Context, userID string, bookID int64) error
	ListBooks(ctx context.Context, userID string) ([]entity.Book, error)
	GetBook(ctx context.Context, userID string, bookID int64) (*entity.Book, error)

	AddUnit(ctx context.Context, userID string, bookID int64, name string, order int) (*entity.BookUnit, error)
	ToggleUnitCompletion(ctx context.Context, userID string, unitID int64, done bool) (*entity.BookUnit, error)
	DeleteUnit(ctx context.Context, userID string, unitID int64) error

	AddTest(ctx context.Context, userID string, unitID int64, test entity.BookTest) (*entity.BookTest, error)
	UpdateTest(ctx context.Context, userID string, testID int64, test entity.BookTest) (*entity.BookTest, error)
	DeleteTest(ctx context.Context, userID string, testID int64) error
}

// NewBookUsecase wires the store with default behaviour.
func NewBookUsecase(store repository.Store) BookUsecase {
	return &bookUsecase{
		store: store,
		clock: time.Now,
	}
}

type bookUsecase struct {
	store repository.Store
	clock func() time.Time
}

// SummarizeUnit aggregates the tests of a unit.
func SummarizeUnit(tests []entity.BookTest) entity.UnitStats {
	var stats entity.UnitStats
	for _, t := range tests {
		stats.TotalQuestions += t.TotalQuestions
		stats.CorrectAnswers += t.CorrectAnswers
		stats.WrongAnswers += t.WrongAnswers
	}
	stats.SuccessRate = scoring.Percentage(float64(stats.CorrectAnswers), float64(stats.TotalQuestions))
	stats.Net = scoring.NetForSubject(stats.CorrectAnswers, stats.WrongAnswers)
	return stats
}

func finishBook(b *entity.Book) {
	b.Progress = entity.ResolveProgress(b)
	b.Percentage = scoring.Percentage(float64(b.Progress.Completed()), float64(b.Progress.Total()))
}

func (u *bookUsecase) AddBook(ctx context.Context, userID string, in BookInput) (*entity.Book, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || in.TotalUnits <= 0 {
		return nil, entity.ErrInvalidBook
	}
	examType := entity.ExamTypeTYT
	if in.ExamType != "" {
		if examType, err = entity.ParseExamType(string(in.ExamType)); err != nil {
			return nil, err
		}
	}

	book := entity.Book{
		UserID:     userID,
		Title:      title,
		TotalUnits: in.TotalUnits,
		CreatedAt:  u.clock().UTC(),
	}
	if strings.TrimSpace(in.SubjectCode) != "" {
		code, err := catalog.ParseCode(examType, in.SubjectCode)
		if err != nil {
			return nil, err
		}
		book.SubjectName = catalog.CanonicalName(code)
		id, err := catalog.GetOrCreateSubject(ctx, u.store, book.SubjectName, examType)
		if err != nil {
			return nil, err
		}
		book.SubjectID = &id
	}

	row, err := u.store.Insert(ctx, repository.Books, repository.Row{
		"user_id":         book.UserID,
		"title":           book.Title,
		"subject_id":      book.SubjectID,
		"total_units":     book.TotalUnits,
		"completed_units": 0,
		"created_at":      book.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	book.ID = row.Int64("id")
	finishBook(&book)
	return &book, nil
}

func (u *bookUsecase) UpdateBookProgress(ctx context.Context, userID string, bookID int64, completed int) (*entity.Book, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	row, err := loadOwned(ctx, u.store, repository.Books, userID, bookID, entity.ErrBookNotFound)
	if err != nil {
		return nil, err
	}
	book := mapBook(row)
	if completed < 0 || completed > book.TotalUnits {
		return nil, entity.ErrInvalidProgress
	}
	if _, err := u.store.Update(ctx, repository.Books, repository.Filter{"id": book.ID, "user_id": userID}, repository.Row{"completed_units": completed}); err != nil {
		return nil, err
	}
	return u.GetBook(ctx, userID, book.ID)
}

func (u *bookUsecase) DeleteBook(ctx context.Context, userID string, bookID int64) error {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return err
	}
	if bookID <= 0 {
		return entity.ErrBookNotFound
	}
	n, err := u.store.Delete(ctx, repository.Books, repository.Filter{"id": bookID, "user_id": userID})
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrBookNotFound
	}
	return nil
}

func (u *bookUsecase) ListBooks(ctx context.Context, userID string) ([]entity.Book, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	rows, err := u.store.Select(ctx, repository.Books, repository.Where(repository.Filter{"user_id": userID}).Order("created_at", true))
	if err != nil {
		return nil, err
	}
	books := lo.Map(rows, func(r repository.Row, _ int) entity.Book { return mapBook(r) })
	if err := u.attach(ctx, rows, books, false); err != nil {
		return nil, err
	}
	return books, nil
}

func (u *bookUsecase) GetBook(ctx context.Context, userID string, bookID int64) (*entity.Book, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	row, err := loadOwned(ctx, u.store, repository.Books, userID, bookID, entity.ErrBookNotFound)
	if err != nil {
		return nil, err
	}
	books := []entity.Book{mapBook(row)}
	if err := u.attach(ctx, []repository.Row{row}, books, true); err != nil {
		return nil, err
	}
	return &books[0], nil
}

// attach loads subject names and units for books, and tests with unit stats
// when withTests is set, then resolves each book's progress.
func (u *bookUsecase) attach(ctx context.Context, rows []repository.Row, books []entity.Book, withTests bool) error {
	names, err := catalog.SubjectNames(ctx, u.store, subjectIDs(rows))
	if err != nil {
		return err
	}
	bookIDs := lo.Map(books, func(b entity.Book, _ int) any { return b.ID })
	var units []entity.BookUnit
	if len(bookIDs) > 0 {
		unitRows, err := u.store.Select(ctx, repository.BookUnits, (&repository.Query{}).
			And("book_id", repository.OpIN, bookIDs).
			Order("unit_order", false))
		if err != nil {
			return err
		}
		units = lo.Map(unitRows, func(r repository.Row, _ int) entity.BookUnit { return mapUnit(r) })
	}

	if withTests && len(units) > 0 {
		unitIDs := lo.Map(units, func(un entity.BookUnit, _ int) any { return un.ID })
		testRows, err := u.store.Select(ctx, repository.BookTests, (&repository.Query{}).And("unit_id", repository.OpIN, unitIDs))
		if err != nil {
			return err
		}
		byUnit := lo.GroupBy(lo.Map(testRows, func(r repository.Row, _ int) entity.BookTest { return mapTest(r) }),
			func(t entity.BookTest) int64 { return t.UnitID })
		for i := range units {
			units[i].Tests = byUnit[units[i].ID]
			units[i].Stats = SummarizeUnit(units[i].Tests)
		}
	}

	byBook := lo.GroupBy(units, func(un entity.BookUnit) int64 { return un.BookID })
	for i := range books {
		b := &books[i]
		if b.SubjectID != nil {
			b.SubjectName = names[*b.SubjectID]
		}
		b.Units = byBook[b.ID]
		sort.SliceStable(b.Units, func(x, y int) bool { return b.Units[x].UnitOrder < b.Units[y].UnitOrder })
		finishBook(b)
	}
	return nil
}

// ownedUnit loads a unit and checks that its book belongs to userID.
func (u *bookUsecase) ownedUnit(ctx context.Context, userID string, unitID int64) (repository.Row, error) {
	if unitID <= 0 {
		return nil, entity.ErrUnitNotFound
	}
	row, err := u.store.SelectOne(ctx, repository.BookUnits, repository.Filter{"id": unitID})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, entity.ErrUnitNotFound
	}
	if _, err := loadOwned(ctx, u.store, repository.Books, userID, row.Int64("book_id"), entity.ErrUnitNotFound); err != nil {
		return nil, err
	}
	return row, nil
}

func (u *bookUsecase) AddUnit(ctx context.Context, userID string, bookID int64, name string, order int) (*entity.BookUnit, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, entity.ErrInvalidUnit
	}
	if _, err := loadOwned(ctx, u.store, repository.Books, userID, bookID, entity.ErrBookNotFound); err != nil {
		return nil, err
	}
	if order <= 0 {
		n, err := u.store.Count(ctx, repository.BookUnits, repository.Where(repository.Filter{"book_id": bookID}))
		if err != nil {
			return nil, err
		}
		order = int(n) + 1
	}
	row, err := u.store.Insert(ctx, repository.BookUnits, repository.Row{
		"book_id":      bookID,
		"unit_name":    name,
		"unit_order":   order,
		"is_completed": false,
	})
	if err != nil {
		return nil, err
	}
	unit := mapUnit(row)
	return &unit, nil
}

func (u *bookUsecase) ToggleUnitCompletion(ctx context.Context, userID string, unitID int64, done bool) (*entity.BookUnit, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	row, err := u.ownedUnit(ctx, userID, unitID)
	if err != nil {
		return nil, err
	}
	if _, err := u.store.Update(ctx, repository.BookUnits, repository.Filter{"id": unitID}, repository.Row{"is_completed": done}); err != nil {
		return nil, err
	}
	unit := mapUnit(row)
	unit.IsCompleted = done
	return &unit, nil
}

func (u *bookUsecase) DeleteUnit(ctx context.Context, userID string, unitID int64) error {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return err
	}
	if _, err := u.ownedUnit(ctx, userID, unitID); err != nil {
		return err
	}
	_, err = u.store.Delete(ctx, repository.BookUnits, repository.Filter{"id": unitID})
	return err
}

func validateTest(t entity.BookTest) error {
	if t.TotalQuestions < 0 || t.CorrectAnswers < 0 || t.WrongAnswers < 0 ||
		t.CorrectAnswers+t.WrongAnswers > t.TotalQuestions {
		return entity.ErrInvalidBookTest
	}
	return nil
}

func (u *bookUsecase) AddTest(ctx context.Context, userID string, unitID int64, test entity.BookTest) (*entity.BookTest, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := validateTest(test); err != nil {
		return nil, err
	}
	if _, err := u.ownedUnit(ctx, userID, unitID); err != nil {
		return nil, err
	}
	test.TestName = strings.TrimSpace(test.TestName)
	row, err := u.store.Insert(ctx, repository.BookTests, repository.Row{
		"unit_id":         unitID,
		"test_name":       nullable(test.TestName),
		"total_questions": test.TotalQuestions,
		"correct_answers": test.CorrectAnswers,
		"wrong_answers":   test.WrongAnswers,
	})
	if err != nil {
		return nil, err
	}
	created := mapTest(row)
	return &created, nil
}

func (u *bookUsecase) ownedTest(ctx context.Context, userID string, testID int64) (repository.Row, error) {
	if testID <= 0 {
		return nil, entity.ErrTestNotFound
	}
	row, err := u.store.SelectOne(ctx, repository.BookTests, repository.Filter{"id": testID})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, entity.ErrTestNotFound
	}
	if _, err := u.ownedUnit(ctx, userID, row.Int64("unit_id")); err != nil {
		return nil, entity.ErrTestNotFound
	}
	return row, nil
}

func (u *bookUsecase) UpdateTest(ctx context.Context, userID string, testID int64, test entity.BookTest) (*entity.BookTest, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := validateTest(test); err != nil {
		return nil, err
	}
	row, err := u.ownedTest(ctx, userID, testID)
	if err != nil {
		return nil, err
	}
	test.TestName = strings.TrimSpace(test.TestName)
	if _, err := u.store.Update(ctx, repository.BookTests, repository.Filter{"id": testID}, repository.Row{
		"test_name":       nullable(test.TestName),
		"total_questions": test.TotalQuestions,
		"correct_answers": test.CorrectAnswers,
		"wrong_answers":   test.WrongAnswers,
	}); err != nil {
		return nil, err
	}
	test.ID = testID
	test.UnitID = row.Int64("unit_id")
	return &test, nil
}

func (u *bookUsecase) DeleteTest(ctx context.Context, userID string, testID int64) error {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return err
	}
	if _, err := u.ownedTest(ctx, userID, testID); err != nil {
		return err
	}
	_, err = u.store.Delete(ctx, repository.BookTests, repository.Filter{"id": testID})
	return err
}
