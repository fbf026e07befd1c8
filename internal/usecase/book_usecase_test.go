package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/repository"
	"github.com/eslsoft/examtrack/internal/repository/repotest"
)

func TestAddBook(t *testing.T) {
	store := repotest.NewStore()
	uc := newBookUsecase(store)
	ctx := context.Background()

	book, err := uc.AddBook(ctx, "user-1", BookInput{Title: "  Problem Bank ", TotalUnits: 10, SubjectCode: "math"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if book.Title != "Problem Bank" || book.SubjectName != "Matematik" || book.SubjectID == nil {
		t.Fatalf("unexpected book: %+v", book)
	}
	if book.Percentage != 0 || book.Progress.Total() != 10 {
		t.Fatalf("unexpected progress: %+v", book.Progress)
	}

	if _, err := uc.AddBook(ctx, "user-1", BookInput{Title: "", TotalUnits: 3}); !errors.Is(err, entity.ErrInvalidBook) {
		t.Fatalf("expected ErrInvalidBook, got %v", err)
	}
	if _, err := uc.AddBook(ctx, "user-1", BookInput{Title: "x", TotalUnits: 0}); !errors.Is(err, entity.ErrInvalidBook) {
		t.Fatalf("expected ErrInvalidBook, got %v", err)
	}
	if _, err := uc.AddBook(ctx, "user-1", BookInput{Title: "x", TotalUnits: 3, SubjectCode: "LITERATURE"}); !errors.Is(err, entity.ErrUnknownSubject) {
		t.Fatalf("expected ErrUnknownSubject for a TYT book, got %v", err)
	}
}

func TestBookProgress_Counters(t *testing.T) {
	store := repotest.NewStore()
	uc := newBookUsecase(store)
	ctx := context.Background()

	book, err := uc.AddBook(ctx, "user-1", BookInput{Title: "Legacy", TotalUnits: 10})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	updated, err := uc.UpdateBookProgress(ctx, "user-1", book.ID, 4)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, ok := updated.Progress.(entity.CounterProgress); !ok {
		t.Fatalf("expected counter progress, got %T", updated.Progress)
	}
	if updated.Percentage != 40 {
		t.Fatalf("expected 40%%, got %d", updated.Percentage)
	}
	if _, err := uc.UpdateBookProgress(ctx, "user-1", book.ID, 11); !errors.Is(err, entity.ErrInvalidProgress) {
		t.Fatalf("expected ErrInvalidProgress, got %v", err)
	}
	if _, err := uc.UpdateBookProgress(ctx, "user-2", book.ID, 1); !errors.Is(err, entity.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestBookProgress_Units(t *testing.T) {
	store := repotest.NewStore()
	uc := newBookUsecase(store)
	ctx := context.Background()

	book, err := uc.AddBook(ctx, "user-1", BookInput{Title: "Units", TotalUnits: 10})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	var units []*entity.BookUnit
	for _, name := range []string{"Sets", "Functions", "Limits"} {
		unit, err := uc.AddUnit(ctx, "user-1", book.ID, name, 0)
		if err != nil {
			t.Fatalf("add unit: %v", err)
		}
		units = append(units, unit)
	}
	if units[2].UnitOrder != 3 {
		t.Fatalf("expected appended order 3, got %d", units[2].UnitOrder)
	}
	for _, unit := range units[:2] {
		if _, err := uc.ToggleUnitCompletion(ctx, "user-1", unit.ID, true); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	got, err := uc.GetBook(ctx, "user-1", book.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, ok := got.Progress.(entity.UnitProgress); !ok {
		t.Fatalf("expected unit progress, got %T", got.Progress)
	}
	if got.Percentage != 67 {
		t.Fatalf("expected 67%%, got %d", got.Percentage)
	}

	if _, err := uc.ToggleUnitCompletion(ctx, "user-2", units[2].ID, true); !errors.Is(err, entity.ErrUnitNotFound) {
		t.Fatalf("expected ErrUnitNotFound, got %v", err)
	}
	if _, err := uc.AddUnit(ctx, "user-1", book.ID, " ", 0); !errors.Is(err, entity.ErrInvalidUnit) {
		t.Fatalf("expected ErrInvalidUnit, got %v", err)
	}
}

func TestBookTests_UnitStats(t *testing.T) {
	store := repotest.NewStore()
	uc := newBookUsecase(store)
	ctx := context.Background()

	book, _ := uc.AddBook(ctx, "user-1", BookInput{Title: "Physics", TotalUnits: 2, SubjectCode: "PHYSICS"})
	unit, err := uc.AddUnit(ctx, "user-1", book.ID, "Motion", 1)
	if err != nil {
		t.Fatalf("add unit: %v", err)
	}
	first, err := uc.AddTest(ctx, "user-1", unit.ID, entity.BookTest{TestName: "Test 1", TotalQuestions: 20, CorrectAnswers: 12, WrongAnswers: 4})
	if err != nil {
		t.Fatalf("add test: %v", err)
	}
	if _, err := uc.AddTest(ctx, "user-1", unit.ID, entity.BookTest{TotalQuestions: 20, CorrectAnswers: 14, WrongAnswers: 4}); err != nil {
		t.Fatalf("add test: %v", err)
	}
	if _, err := uc.AddTest(ctx, "user-1", unit.ID, entity.BookTest{TotalQuestions: 5, CorrectAnswers: 4, WrongAnswers: 2}); !errors.Is(err, entity.ErrInvalidBookTest) {
		t.Fatalf("expected ErrInvalidBookTest, got %v", err)
	}

	got, err := uc.GetBook(ctx, "user-1", book.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	stats := got.Units[0].Stats
	want := entity.UnitStats{TotalQuestions: 40, CorrectAnswers: 26, WrongAnswers: 8, SuccessRate: 65, Net: 24}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}

	if _, err := uc.UpdateTest(ctx, "user-1", first.ID, entity.BookTest{TotalQuestions: 20, CorrectAnswers: 20}); err != nil {
		t.Fatalf("update test: %v", err)
	}
	if err := uc.DeleteTest(ctx, "user-2", first.ID); !errors.Is(err, entity.ErrTestNotFound) {
		t.Fatalf("expected ErrTestNotFound, got %v", err)
	}

	if err := uc.DeleteBook(ctx, "user-1", book.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rows := store.Rows(repository.BookTests); len(rows) != 0 {
		t.Fatalf("expected tests to cascade, got %v", rows)
	}
}

func TestListBooks_NewestFirst(t *testing.T) {
	store := repotest.NewStore()
	uc := newBookUsecase(store)
	ctx := context.Background()

	for _, title := range []string{"A", "B"} {
		if _, err := uc.AddBook(ctx, "user-1", BookInput{Title: title, TotalUnits: 1}); err != nil {
			t.Fatalf("add: %v", err)
		}
		uc.clock = func() time.Time { return fixedNow.Add(time.Hour) }
	}
	if _, err := uc.AddBook(ctx, "user-2", BookInput{Title: "C", TotalUnits: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	books, err := uc.ListBooks(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 2 || books[0].Title != "B" {
		t.Fatalf("unexpected books: %+v", books)
	}
}
