package backup

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sqlstore "github.com/eslsoft/examtrack/internal/adapter/repository"
	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/infrastructure/database"
	"github.com/eslsoft/examtrack/internal/repository"
	"github.com/eslsoft/examtrack/internal/usecase"
)

var exportedAt = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func TestServiceExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := openDB(t, "src.db")
	seedData(t, ctx, src)

	exporter, err := NewService(src, WithBatchSize(2), WithClock(func() time.Time { return exportedAt }))
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	progress := &recordingProgress{counts: map[string]int{}}
	var buf bytes.Buffer
	if err := exporter.Export(ctx, &buf, WithProgressReporter(progress)); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if progress.counts[repository.ExamResults] != 3 || progress.counts[repository.Books] != 1 {
		t.Fatalf("unexpected progress: %v", progress.counts)
	}

	dst := openDB(t, "dst.db")
	importer, err := NewService(dst)
	if err != nil {
		t.Fatalf("new importer: %v", err)
	}
	if err := importer.Import(ctx, bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	// importing twice upserts rather than duplicating
	if err := importer.Import(ctx, bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("second import failed: %v", err)
	}

	for _, table := range []string{repository.Subjects, repository.Exams, repository.ExamResults, repository.Books, repository.BookUnits, repository.Goals} {
		if got, want := countRows(t, dst, table), countRows(t, src, table); got != want {
			t.Errorf("%s: expected %d rows after import, got %d", table, want, got)
		}
	}

	exams := usecase.NewExamUsecase(sqlstore.NewSQLStore(dst))
	list, total, err := exams.ListExams(ctx, &repository.ListExamQuery{UserID: "user-1"})
	if err != nil {
		t.Fatalf("list imported exams: %v", err)
	}
	if total != 2 || list[0].TotalNet != 29 {
		t.Fatalf("unexpected imported exams: %+v", list)
	}
	exam, err := exams.GetExam(ctx, "user-1", list[0].ID)
	if err != nil {
		t.Fatalf("get imported exam: %v", err)
	}
	if len(exam.Results) != 1 || exam.Results[0].SubjectName != "Matematik" {
		t.Fatalf("unexpected imported results: %+v", exam.Results)
	}

	books := usecase.NewBookUsecase(sqlstore.NewSQLStore(dst))
	imported, err := books.ListBooks(ctx, "user-1")
	if err != nil {
		t.Fatalf("list imported books: %v", err)
	}
	if len(imported) != 1 || imported[0].Percentage != 50 {
		t.Fatalf("unexpected imported books: %+v", imported)
	}
}

func TestServiceExportTablesFilter(t *testing.T) {
	ctx := context.Background()
	src := openDB(t, "src.db")
	seedData(t, ctx, src)

	svc, err := NewService(src, WithClock(func() time.Time { return exportedAt }))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	var buf bytes.Buffer
	if err := svc.Export(ctx, &buf, WithTables([]string{" GOALS "})); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var types []string
	for scanner.Scan() {
		var rec rawRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		types = append(types, rec.Type)
	}
	if strings.Join(types, ",") != "meta,goals" {
		t.Fatalf("unexpected records: %v", types)
	}

	if err := svc.Export(ctx, &buf, WithTables([]string{"words"})); err == nil {
		t.Fatal("expected unsupported table error")
	}
	if err := svc.Export(ctx, &buf, WithTables([]string{" "})); err != errNoTablesSelected {
		t.Fatalf("expected errNoTablesSelected, got %v", err)
	}
}

func TestServiceImportRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc, err := NewService(openDB(t, "dst.db"))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cases := map[string]string{
		"missing meta":   `{"type":"goals","payload":{"id":1}}` + "\n",
		"bad version":    `{"type":"meta","version":9}` + "\n",
		"unknown column": `{"type":"meta","version":1}` + "\n" + `{"type":"goals","payload":{"id":1,"colour":"red"}}` + "\n",
		"not json":       "nope\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if err := svc.Import(ctx, strings.NewReader(input)); err == nil {
				t.Fatal("expected import error")
			}
		})
	}
}

func seedData(t *testing.T, ctx context.Context, db *database.DB) {
	t.Helper()
	store := sqlstore.NewSQLStore(db)

	exams := usecase.NewExamUsecase(store)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := exams.SubmitExam(ctx, "user-1", entity.ExamTypeTYT, day, entity.ScoreSheet{Entries: []entity.ScoreEntry{
		{Code: "MATH", Score: entity.Score{Correct: 30, Incorrect: 4}},
	}}); err != nil {
		t.Fatalf("seed exam: %v", err)
	}
	if _, err := exams.SubmitExam(ctx, "user-1", entity.ExamTypeAYT, day.AddDate(0, 0, -7), entity.ScoreSheet{Entries: []entity.ScoreEntry{
		{Code: "MATH", Score: entity.Score{Correct: 12}},
		{Code: "PHYSICS", Score: entity.Score{Correct: 6, Incorrect: 4}},
	}}); err != nil {
		t.Fatalf("seed exam: %v", err)
	}

	books := usecase.NewBookUsecase(store)
	book, err := books.AddBook(ctx, "user-1", usecase.BookInput{Title: "Problem Bank", TotalUnits: 2, SubjectCode: "MATH"})
	if err != nil {
		t.Fatalf("seed book: %v", err)
	}
	for i, name := range []string{"Sets", "Functions"} {
		unit, err := books.AddUnit(ctx, "user-1", book.ID, name, 0)
		if err != nil {
			t.Fatalf("seed unit: %v", err)
		}
		if i == 0 {
			if _, err := books.ToggleUnitCompletion(ctx, "user-1", unit.ID, true); err != nil {
				t.Fatalf("seed toggle: %v", err)
			}
		}
	}

	goals := usecase.NewGoalUsecase(store)
	target := 3
	if _, err := goals.AddGoal(ctx, "user-1", entity.Goal{Title: "Three mocks a week", GoalType: entity.GoalTypeWeekly, TargetValue: &target}); err != nil {
		t.Fatalf("seed goal: %v", err)
	}
}

func openDB(t *testing.T, name string) *database.DB {
	t.Helper()
	requireSQLite(t)

	dsn := "file:" + filepath.Join(t.TempDir(), name) + "?_fk=1&cache=shared"
	db, cleanup, err := database.Open("sqlite3", dsn, false, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(cleanup)
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func countRows(t *testing.T, db *database.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

type recordingProgress struct {
	counts map[string]int
}

func (p *recordingProgress) StartTable(string, int) {}

func (p *recordingProgress) Increment(table string, delta int) { p.counts[table] += delta }

func (p *recordingProgress) FinishTable(string) {}

func requireSQLite(t *testing.T) {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		t.Skipf("sqlite driver not available: %v", err)
		return
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Skipf("skipping sqlite-dependent tests: %v", err)
	}
}
