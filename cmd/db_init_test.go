package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/examtrack/internal/infrastructure/database"
)

func Test_initDatabase_seedsSubjects(t *testing.T) {
	conn, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		t.Skipf("sqlite driver not available: %v", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		t.Skipf("skipping sqlite-dependent test: %v", err)
	}
	conn.Close()

	dsn := "file:" + filepath.Join(t.TempDir(), "init.db") + "?_fk=1"
	db, cleanup, err := database.Open("sqlite3", dsn, false, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer cleanup()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := initDatabase(ctx, db, false, logger); err != nil {
			t.Fatalf("init #%d: %v", i+1, err)
		}
	}

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM subjects").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 20 {
		t.Fatalf("expected 20 subjects, got %d", n)
	}
}

func Test_normalizeTables(t *testing.T) {
	got := normalizeTables([]string{" Exams ", "", "goals"})
	if !reflect.DeepEqual(got, []string{"exams", "goals"}) {
		t.Fatalf("unexpected tables %v", got)
	}
	if normalizeTables([]string{" "}) != nil {
		t.Fatal("blank input should normalise to nil")
	}
}

func Test_tableSummary(t *testing.T) {
	var buf bytes.Buffer
	p := &tableSummary{out: &buf}

	p.StartTable("exams", 3)
	p.Increment("exams", 2)
	p.Increment("exams", 1)
	p.FinishTable("exams")

	p.StartTable("goals", 2)
	p.Increment("goals", 1)
	p.FinishTable("goals")

	want := "exams        3 rows\ngoals        1 rows (2 counted at start)\n"
	if got := buf.String(); got != want {
		t.Fatalf("summary output = %q, want %q", got, want)
	}
}

func Test_closeChain(t *testing.T) {
	first := errors.New("first")
	var order []string
	closers := []func() error{
		func() error { order = append(order, "gzip"); return first },
		func() error { order = append(order, "file"); return errors.New("second") },
	}

	var err error
	closeChain(&err, closers)
	if !errors.Is(err, first) {
		t.Fatalf("expected first close error, got %v", err)
	}
	if !reflect.DeepEqual(order, []string{"gzip", "file"}) {
		t.Fatalf("closers ran out of order: %v", order)
	}

	existing := errors.New("export failed")
	err = existing
	closeChain(&err, closers)
	if err != existing {
		t.Fatalf("closeChain overwrote earlier error: %v", err)
	}
}
