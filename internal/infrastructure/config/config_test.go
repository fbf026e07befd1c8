package config

import (
	"testing"
	"time"
)

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Driver:   "postgresql",
		Host:     "db",
		Port:     5433,
		Name:     "examtrack",
		User:     "app",
		Password: "p@ss",
		SSLMode:  "disable",
	}}
	driver, err := cfg.DatabaseDriver()
	if err != nil || driver != "postgres" {
		t.Fatalf("DatabaseDriver() = %q, %v", driver, err)
	}
	dsn, err := cfg.DatabaseURL()
	if err != nil {
		t.Fatalf("DatabaseURL failed: %v", err)
	}
	if want := "postgres://app:p%40ss@db:5433/examtrack?sslmode=disable"; dsn != want {
		t.Errorf("expected %q, got %q", want, dsn)
	}
}

func TestDatabaseURLSQLite(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: "sqlite", Path: "dev.db"}}
	dsn, err := cfg.DatabaseURL()
	if err != nil {
		t.Fatalf("DatabaseURL failed: %v", err)
	}
	if dsn != "file:dev.db?cache=shared&_fk=1" {
		t.Errorf("unexpected sqlite dsn %q", dsn)
	}

	cfg.Database.Driver = "mysql"
	if _, err := cfg.DatabaseURL(); err == nil {
		t.Error("expected unsupported driver error")
	}
}

func TestExamTargetDate(t *testing.T) {
	cfg := &Config{}
	got, err := cfg.ExamTargetDate()
	if err != nil {
		t.Fatalf("ExamTargetDate failed: %v", err)
	}
	if !got.Equal(time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected default target date %v", got)
	}

	cfg.Exam.TargetDate = "14/06/2026"
	if _, err := cfg.ExamTargetDate(); err == nil {
		t.Error("expected parse error")
	}
}
