package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/repository"
	"github.com/eslsoft/examtrack/internal/repository/repotest"
)

func TestProfile_SetStudyFieldUpserts(t *testing.T) {
	store := repotest.NewStore()
	uc := &profileUsecase{store: store, clock: fixedClock}
	ctx := context.Background()

	profile, err := uc.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if profile.StudyField != entity.StudyFieldNone {
		t.Fatalf("expected empty field, got %q", profile.StudyField)
	}

	if _, err := uc.SetStudyField(ctx, "user-1", "sayisal"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := uc.SetStudyField(ctx, "user-1", entity.StudyFieldDil); err != nil {
		t.Fatalf("set: %v", err)
	}
	if rows := store.Rows(repository.Profiles); len(rows) != 1 {
		t.Fatalf("expected a single profile row, got %d", len(rows))
	}
	profile, _ = uc.GetProfile(ctx, "user-1")
	if profile.StudyField != entity.StudyFieldDil {
		t.Fatalf("expected DIL, got %q", profile.StudyField)
	}

	if _, err := uc.SetStudyField(ctx, "user-1", "MEDICINE"); !errors.Is(err, entity.ErrInvalidStudyField) {
		t.Fatalf("expected ErrInvalidStudyField, got %v", err)
	}
}

func TestProfile_SubjectOptions(t *testing.T) {
	uc := &profileUsecase{store: repotest.NewStore(), clock: fixedClock}
	ctx := context.Background()

	all, err := uc.SubjectOptions(ctx, "user-1", entity.ExamTypeAYT)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if len(all) != 11 {
		t.Fatalf("expected every AYT subject without a field, got %d", len(all))
	}

	if _, err := uc.SetStudyField(ctx, "user-1", entity.StudyFieldEsitAgirlik); err != nil {
		t.Fatalf("set: %v", err)
	}
	narrowed, _ := uc.SubjectOptions(ctx, "user-1", entity.ExamTypeAYT)
	if len(narrowed) != 4 || narrowed[0].Code != "MATH" {
		t.Fatalf("unexpected options: %+v", narrowed)
	}
	tyt, _ := uc.SubjectOptions(ctx, "user-1", entity.ExamTypeTYT)
	if len(tyt) != 9 {
		t.Fatalf("field must not narrow TYT, got %d", len(tyt))
	}
	if _, err := uc.SubjectOptions(ctx, "user-1", "KPSS"); !errors.Is(err, entity.ErrInvalidExamType) {
		t.Fatalf("expected ErrInvalidExamType, got %v", err)
	}
}
