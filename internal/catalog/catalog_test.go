package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/repository"
	"github.com/eslsoft/examtrack/internal/repository/repotest"
)

func TestCanonicalName(t *testing.T) {
	cases := map[string]string{
		Math:            "Matematik",
		History1:        "Tarih-1",
		PhilosophyGroup: "Felsefe Grubu",
		"ASTRONOMY":     "ASTRONOMY",
	}
	for code, want := range cases {
		if got := CanonicalName(code); got != want {
			t.Errorf("CanonicalName(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestSubjectsFor(t *testing.T) {
	tyt := SubjectsFor(entity.ExamTypeTYT, entity.StudyFieldSayisal)
	if len(tyt) != 9 {
		t.Fatalf("expected 9 TYT subjects regardless of field, got %d", len(tyt))
	}
	if tyt[0].Code != Math || tyt[0].Label != "Matematik" {
		t.Errorf("unexpected first TYT subject %+v", tyt[0])
	}

	if all := SubjectsFor(entity.ExamTypeAYT, entity.StudyFieldNone); len(all) != 11 {
		t.Errorf("expected 11 AYT subjects without a field, got %d", len(all))
	}

	dil := SubjectsFor(entity.ExamTypeAYT, entity.StudyFieldDil)
	if len(dil) != 1 || dil[0].Label != "Yabancı Dil" {
		t.Errorf("expected only Yabancı Dil for DIL, got %+v", dil)
	}

	sayisal := SubjectsFor(entity.ExamTypeAYT, entity.StudyFieldSayisal)
	want := []string{Math, Physics, Chemistry, Biology}
	if len(sayisal) != len(want) {
		t.Fatalf("expected %d SAYISAL subjects, got %d", len(want), len(sayisal))
	}
	for i, code := range want {
		if sayisal[i].Code != code {
			t.Errorf("position %d: expected %s, got %s", i, code, sayisal[i].Code)
		}
	}

	if got := SubjectsFor(entity.ExamTypeAYT, entity.StudyField("ASTRO")); len(got) != 0 {
		t.Errorf("expected no subjects for unknown field, got %+v", got)
	}
}

func TestParseCode(t *testing.T) {
	code, err := ParseCode(entity.ExamTypeTYT, " math ")
	if err != nil || code != Math {
		t.Fatalf("ParseCode(math) = %q, %v", code, err)
	}
	_, err = ParseCode(entity.ExamTypeTYT, Literature)
	if !errors.Is(err, entity.ErrInvalidPayload) || !strings.Contains(err.Error(), "not a TYT subject") {
		t.Errorf("expected literature to be rejected for TYT, got %v", err)
	}
	_, err = ParseCode(entity.ExamTypeAYT, "ASTRONOMY")
	if !errors.Is(err, entity.ErrUnknownSubject) || strings.Contains(err.Error(), "not a") {
		t.Errorf("expected unknown subject error, got %v", err)
	}
	if !IsKnownCode(History1) || IsKnownCode("ASTRONOMY") {
		t.Error("IsKnownCode disagrees with the catalog")
	}
	if OrderOf(entity.ExamTypeAYT, ForeignLanguage) != 10 {
		t.Errorf("expected foreign language to be the last AYT subject")
	}
}

func TestTopicsFor(t *testing.T) {
	topics := TopicsFor("Felsefe Grubu")
	if len(topics) != 3 || topics[0] != "Psikoloji" {
		t.Fatalf("unexpected topics %v", topics)
	}
	topics[0] = "changed"
	if TopicsFor("Felsefe Grubu")[0] != "Psikoloji" {
		t.Error("TopicsFor must return a copy")
	}
	if got := TopicsFor("Astronomi"); len(got) != 0 {
		t.Errorf("expected no topics for unknown subject, got %v", got)
	}
}

func TestGetOrCreateSubjectIsIdempotent(t *testing.T) {
	store := repotest.NewStore()
	ctx := context.Background()

	first, err := GetOrCreateSubject(ctx, store, "Matematik", entity.ExamTypeTYT)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := GetOrCreateSubject(ctx, store, "Matematik", entity.ExamTypeTYT)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if first != second {
		t.Errorf("expected the same id, got %d and %d", first, second)
	}
	ayt, err := GetOrCreateSubject(ctx, store, "Matematik", entity.ExamTypeAYT)
	if err != nil {
		t.Fatalf("AYT call failed: %v", err)
	}
	if ayt == first {
		t.Error("expected a distinct row per exam type")
	}
	if rows := store.Rows(repository.Subjects); len(rows) != 2 {
		t.Errorf("expected 2 subject rows, got %d", len(rows))
	}

	names, err := SubjectNames(ctx, store, []int64{first, ayt, 99})
	if err != nil {
		t.Fatalf("SubjectNames failed: %v", err)
	}
	if len(names) != 2 || names[first] != "Matematik" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestGetOrCreateSubjectConcurrent(t *testing.T) {
	store := repotest.NewStore()
	ctx := context.Background()

	const workers = 8
	ids := make([]int64, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = GetOrCreateSubject(ctx, store, "Fizik", entity.ExamTypeAYT)
		}(i)
	}
	wg.Wait()

	for i := range ids {
		if errs[i] != nil || ids[i] != ids[0] {
			t.Fatalf("worker %d: id %d, err %v (want id %d)", i, ids[i], errs[i], ids[0])
		}
	}
	if rows := store.Rows(repository.Subjects); len(rows) != 1 {
		t.Fatalf("expected 1 subject row, got %d", len(rows))
	}
}

func TestGetOrCreateSubjectPropagatesStoreErrors(t *testing.T) {
	store := repotest.NewStore()
	store.FailOn("insert", repository.Subjects, nil)
	if _, err := GetOrCreateSubject(context.Background(), store, "Fizik", entity.ExamTypeTYT); !errors.Is(err, repotest.ErrInjected) {
		t.Fatalf("expected injected error, got %v", err)
	}
}

func TestSeed(t *testing.T) {
	store := repotest.NewStore()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		n, err := Seed(ctx, store)
		if err != nil {
			t.Fatalf("seed #%d: %v", i+1, err)
		}
		if n != 20 {
			t.Fatalf("seed #%d reported %d subjects", i+1, n)
		}
	}
	if rows := store.Rows(repository.Subjects); len(rows) != 20 {
		t.Fatalf("expected 20 subject rows, got %d", len(rows))
	}
}
