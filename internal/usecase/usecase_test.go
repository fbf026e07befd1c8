package usecase

import (
	"time"

	"github.com/eslsoft/examtrack/internal/repository/repotest"
)

var fixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newExamUsecase(store *repotest.Store) *examUsecase {
	return &examUsecase{store: store, clock: fixedClock}
}

func newBookUsecase(store *repotest.Store) *bookUsecase {
	return &bookUsecase{store: store, clock: fixedClock}
}

func newStudyUsecase(store *repotest.Store) *studyUsecase {
	return &studyUsecase{store: store, clock: fixedClock}
}

func intPtr(v int) *int { return &v }
