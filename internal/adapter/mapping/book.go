package mapping

import (
	"github.com/samber/lo"

	"github.com/eslsoft/examtrack/internal/entity"
	examtrackv1 "github.com/eslsoft/examtrack/pkg/api/examtrack/v1"
)

func ToPbBook(book *entity.Book) *examtrackv1.Book {
	if book == nil {
		return nil
	}
	out := &examtrackv1.Book{
		ID:             book.ID,
		Title:          book.Title,
		SubjectID:      book.SubjectID,
		SubjectName:    book.SubjectName,
		TotalUnits:     book.TotalUnits,
		CompletedUnits: book.CompletedUnits,
		CreatedAt:      book.CreatedAt,
		Units:          lo.Map(book.Units, func(u entity.BookUnit, _ int) *examtrackv1.BookUnit { return ToPbUnit(&u) }),
	}
	if book.Progress != nil {
		_, byUnits := book.Progress.(entity.UnitProgress)
		out.Progress = examtrackv1.Progress{
			Completed:  book.Progress.Completed(),
			Total:      book.Progress.Total(),
			Percentage: book.Percentage,
			ByUnits:    byUnits,
		}
	}
	return out
}

func ToPbUnit(unit *entity.BookUnit) *examtrackv1.BookUnit {
	if unit == nil {
		return nil
	}
	out := &examtrackv1.BookUnit{
		ID:          unit.ID,
		BookID:      unit.BookID,
		UnitName:    unit.UnitName,
		UnitOrder:   unit.UnitOrder,
		IsCompleted: unit.IsCompleted,
		Tests:       lo.Map(unit.Tests, func(t entity.BookTest, _ int) *examtrackv1.BookTest { return ToPbTest(&t) }),
	}
	if len(unit.Tests) > 0 {
		out.Stats = &examtrackv1.UnitStats{
			TotalQuestions: unit.Stats.TotalQuestions,
			CorrectAnswers: unit.Stats.CorrectAnswers,
			WrongAnswers:   unit.Stats.WrongAnswers,
			SuccessRate:    unit.Stats.SuccessRate,
			Net:            unit.Stats.Net,
		}
	}
	return out
}

func ToPbTest(test *entity.BookTest) *examtrackv1.BookTest {
	if test == nil {
		return nil
	}
	return &examtrackv1.BookTest{
		ID:             test.ID,
		UnitID:         test.UnitID,
		TestName:       test.TestName,
		TotalQuestions: test.TotalQuestions,
		CorrectAnswers: test.CorrectAnswers,
		WrongAnswers:   test.WrongAnswers,
	}
}

func FromPbTest(req *examtrackv1.SaveTestRequest) entity.BookTest {
	return entity.BookTest{
		ID:             req.ID,
		UnitID:         req.UnitID,
		TestName:       req.TestName,
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
		WrongAnswers:   req.WrongAnswers,
	}
}
