package mapping

import (
	"github.com/samber/lo"

	"github.com/eslsoft/examtrack/internal/entity"
	examtrackv1 "github.com/eslsoft/examtrack/pkg/api/examtrack/v1"
)

func ToPbExam(exam *entity.Exam) *examtrackv1.Exam {
	if exam == nil {
		return nil
	}
	return &examtrackv1.Exam{
		ID:        exam.ID,
		ExamType:  string(exam.Type),
		Date:      FormatDate(exam.Date),
		TotalNet:  exam.TotalNet,
		CreatedAt: exam.CreatedAt,
		Results: lo.Map(exam.Results, func(r entity.ExamResult, _ int) *examtrackv1.ExamResult {
			return &examtrackv1.ExamResult{
				ID:             r.ID,
				SubjectID:      r.SubjectID,
				SubjectName:    r.SubjectName,
				CorrectCount:   r.CorrectCount,
				IncorrectCount: r.IncorrectCount,
				Net:            r.Net,
			}
		}),
	}
}

func ToPbExams(exams []entity.Exam) []*examtrackv1.Exam {
	return lo.Map(exams, func(e entity.Exam, _ int) *examtrackv1.Exam { return ToPbExam(&e) })
}
