package mapping

import (
	"github.com/samber/lo"

	"github.com/eslsoft/examtrack/internal/entity"
	examtrackv1 "github.com/eslsoft/examtrack/pkg/api/examtrack/v1"
)

func ToPbDashboard(d *entity.Dashboard) *examtrackv1.Dashboard {
	if d == nil {
		return nil
	}
	return &examtrackv1.Dashboard{
		TYTAverage:        d.TYTAverage,
		AYTAverage:        d.AYTAverage,
		CompletedUnits:    d.CompletedUnits,
		TodayStudyMinutes: d.TodayStudyMinutes,
		DaysLeft:          d.DaysLeft,
		RecentExams:       ToPbExams(d.RecentExams),
		Progression: lo.Map(d.Progression, func(p entity.NetPoint, _ int) *examtrackv1.NetPoint {
			return &examtrackv1.NetPoint{Date: FormatDate(p.Date), ExamType: string(p.ExamType), TotalNet: p.TotalNet}
		}),
		SubjectAverages: lo.Map(d.SubjectAverages, func(a entity.SubjectAverage, _ int) *examtrackv1.SubjectAverage {
			return &examtrackv1.SubjectAverage{Subject: a.Subject, Score: a.Score, FullMark: a.FullMark}
		}),
	}
}
