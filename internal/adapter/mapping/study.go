package mapping

import (
	"github.com/samber/lo"

	"github.com/eslsoft/examtrack/internal/entity"
	examtrackv1 "github.com/eslsoft/examtrack/pkg/api/examtrack/v1"
)

func ToPbSession(s *entity.StudySession) *examtrackv1.StudySession {
	if s == nil {
		return nil
	}
	return &examtrackv1.StudySession{
		ID:              s.ID,
		SubjectID:       s.SubjectID,
		SubjectName:     s.SubjectName,
		DurationMinutes: s.DurationMinutes,
		SessionDate:     FormatDate(s.SessionDate),
		Notes:           s.Notes,
		CreatedAt:       s.CreatedAt,
	}
}

func ToPbDailyStudy(d *entity.DailyStudy) *examtrackv1.DailyStudy {
	if d == nil {
		return nil
	}
	return &examtrackv1.DailyStudy{
		Date:         FormatDate(d.Date),
		TotalMinutes: d.TotalMinutes,
		SessionCount: d.SessionCount,
		Breakdown: lo.Map(d.Breakdown, func(m entity.SubjectMinutes, _ int) *examtrackv1.SubjectMinutes {
			return &examtrackv1.SubjectMinutes{Subject: m.Subject, Minutes: m.Minutes}
		}),
	}
}
