package entity

import (
	"strings"
	"time"
)

// ExamType is one of the two exam tracks.
type ExamType string

const (
	ExamTypeTYT ExamType = "TYT"
	ExamTypeAYT ExamType = "AYT"
)

// ParseExamType converts user input into a supported ExamType.
func ParseExamType(raw string) (ExamType, error) {
	switch ExamType(strings.ToUpper(strings.TrimSpace(raw))) {
	case ExamTypeTYT:
		return ExamTypeTYT, nil
	case ExamTypeAYT:
		return ExamTypeAYT, nil
	default:
		return "", ErrInvalidExamType
	}
}

// StudyField narrows the AYT subject list to a candidate's track.
type StudyField string

const (
	StudyFieldNone        StudyField = ""
	StudyFieldSayisal     StudyField = "SAYISAL"
	StudyFieldEsitAgirlik StudyField = "ESIT_AGIRLIK"
	StudyFieldSozel       StudyField = "SOZEL"
	StudyFieldDil         StudyField = "DIL"
)

// ParseStudyField accepts an empty value as "no field".
func ParseStudyField(raw string) (StudyField, error) {
	switch f := StudyField(strings.ToUpper(strings.TrimSpace(raw))); f {
	case StudyFieldNone, StudyFieldSayisal, StudyFieldEsitAgirlik, StudyFieldSozel, StudyFieldDil:
		return f, nil
	default:
		return "", ErrInvalidStudyField
	}
}

// NormalizeUserID trims the opaque identity and rejects blanks.
func NormalizeUserID(userID string) (string, error) {
	id := strings.TrimSpace(userID)
	if id == "" {
		return "", ErrNotAuthenticated
	}
	return id, nil
}

// DateOf truncates t to the UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
