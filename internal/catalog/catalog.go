// Package catalog is the fixed subject taxonomy of the TYT and AYT exams.
package catalog

import (
	"fmt"
	"strings"

	"github.com/eslsoft/examtrack/internal/entity"
)

// Subject codes accepted from clients.
const (
	Turkish         = "TURKISH"
	Math            = "MATH"
	Physics         = "PHYSICS"
	Chemistry       = "CHEMISTRY"
	Biology         = "BIOLOGY"
	History         = "HISTORY"
	Geography       = "GEOGRAPHY"
	Philosophy      = "PHILOSOPHY"
	Religion        = "RELIGION"
	Literature      = "LITERATURE"
	History1        = "HISTORY_1"
	History2        = "HISTORY_2"
	Geography1      = "GEOGRAPHY_1"
	Geography2      = "GEOGRAPHY_2"
	PhilosophyGroup = "PHILOSOPHY_GRP"
	ForeignLanguage = "FOREIGN_LANGUAGE"
)

var canonicalNames = map[string]string{
	Turkish:         "Türkçe",
	Math:            "Matematik",
	Physics:         "Fizik",
	Chemistry:       "Kimya",
	Biology:         "Biyoloji",
	History:         "Tarih",
	Geography:       "Coğrafya",
	Philosophy:      "Felsefe",
	Religion:        "Din Kültürü",
	Literature:      "Edebiyat",
	History1:        "Tarih-1",
	History2:        "Tarih-2",
	Geography1:      "Coğrafya-1",
	Geography2:      "Coğrafya-2",
	PhilosophyGroup: "Felsefe Grubu",
	ForeignLanguage: "Yabancı Dil",
}

var subjectsByType = map[entity.ExamType][]string{
	entity.ExamTypeTYT: {Math, Turkish, Physics, Chemistry, Biology, History, Geography, Philosophy, Religion},
	entity.ExamTypeAYT: {Math, Physics, Chemistry, Biology, Literature, History1, Geography1, History2, Geography2, PhilosophyGroup, ForeignLanguage},
}

var subjectsByField = map[entity.StudyField][]string{
	entity.StudyFieldSayisal:     {Math, Physics, Chemistry, Biology},
	entity.StudyFieldEsitAgirlik: {Math, Literature, History1, Geography1},
	entity.StudyFieldSozel:       {Literature, History1, Geography1, History2, Geography2, PhilosophyGroup},
	entity.StudyFieldDil:         {ForeignLanguage},
}

// Option is one selectable subject.
type Option struct {
	Code  string
	Label string
}

// CanonicalName maps a subject code to its display name. Unknown codes are
// returned unchanged.
func CanonicalName(code string) string {
	if name, ok := canonicalNames[code]; ok {
		return name
	}
	return code
}

// SubjectsFor lists the subjects of an exam type in display order. For AYT a
// non-empty field keeps only that field's subjects; an unknown field yields
// nothing.
func SubjectsFor(examType entity.ExamType, field entity.StudyField) []Option {
	codes := subjectsByType[examType]
	var allowed map[string]struct{}
	if examType == entity.ExamTypeAYT && field != entity.StudyFieldNone {
		fieldCodes, ok := subjectsByField[field]
		if !ok {
			return []Option{}
		}
		allowed = make(map[string]struct{}, len(fieldCodes))
		for _, c := range fieldCodes {
			allowed[c] = struct{}{}
		}
	}

	out := make([]Option, 0, len(codes))
	for _, code := range codes {
		if allowed != nil {
			if _, ok := allowed[code]; !ok {
				continue
			}
		}
		out = append(out, Option{Code: code, Label: CanonicalName(code)})
	}
	return out
}

// ParseCode validates a client supplied code against the exam type's subject list.
func ParseCode(examType entity.ExamType, raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	for _, c := range subjectsByType[examType] {
		if c == code {
			return code, nil
		}
	}
	if IsKnownCode(code) {
		return "", fmt.Errorf("%w: %s is not a %s subject", entity.ErrUnknownSubject, code, examType)
	}
	return "", entity.ErrUnknownSubject
}

// IsKnownCode reports whether code belongs to any exam type.
func IsKnownCode(code string) bool {
	_, ok := canonicalNames[code]
	return ok
}

// OrderOf returns the display position of code within its exam type, or -1.
func OrderOf(examType entity.ExamType, code string) int {
	for i, c := range subjectsByType[examType] {
		if c == code {
			return i
		}
	}
	return -1
}
