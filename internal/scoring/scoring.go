// Package scoring holds the net score arithmetic used across exams, book tests
// and dashboards. Every function is pure.
package scoring

import (
	"math"

	"github.com/eslsoft/examtrack/internal/entity"
)

// WrongAnswerPenalty is the share of a correct answer cancelled by each wrong one.
const WrongAnswerPenalty = 0.25

// NetForSubject returns correct - incorrect*0.25. Negative nets are valid.
func NetForSubject(correct, incorrect int) float64 {
	return float64(correct) - float64(incorrect)*WrongAnswerPenalty
}

// TotalNet sums the nets of all scores; an empty slice yields 0.
func TotalNet(scores []entity.Score) float64 {
	total := 0.0
	for _, s := range scores {
		total += NetForSubject(s.Correct, s.Incorrect)
	}
	return total
}

// Percentage returns round(score/maxScore*100) clamped to [0,100].
func Percentage(score, maxScore float64) int {
	if maxScore <= 0 {
		return 0
	}
	pct := math.Round(score * 100 / maxScore)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// Average returns the arithmetic mean, or 0 for no values.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
