package scoring

import (
	"testing"

	"github.com/eslsoft/examtrack/internal/entity"
)

func TestNetForSubject(t *testing.T) {
	cases := []struct {
		correct, incorrect int
		want               float64
	}{
		{10, 3, 9.25},
		{0, 0, 0},
		{30, 4, 29},
		{0, 8, -2},
		{40, 0, 40},
		{1, 1, 0.75},
	}
	for _, c := range cases {
		if got := NetForSubject(c.correct, c.incorrect); got != c.want {
			t.Fatalf("NetForSubject(%d,%d) = %v want %v", c.correct, c.incorrect, got, c.want)
		}
	}
}

func TestTotalNet(t *testing.T) {
	if got := TotalNet(nil); got != 0 {
		t.Fatalf("empty total = %v", got)
	}
	got := TotalNet([]entity.Score{{Correct: 10}, {Correct: 5, Incorrect: 4}})
	if got != 14 {
		t.Fatalf("total = %v want 14", got)
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		score, max float64
		want       int
	}{
		{21, 40, 53},
		{0, 0, 0},
		{45, 40, 100},
		{2, 3, 67},
		{4, 10, 40},
		{-5, 40, 0},
		{10, -1, 0},
	}
	for _, c := range cases {
		if got := Percentage(c.score, c.max); got != c.want {
			t.Fatalf("Percentage(%v,%v) = %d want %d", c.score, c.max, got, c.want)
		}
	}
}

func TestAverage(t *testing.T) {
	if got := Average(nil); got != 0 {
		t.Fatalf("empty average = %v", got)
	}
	if got := Average([]float64{10, 20, 33}); got != 21 {
		t.Fatalf("average = %v want 21", got)
	}
}
