package mapping

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/repository"
)

func TestToConnectError(t *testing.T) {
	cases := []struct {
		err  error
		want connect.Code
	}{
		{entity.ErrNoScoredSubjects, connect.CodeInvalidArgument},
		{fmt.Errorf("wrap: %w", entity.ErrUnknownSubject), connect.CodeInvalidArgument},
		{entity.ErrNotAuthenticated, connect.CodeUnauthenticated},
		{entity.ErrBookNotFound, connect.CodeNotFound},
		{repository.Wrap("insert", repository.Subjects, repository.ErrDuplicate), connect.CodeAlreadyExists},
		{errors.New("disk full"), connect.CodeInternal},
		{connect.NewError(connect.CodeResourceExhausted, errors.New("slow down")), connect.CodeResourceExhausted},
	}
	for _, tc := range cases {
		if got := connect.CodeOf(ToConnectError(tc.err)); got != tc.want {
			t.Errorf("ToConnectError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
	if ToConnectError(nil) != nil {
		t.Fatal("nil must stay nil")
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-10")
	if err != nil || !got.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v (%v)", got, err)
	}
	got, err = ParseDate("2026-03-10T23:30:00+03:00")
	if err != nil || FormatDate(got) != "2026-03-10" {
		t.Fatalf("unexpected date %v (%v)", got, err)
	}
	if got, err := ParseDate(" "); err != nil || !got.IsZero() {
		t.Fatalf("blank date should be zero, got %v (%v)", got, err)
	}
	if _, err := ParseDate("10/03/2026"); !errors.Is(err, entity.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}
