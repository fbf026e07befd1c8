package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/eslsoft/examtrack/internal/adapter/connectrpc"
	"github.com/eslsoft/examtrack/internal/infrastructure/config"
	"github.com/eslsoft/examtrack/internal/repository/repotest"
	"github.com/eslsoft/examtrack/internal/usecase"
	examtrackv1 "github.com/eslsoft/examtrack/pkg/api/examtrack/v1"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{Server: config.ServerConfig{Host: "127.0.0.1", CORSOrigins: []string{"https://app.example.com"}}}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := repotest.NewStore()
	srv := NewServer(cfg, logger, []Service{
		connectrpc.NewGoalServiceServer(usecase.NewGoalUsecase(store)),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_RequestID(t *testing.T) {
	ts := newTestServer(t)
	url := ts.URL + examtrackv1.GoalServiceListGoalsProcedure

	req, _ := http.NewRequest(http.MethodPost, url, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(connectrpc.UserIDHeader, "u1")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Fatal("expected a generated request id")
	}

	req, _ = http.NewRequest(http.MethodPost, url, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, "req-1")
	resp, err = ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if got := resp.Header.Get(RequestIDHeader); got != "req-1" {
		t.Fatalf("request id = %q", got)
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+examtrackv1.GoalServiceListGoalsProcedure, nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type,x-user-id")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("allow origin = %q", got)
	}
	if got := strings.ToLower(resp.Header.Get("Access-Control-Allow-Headers")); !strings.Contains(got, "x-user-id") {
		t.Fatalf("allow headers = %q", got)
	}
}

func TestDetermineLogLevel(t *testing.T) {
	if lvl := determineLogLevel(connect.CodeOf(nil), nil); lvl.String() != "INFO" {
		t.Fatalf("success level = %v", lvl)
	}
	err := connect.NewError(connect.CodeNotFound, errors.New("missing"))
	if lvl := determineLogLevel(connect.CodeOf(err), err); lvl.String() != "WARN" {
		t.Fatalf("not found level = %v", lvl)
	}
	err = connect.NewError(connect.CodeInternal, errors.New("boom"))
	if lvl := determineLogLevel(connect.CodeOf(err), err); lvl.String() != "ERROR" {
		t.Fatalf("internal level = %v", lvl)
	}
}

func TestInterceptorLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	l := InterceptorLogger(logger)
	l.Log(context.Background(), logging.LevelWarn, "slow call", "grpc.method", "Check", "grpc.time_ms", 12)

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel || entry.Message != "slow call" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.Data["grpc.method"] != "Check" || entry.Data["grpc.time_ms"] != 12 {
		t.Fatalf("unexpected fields %v", entry.Data)
	}
}

func TestFirstForwardedFor(t *testing.T) {
	h := http.Header{}
	h.Set("X-Forwarded-For", " , 10.0.0.1, 10.0.0.2")
	if got := firstForwardedFor(h); got != "10.0.0.1" {
		t.Fatalf("got %q", got)
	}
}
