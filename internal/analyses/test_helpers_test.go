package analyses

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"placement-readiness/internal/history"
	"placement-readiness/internal/readiness"
	"placement-readiness/internal/shared/storage/object/memory"
	"placement-readiness/internal/shared/telemetry"
)

var testNow = time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)

func setupAnalysisRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	prev := telemetry.SetOutput(io.Discard)
	t.Cleanup(func() { telemetry.SetOutput(prev) })

	n := 0
	engine := readiness.NewEngine(readiness.DefaultCatalog(),
		readiness.WithClock(func() time.Time { return testNow }),
		readiness.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("report-%d", n)
		}),
	)
	store := history.NewStore(memory.New(), history.WithClock(func() time.Time { return testNow.Add(time.Minute) }))
	svc := &Service{Engine: engine, History: store}

	router := gin.New()
	NewHandler(svc, 1<<20).RegisterRoutes(router.Group("/api/v1"))
	return router, svc
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeBody[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, resp.Body.String())
	}
	return out
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func expectErrorCode(t *testing.T, resp *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if resp.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, resp.Code, resp.Body.String())
	}
	env := decodeBody[errorEnvelope](t, resp)
	if env.Error.Code != code {
		t.Fatalf("expected error code %q, got %q", code, env.Error.Code)
	}
}

func createSample(t *testing.T, router *gin.Engine, company string) readiness.Report {
	t.Helper()
	resp := doJSON(t, router, http.MethodPost, "/api/v1/analyses", map[string]string{
		"company": company,
		"role":    "SDE",
		"text":    "DSA, Java and React",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	return decodeBody[readiness.Report](t, resp)
}
