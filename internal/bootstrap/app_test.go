package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"placement-readiness/internal/shared/config"
	"placement-readiness/internal/shared/telemetry"
)

func TestBuildServesAnalysisLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	prev := telemetry.SetOutput(&bytes.Buffer{})
	defer telemetry.SetOutput(prev)

	app, err := Build(context.Background(), config.Config{
		Env:                "dev",
		HistoryStore:       config.StoreLocal,
		HistoryKey:         "analysis_history",
		LocalStoreDir:      t.TempDir(),
		RateLimitPerMinute: 600,
		RateLimitBurst:     50,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()

	body, _ := json.Marshal(map[string]string{"company": "Google", "role": "SDE", "text": "DSA, Java and React"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var summaries []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("decode summaries: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK || !bytes.Contains(resp.Body.Bytes(), []byte("readiness_reports_built_total")) {
		t.Fatalf("expected metrics output, got %d", resp.Code)
	}
}

func TestBuildRejectsBadCatalogPath(t *testing.T) {
	_, err := Build(context.Background(), config.Config{
		HistoryStore: config.StoreMemory,
		CatalogPath:  "does-not-exist.json",
	})
	if err == nil {
		t.Fatalf("expected catalog load error")
	}
}

func TestBuildPostgresWithoutURLFallsBackInDev(t *testing.T) {
	app, err := Build(context.Background(), config.Config{
		Env:          "dev",
		HistoryStore: config.StorePostgres,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if app.DB != nil {
		t.Fatalf("expected no database in dev fallback")
	}
}
