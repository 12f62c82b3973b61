package respond

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"placement-readiness/internal/shared/telemetry"
)

func TestAttachmentStripsHeaderBreakingCharacters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/export", func(c *gin.Context) {
		Attachment(c, "Analysis_\"Acme\"\r\n.txt", "Score: 64")
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/export", nil))

	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="Analysis_Acme.txt"` {
		t.Fatalf("unexpected Content-Disposition %q", got)
	}
	if resp.Body.String() != "Score: 64" {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
}

func TestValidationEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	prev := telemetry.SetOutput(io.Discard)
	defer telemetry.SetOutput(prev)

	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		Validation(c, "text is required", FieldIssue{Field: "text", Issue: "required"})
	})
	r.POST("/y", func(c *gin.Context) {
		Validation(c, "bad body")
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/x", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code    string       `json:"code"`
			Details []FieldIssue `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Code != CodeValidation || len(payload.Error.Details) != 1 {
		t.Fatalf("unexpected payload %+v", payload)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/y", nil))
	var raw map[string]map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["error"]["details"]; ok {
		t.Fatalf("expected details omitted when there are no issues")
	}
}
