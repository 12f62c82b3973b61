package analyses

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"placement-readiness/internal/readiness"
	"placement-readiness/internal/shared/server/respond"
)

func TestCreateAnalysis(t *testing.T) {
	router, _ := setupAnalysisRouter(t)

	report := createSample(t, router, "Google")
	if report.ID != "report-1" {
		t.Fatalf("expected report-1, got %q", report.ID)
	}
	if report.BaseScore != 70 {
		t.Fatalf("expected base score 70, got %d", report.BaseScore)
	}
	if report.LiveScore != report.BaseScore {
		t.Fatalf("expected live score to start at base %d, got %d", report.BaseScore, report.LiveScore)
	}
	if report.Profile == nil || report.Profile.SizeClass != readiness.SizeEnterprise {
		t.Fatalf("expected enterprise profile, got %+v", report.Profile)
	}
	if len(report.Questions) != readiness.MaxQuestions {
		t.Fatalf("expected %d questions, got %d", readiness.MaxQuestions, len(report.Questions))
	}
}

func TestCreateAnalysisRequiresText(t *testing.T) {
	router, _ := setupAnalysisRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/analyses", map[string]string{"company": "Acme", "text": "   "})
	expectErrorCode(t, resp, http.StatusBadRequest, ErrorCodeValidation)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader("{bad json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	expectErrorCode(t, rec, http.StatusBadRequest, ErrorCodeValidation)
}

func TestCreateAnalysisReportsFieldIssues(t *testing.T) {
	router, _ := setupAnalysisRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/analyses", map[string]string{
		"company": strings.Repeat("x", 201),
		"text":    "Java",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	type issueEnvelope struct {
		Error struct {
			Code    string               `json:"code"`
			Details []respond.FieldIssue `json:"details"`
		} `json:"error"`
	}
	env := decodeBody[issueEnvelope](t, resp)
	if env.Error.Code != ErrorCodeValidation {
		t.Fatalf("expected validation code, got %q", env.Error.Code)
	}
	if len(env.Error.Details) != 1 || env.Error.Details[0] != (respond.FieldIssue{Field: "company", Issue: "max"}) {
		t.Fatalf("unexpected details %+v", env.Error.Details)
	}
}

func TestGetAnalysis(t *testing.T) {
	router, _ := setupAnalysisRouter(t)
	created := createSample(t, router, "Google")

	resp := doJSON(t, router, http.MethodGet, "/api/v1/analyses/"+created.ID, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	detail := decodeBody[Detail](t, resp)
	if detail.ID != created.ID {
		t.Fatalf("expected id %q, got %q", created.ID, detail.ID)
	}
	if strings.Join(detail.WeakSkills, ",") != "DSA,Java,React" {
		t.Fatalf("unexpected weak skills %v", detail.WeakSkills)
	}
	if detail.NextAction == "" {
		t.Fatalf("expected next action")
	}

	resp = doJSON(t, router, http.MethodGet, "/api/v1/analyses/missing", nil)
	expectErrorCode(t, resp, http.StatusNotFound, ErrorCodeNotFound)
}

func TestListAnalysesNewestFirst(t *testing.T) {
	router, _ := setupAnalysisRouter(t)
	createSample(t, router, "Google")
	createSample(t, router, "Tiny Labs")

	resp := doJSON(t, router, http.MethodGet, "/api/v1/analyses", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	summaries := decodeBody[[]readiness.Summary](t, resp)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != "report-2" || summaries[0].Company != "Tiny Labs" {
		t.Fatalf("expected newest first, got %+v", summaries[0])
	}
}

func TestSetConfidence(t *testing.T) {
	router, _ := setupAnalysisRouter(t)
	created := createSample(t, router, "Google")
	path := "/api/v1/analyses/" + created.ID + "/skills"

	resp := doJSON(t, router, http.MethodPut, path, map[string]string{"skill": "React", "status": "known"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	detail := decodeBody[Detail](t, resp)
	if detail.LiveScore != 68 {
		t.Fatalf("expected live score 68, got %d", detail.LiveScore)
	}
	if detail.SkillConfidenceMap["React"] != readiness.Known {
		t.Fatalf("expected React known, got %q", detail.SkillConfidenceMap["React"])
	}
	if !detail.UpdatedAt.After(detail.CreatedAt) {
		t.Fatalf("expected updatedAt to move forward")
	}

	resp = doJSON(t, router, http.MethodPut, path, map[string]string{"skill": "React", "status": "maybe"})
	expectErrorCode(t, resp, http.StatusBadRequest, ErrorCodeValidation)

	resp = doJSON(t, router, http.MethodPut, path, map[string]string{"skill": "Kotlin", "status": "known"})
	expectErrorCode(t, resp, http.StatusBadRequest, ErrorCodeUnknownSkill)

	resp = doJSON(t, router, http.MethodPut, "/api/v1/analyses/missing/skills", map[string]string{"skill": "React", "status": "known"})
	expectErrorCode(t, resp, http.StatusNotFound, ErrorCodeNotFound)
}

func TestToggleSkillRoundTrip(t *testing.T) {
	router, _ := setupAnalysisRouter(t)
	created := createSample(t, router, "Google")
	path := "/api/v1/analyses/" + created.ID + "/skills/toggle"

	resp := doJSON(t, router, http.MethodPost, path, map[string]string{"skill": "DSA"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decodeBody[Detail](t, resp).LiveScore; got != 68 {
		t.Fatalf("expected 68 after toggle, got %d", got)
	}

	resp = doJSON(t, router, http.MethodPost, path, map[string]string{"skill": "DSA"})
	// Back to all needs_practice: 70 - 3*2.
	if got := decodeBody[Detail](t, resp).LiveScore; got != 64 {
		t.Fatalf("expected 64 after toggling back, got %d", got)
	}

	resp = doJSON(t, router, http.MethodPost, path, map[string]string{})
	expectErrorCode(t, resp, http.StatusBadRequest, ErrorCodeValidation)
}

func TestStorageFailureMapsToStorageError(t *testing.T) {
	router, svc := setupAnalysisRouter(t)
	svc.History = history.NewStore(failingBlobs{err: errors.New("bucket offline")})

	resp := doJSON(t, router, http.MethodGet, "/api/v1/analyses", nil)
	expectErrorCode(t, resp, http.StatusServiceUnavailable, ErrorCodeStorage)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/analyses", map[string]string{"company": "Acme", "text": "Java SQL"})
	expectErrorCode(t, resp, http.StatusServiceUnavailable, ErrorCodeStorage)
}

func TestExportAnalysis(t *testing.T) {
	router, _ := setupAnalysisRouter(t)
	created := createSample(t, router, "Google")

	resp := doJSON(t, router, http.MethodGet, "/api/v1/analyses/"+created.ID+"/export", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="Analysis_Google.txt"` {
		t.Fatalf("unexpected Content-Disposition %q", got)
	}
	if !strings.HasPrefix(resp.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("unexpected Content-Type %q", resp.Header().Get("Content-Type"))
	}
	if !strings.Contains(resp.Body.String(), "Google") {
		t.Fatalf("expected company in export body")
	}
}

func TestClearAnalyses(t *testing.T) {
	router, _ := setupAnalysisRouter(t)
	createSample(t, router, "Google")

	resp := doJSON(t, router, http.MethodDelete, "/api/v1/analyses", nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodGet, "/api/v1/analyses", nil)
	if summaries := decodeBody[[]readiness.Summary](t, resp); len(summaries) != 0 {
		t.Fatalf("expected empty history, got %d", len(summaries))
	}
}

func multipartUpload(t *testing.T, fileName, contentType string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAnalysis(t *testing.T) {
	router, _ := setupAnalysisRouter(t)

	req := multipartUpload(t, "jd.txt", "text/plain", []byte("Python, Docker and SQL"), map[string]string{
		"company": "Tiny Labs",
		"role":    "Backend Intern",
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	report := decodeBody[readiness.Report](t, resp)
	if report.Company != "Tiny Labs" {
		t.Fatalf("expected company from form, got %q", report.Company)
	}
	if !report.ExtractedSkills.Has(readiness.CategoryCloud) {
		t.Fatalf("expected Docker to be extracted, got %v", report.ExtractedSkills)
	}
}

func TestUploadAnalysisErrors(t *testing.T) {
	router, _ := setupAnalysisRouter(t)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, multipartUpload(t, "jd.png", "image/png", png, nil))
	expectErrorCode(t, resp, http.StatusUnsupportedMediaType, ErrorCodeUnsupported)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, multipartUpload(t, "jd.txt", "text/plain", []byte("   "), nil))
	expectErrorCode(t, resp, http.StatusUnprocessableEntity, ErrorCodeValidation)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, multipartUpload(t, "jd.pdf", "application/pdf", []byte("this upload is not a pdf document"), nil))
	expectErrorCode(t, resp, http.StatusUnprocessableEntity, ErrorCodeExtraction)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses/upload", strings.NewReader(""))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	expectErrorCode(t, resp, http.StatusBadRequest, ErrorCodeValidation)
}

type failingBlobs struct{ err error }

func (f failingBlobs) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingBlobs) Put(context.Context, string, string, []byte) error { return f.err }
func (f failingBlobs) Delete(context.Context, string) error { return f.err }
