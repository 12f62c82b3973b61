package analyses

import (
	"context"
	"errors"
	"strings"
	"testing"

	"placement-readiness/internal/extract"
	"placement-readiness/internal/history"
	"placement-readiness/internal/readiness"
)

func TestServiceCreateRejectsBlankText(t *testing.T) {
	_, svc := setupAnalysisRouter(t)

	_, err := svc.Create(context.Background(), readiness.Submission{Company: "Acme", Text: " \n "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestServiceCreateHonorsCanceledContext(t *testing.T) {
	_, svc := setupAnalysisRouter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Create(ctx, readiness.Submission{Text: "Java"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	reports, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reports) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(reports))
	}
}

func TestServiceCreateFromUploadErrors(t *testing.T) {
	_, svc := setupAnalysisRouter(t)
	ctx := context.Background()

	_, err := svc.CreateFromUpload(ctx, []byte("GIF89a"), "image/gif", "jd.gif", "", "")
	if !errors.Is(err, extract.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("unsupported type should not be reported as extraction failure")
	}

	_, err = svc.CreateFromUpload(ctx, []byte{0xff, 0xfe, 0xfd}, "text/plain", "jd.txt", "", "")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestServiceSetConfidenceRejectsInvalidStatus(t *testing.T) {
	_, svc := setupAnalysisRouter(t)
	report, err := svc.Create(context.Background(), readiness.Submission{Company: "Google", Role: "SDE", Text: "DSA, Java and React"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SetConfidence(context.Background(), report.ID, "Java", "mastered"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.Toggle(context.Background(), report.ID, "Rust"); !errors.Is(err, history.ErrUnknownSkill) {
		t.Fatalf("expected ErrUnknownSkill, got %v", err)
	}
}

func TestServiceExport(t *testing.T) {
	_, svc := setupAnalysisRouter(t)
	report, err := svc.Create(context.Background(), readiness.Submission{Text: "Python and SQL"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name, body, err := svc.Export(context.Background(), report.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if name != "Analysis_Ready.txt" {
		t.Fatalf("expected fallback file name, got %q", name)
	}
	if !strings.Contains(body, "Python") {
		t.Fatalf("expected extracted skill in export body")
	}
}
