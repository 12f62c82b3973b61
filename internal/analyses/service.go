package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"placement-readiness/internal/extract"
	"placement-readiness/internal/history"
	"placement-readiness/internal/readiness"
	"placement-readiness/internal/shared/metrics"
	"placement-readiness/internal/shared/telemetry"
)

const weakSkillLimit = 3

// Service runs the readiness engine and keeps its reports in history.
type Service struct {
	Engine  *readiness.Engine
	History *history.Store
}

// Detail is a report with the derived fields the results view shows.
type Detail struct {
	readiness.Report
	WeakSkills []string `json:"weakSkills"`
	NextAction string   `json:"nextAction"`
}

// Create builds a report from sub and appends it to history.
func (s *Service) Create(ctx context.Context, sub readiness.Submission) (readiness.Report, error) {
	if err := ctx.Err(); err != nil {
		return readiness.Report{}, err
	}
	if strings.TrimSpace(sub.Text) == "" {
		return readiness.Report{}, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}

	start := time.Now()
	report := s.Engine.BuildReport(sub)
	metrics.ObserveBuildDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	metrics.IncReportsBuilt()

	if err := s.History.Append(ctx, report); err != nil {
		return readiness.Report{}, fmt.Errorf("append report: %w", err)
	}
	telemetry.Info("report.created", map[string]any{
		"report_id":  report.ID,
		"company":    report.Company,
		"base_score": report.BaseScore,
		"skills":     len(report.SkillConfidenceMap),
	})
	return report, nil
}

// CreateFromUpload extracts text from an uploaded job description and creates a report from it.
func (s *Service) CreateFromUpload(ctx context.Context, data []byte, mimeType, fileName, company, role string) (readiness.Report, error) {
	text, err := extract.ExtractTextFromBytes(ctx, data, mimeType, fileName)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedType) || ctx.Err() != nil {
			return readiness.Report{}, fmt.Errorf("extract %s: %w", fileName, err)
		}
		return readiness.Report{}, fmt.Errorf("%w: %s: %w", ErrExtractionFailed, fileName, err)
	}
	if strings.TrimSpace(text) == "" {
		return readiness.Report{}, fmt.Errorf("%w: no text found in %s", ErrInvalidInput, fileName)
	}
	return s.Create(ctx, readiness.Submission{Company: company, Role: role, Text: text})
}

// List returns summaries newest first.
func (s *Service) List(ctx context.Context) ([]readiness.Summary, error) {
	reports, err := s.History.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]readiness.Summary, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.Summarize())
	}
	return out, nil
}

// Get returns a report with its weak skills and next action.
func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	report, err := s.History.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return newDetail(report), nil
}

// SetConfidence records the status of one skill.
func (s *Service) SetConfidence(ctx context.Context, id, skill string, status readiness.Confidence) (Detail, error) {
	if !status.Valid() {
		return Detail{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	report, err := s.History.UpdateConfidence(ctx, id, skill, status)
	if err != nil {
		return Detail{}, err
	}
	return newDetail(report), nil
}

// Toggle flips the status of one skill.
func (s *Service) Toggle(ctx context.Context, id, skill string) (Detail, error) {
	report, err := s.History.ToggleSkill(ctx, id, skill)
	if err != nil {
		return Detail{}, err
	}
	return newDetail(report), nil
}

// Export renders the plain-text report and its download file name.
func (s *Service) Export(ctx context.Context, id string) (string, string, error) {
	report, err := s.History.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	return readiness.ExportFileName(report), readiness.RenderText(report), nil
}

// ClearAll removes every stored report.
func (s *Service) ClearAll(ctx context.Context) error {
	return s.History.ClearAll(ctx)
}

func newDetail(report readiness.Report) Detail {
	return Detail{
		Report:     report,
		WeakSkills: readiness.WeakSkills(report, weakSkillLimit),
		NextAction: readiness.NextAction(report),
	}
}

// ObserveHistory records metrics and logs for history events.
func ObserveHistory(ev history.Event) {
	switch ev.Kind {
	case history.EventUpdated:
		metrics.IncConfidenceUpdates()
	case history.EventCleared:
		metrics.IncHistoryCleared()
		telemetry.Info("history.cleared", map[string]any{"count": ev.Count})
	case history.EventDropped:
		metrics.AddHistoryRecordsDropped(ev.Count)
	}
}
