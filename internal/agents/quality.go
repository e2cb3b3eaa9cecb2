package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/angrysky56/esaf-framework-sub001/internal/analysis"
	"github.com/angrysky56/esaf-framework-sub001/internal/dataset"
	"github.com/angrysky56/esaf-framework-sub001/internal/session"
)

// QualityAgent audits every parsed item in the session, one quality report
// per item.
type QualityAgent struct{}

// NewQualityAgent returns a quality agent.
func NewQualityAgent() *QualityAgent { return &QualityAgent{} }

func (*QualityAgent) Name() string { return "quality" }

func (*QualityAgent) Description() string {
	return "scores completeness, outlier contamination, and type consistency per item"
}

// Analyze implements Agent.
func (*QualityAgent) Analyze(ctx context.Context, sess *session.Session, query string) (analysis.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	survey := &QualitySurvey{}
	for _, it := range sess.Items() {
		values := auditableValues(it)
		if len(values) == 0 {
			continue
		}
		rep, err := analysis.AssessQuality(values)
		if err != nil {
			return nil, fmt.Errorf("assess %s: %w", it.Name, err)
		}
		survey.Audits = append(survey.Audits, ItemAudit{Source: it.Name, Report: rep})
	}
	if len(survey.Audits) == 0 {
		return nil, fmt.Errorf("no auditable items in session: %w", analysis.ErrEmptyDataset)
	}
	return survey, nil
}

// auditableValues converts an item's parsed view into quality values. Tables
// audit cell by cell; JSON trees element by element. Plain text and opaque
// items have nothing to audit.
func auditableValues(it *dataset.Item) []analysis.Value {
	view := it.View
	if view == nil {
		return nil
	}
	if view.Table != nil {
		return analysis.ValuesFromTable(view.Table)
	}
	if view.JSON != nil {
		return analysis.ValuesFromJSON(view.JSON)
	}
	return nil
}

// ItemAudit is one item's quality report.
type ItemAudit struct {
	Source string
	Report *analysis.QualityReport
}

// QualitySurvey is the per-item quality audit of a session.
type QualitySurvey struct {
	Audits []ItemAudit
}

// MeanScore averages the per-item quality scores.
func (s *QualitySurvey) MeanScore() float64 {
	if len(s.Audits) == 0 {
		return 0
	}
	var sum float64
	for _, a := range s.Audits {
		sum += a.Report.Score
	}
	return sum / float64(len(s.Audits))
}

// Kind implements analysis.Result.
func (*QualitySurvey) Kind() string { return "quality.survey" }

// Markdown implements analysis.Result.
func (s *QualitySurvey) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[QUALITY SURVEY]\n")
	fmt.Fprintf(&b, "Items audited: %d | Mean score: %.2f\n", len(s.Audits), s.MeanScore())
	for _, a := range s.Audits {
		fmt.Fprintf(&b, "\n## %s\n", a.Source)
		b.WriteString(a.Report.Markdown())
	}
	return b.String()
}
