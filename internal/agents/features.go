package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/angrysky56/esaf-framework-sub001/internal/analysis"
	"github.com/angrysky56/esaf-framework-sub001/internal/session"
)

// DefaultMaxCorrelationColumns caps the width of the Pearson matrix; wider
// tables are skipped rather than producing an O(n^2) wall of numbers.
const DefaultMaxCorrelationColumns = 32

// FeaturesAgent extracts descriptive statistics over the numeric view and
// correlates the numeric columns of each tabular item.
type FeaturesAgent struct {
	MaxColumns int
}

// NewFeaturesAgent returns a features agent with the default column cap.
func NewFeaturesAgent() *FeaturesAgent {
	return &FeaturesAgent{MaxColumns: DefaultMaxCorrelationColumns}
}

func (*FeaturesAgent) Name() string { return "features" }

func (*FeaturesAgent) Description() string {
	return "extracts descriptive, distribution, variability, and shape statistics plus column correlations"
}

// Analyze implements Agent.
func (a *FeaturesAgent) Analyze(ctx context.Context, sess *session.Session, query string) (analysis.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	view := sess.AllNumerical()
	if len(view.Values) == 0 {
		return nil, fmt.Errorf("no numeric data in session: %w", analysis.ErrEmptyDataset)
	}
	feats, err := analysis.ExtractFeatures(view.Values)
	if err != nil {
		return nil, err
	}

	report := &FeatureReport{
		Sources:  view.Sources,
		Elements: len(view.Values),
		Features: feats,
	}
	for _, group := range sess.AllTabular().Groups {
		names, rows := group.Table.NumericMatrix()
		if len(names) < 2 || len(rows) < 2 {
			continue
		}
		if a.MaxColumns > 0 && len(names) > a.MaxColumns {
			report.Skipped = append(report.Skipped, group.Source)
			continue
		}
		corr, err := analysis.Correlate(rows, names)
		if err != nil {
			return nil, fmt.Errorf("correlate %s: %w", group.Source, err)
		}
		report.Correlations = append(report.Correlations, SourceCorrelation{
			Source:      group.Source,
			Correlation: corr,
		})
	}
	return report, nil
}

// SourceCorrelation ties a correlation matrix to the item it came from.
type SourceCorrelation struct {
	Source      string
	Correlation *analysis.Correlation
}

// FeatureReport is the combined feature and correlation output. Skipped names
// tabular sources whose column count exceeded the cap.
type FeatureReport struct {
	Sources      []string
	Elements     int
	Features     *analysis.Features
	Correlations []SourceCorrelation
	Skipped      []string
}

// Kind implements analysis.Result.
func (*FeatureReport) Kind() string { return "features.report" }

// Markdown implements analysis.Result.
func (r *FeatureReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[FEATURE REPORT]\n")
	fmt.Fprintf(&b, "Sources: %s\n", strings.Join(r.Sources, ", "))
	fmt.Fprintf(&b, "Elements: %d\n\n", r.Elements)
	b.WriteString(r.Features.Markdown())
	for _, sc := range r.Correlations {
		fmt.Fprintf(&b, "\n## %s\n", sc.Source)
		b.WriteString(sc.Correlation.Markdown())
	}
	for _, src := range r.Skipped {
		fmt.Fprintf(&b, "\nSkipped correlation for %s: too many columns\n", src)
	}
	return b.String()
}
