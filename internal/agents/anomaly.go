package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/angrysky56/esaf-framework-sub001/internal/analysis"
	"github.com/angrysky56/esaf-framework-sub001/internal/session"
)

// AnomalyAgent runs all three detectors over the session's numeric view and
// reports them side by side.
type AnomalyAgent struct {
	ZThreshold   float64
	MADThreshold float64
}

// NewAnomalyAgent returns an anomaly agent with the default thresholds.
func NewAnomalyAgent() *AnomalyAgent {
	return &AnomalyAgent{
		ZThreshold:   analysis.DefaultZScoreThreshold,
		MADThreshold: analysis.DefaultMADThreshold,
	}
}

func (*AnomalyAgent) Name() string { return "anomaly" }

func (*AnomalyAgent) Description() string {
	return "detects outliers with z-score, IQR fence, and modified z-score methods"
}

// Analyze implements Agent.
func (a *AnomalyAgent) Analyze(ctx context.Context, sess *session.Session, query string) (analysis.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	view := sess.AllNumerical()
	if len(view.Values) == 0 {
		return nil, fmt.Errorf("no numeric data in session: %w", analysis.ErrEmptyDataset)
	}

	z, err := analysis.DetectZScore(view.Values, a.ZThreshold)
	if err != nil {
		return nil, err
	}
	iqr, err := analysis.DetectIQR(view.Values)
	if err != nil {
		return nil, err
	}
	mad, err := analysis.DetectMAD(view.Values, a.MADThreshold)
	if err != nil {
		return nil, err
	}

	return &AnomalyReport{
		Sources:   view.Sources,
		Elements:  len(view.Values),
		ZScore:    z,
		IQR:       iqr,
		MAD:       mad,
		Consensus: consensus(z.Anomalies, iqr.Anomalies, mad.Anomalies),
	}, nil
}

// AnomalyReport is the combined output of the three detectors. Consensus
// lists the values flagged by at least two of them.
type AnomalyReport struct {
	Sources   []string
	Elements  int
	ZScore    *analysis.ZScoreResult
	IQR       *analysis.IQRResult
	MAD       *analysis.MADResult
	Consensus []float64
}

// Kind implements analysis.Result.
func (*AnomalyReport) Kind() string { return "anomaly" }

// Markdown implements analysis.Result.
func (r *AnomalyReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[ANOMALY REPORT]\n")
	fmt.Fprintf(&b, "Sources: %s\n", strings.Join(r.Sources, ", "))
	fmt.Fprintf(&b, "Elements: %d\n\n", r.Elements)
	b.WriteString(r.ZScore.Markdown())
	b.WriteString("\n")
	b.WriteString(r.IQR.Markdown())
	b.WriteString("\n")
	b.WriteString(r.MAD.Markdown())
	b.WriteString("\n[CONSENSUS]\n")
	if len(r.Consensus) == 0 {
		b.WriteString("No value was flagged by two or more detectors.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Flagged by 2+ detectors: %d\n", len(r.Consensus))
	for _, v := range r.Consensus {
		fmt.Fprintf(&b, "- %g\n", v)
	}
	return b.String()
}

// consensus returns the values appearing in at least two of the flag lists.
// Each list contributes a value once, and order follows the first list that
// contains it.
func consensus(lists ...[]float64) []float64 {
	counts := make(map[float64]int)
	var order []float64
	for _, list := range lists {
		seen := make(map[float64]bool, len(list))
		for _, v := range list {
			if seen[v] {
				continue
			}
			seen[v] = true
			if counts[v] == 0 {
				order = append(order, v)
			}
			counts[v]++
		}
	}
	var out []float64
	for _, v := range order {
		if counts[v] >= 2 {
			out = append(out, v)
		}
	}
	return out
}
