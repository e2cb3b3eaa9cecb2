package agents_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angrysky56/esaf-framework-sub001/internal/agents"
	"github.com/angrysky56/esaf-framework-sub001/internal/analysis"
	"github.com/angrysky56/esaf-framework-sub001/internal/dataset"
	"github.com/angrysky56/esaf-framework-sub001/internal/session"
)

func TestBayesAgentCleanDataIsReliable(t *testing.T) {
	sess := session.New()
	sess.Ingest("clean.csv",
		dataset.TextContent("v\n1\n2\n3\n4\n5"),
		dataset.WithKind(dataset.KindCSV))

	res, err := agents.NewBayesAgent().Analyze(context.Background(), sess, "q")
	require.NoError(t, err)
	report, ok := res.(*agents.ReliabilityReport)
	require.True(t, ok)

	require.Equal(t, 1, report.Items)
	require.InDelta(t, 1.0, report.MeanScore, 1e-12)
	require.Equal(t, agents.HypothesisReliable, report.Assessment())

	require.Equal(t, agents.HypothesisReliable, report.Beliefs[0].Hypothesis)
	require.InDelta(t, 1.0, report.Beliefs[0].Probability, 1e-9)
	require.InDelta(t, 1.0, report.Class.Best.Posterior, 1e-9)
}

// A score of 0.5 is peak likelihood for the questionable hypothesis.
func TestBayesAgentMiddlingDataIsQuestionable(t *testing.T) {
	sess := session.New()
	sess.Ingest("vals.json", dataset.BytesContent([]byte("[null, null, null, null, 1]")))

	res, err := agents.NewBayesAgent().Analyze(context.Background(), sess, "q")
	require.NoError(t, err)
	report := res.(*agents.ReliabilityReport)

	require.InDelta(t, 0.5, report.MeanScore, 1e-9)
	require.Equal(t, agents.HypothesisQuestionable, report.Assessment())

	require.Equal(t, agents.HypothesisQuestionable, report.Beliefs[1].Hypothesis)
	require.InDelta(t, 0.5, report.Beliefs[1].Probability, 1e-9)
	require.InDelta(t, 0.25, report.Beliefs[0].Probability, 1e-9)
	require.InDelta(t, 0.25, report.Beliefs[2].Probability, 1e-9)
	require.InDelta(t, 2.0/3.0, report.Class.Best.Posterior, 1e-9)
}

// Updates chain item by item: a perfect first item concentrates all belief
// on reliable, and later evidence cannot resurrect a zeroed hypothesis.
func TestBayesAgentChainsUpdates(t *testing.T) {
	sess := session.New()
	sess.Ingest("clean.csv",
		dataset.TextContent("v\n1\n2\n3\n4\n5"),
		dataset.WithKind(dataset.KindCSV))
	sess.Ingest("vals.json", dataset.BytesContent([]byte("[null, null, null, null, 1]")))

	res, err := agents.NewBayesAgent().Analyze(context.Background(), sess, "q")
	require.NoError(t, err)
	report := res.(*agents.ReliabilityReport)

	require.Equal(t, 2, report.Items)
	require.InDelta(t, 0.75, report.MeanScore, 1e-9)
	require.InDelta(t, 1.0, report.Beliefs[0].Probability, 1e-9)
	require.InDelta(t, 0.0, report.Beliefs[1].Probability, 1e-9)
	require.Equal(t, agents.HypothesisReliable, report.Assessment())
}

func TestBayesAgentNothingAuditable(t *testing.T) {
	sess := session.New()
	sess.Ingest("notes", dataset.TextContent("prose only"))

	_, err := agents.NewBayesAgent().Analyze(context.Background(), sess, "q")
	require.ErrorIs(t, err, analysis.ErrEmptyDataset)
}

func TestReliabilityReportMarkdown(t *testing.T) {
	sess := session.New()
	sess.Ingest("vals.json", dataset.BytesContent([]byte("[null, null, null, null, 1]")))

	res, err := agents.NewBayesAgent().Analyze(context.Background(), sess, "q")
	require.NoError(t, err)

	require.Equal(t, "bayes.reliability", res.Kind())
	md := res.Markdown()
	require.Contains(t, md, "[BAYES: RELIABILITY]")
	require.Contains(t, md, "Assessment: questionable")
	require.Contains(t, md, "[BAYES: CLASSIFICATION]")
	require.Contains(t, md, "Winner: questionable")
	require.Contains(t, md, "[BAYES: BELIEFS]")
}
