package agents

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/angrysky56/esaf-framework-sub001/internal/analysis"
	"github.com/angrysky56/esaf-framework-sub001/internal/session"
)

// Reliability hypothesis names.
const (
	HypothesisReliable     = "reliable"
	HypothesisQuestionable = "questionable"
	HypothesisUnreliable   = "unreliable"
)

// BayesAgent judges how trustworthy the session data is. Each auditable item
// contributes one belief update driven by its quality score; the final
// beliefs then serve as priors for a classification at the mean score.
type BayesAgent struct{}

// NewBayesAgent returns a bayes agent.
func NewBayesAgent() *BayesAgent { return &BayesAgent{} }

func (*BayesAgent) Name() string { return "bayes" }

func (*BayesAgent) Description() string {
	return "updates beliefs about data reliability from per-item quality evidence"
}

// Analyze implements Agent.
func (*BayesAgent) Analyze(ctx context.Context, sess *session.Session, query string) (analysis.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var scores []float64
	for _, it := range sess.Items() {
		values := auditableValues(it)
		if len(values) == 0 {
			continue
		}
		rep, err := analysis.AssessQuality(values)
		if err != nil {
			return nil, fmt.Errorf("assess %s: %w", it.Name, err)
		}
		scores = append(scores, rep.Score)
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("no auditable items in session: %w", analysis.ErrEmptyDataset)
	}

	beliefs := uniformReliabilityBeliefs()
	for _, s := range scores {
		updated, err := analysis.UpdateBelief(beliefs, []float64{s}, reliabilityLikelihood)
		if err != nil {
			return nil, err
		}
		beliefs = updated
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	meanScore := sum / float64(len(scores))

	hyps := make([]analysis.Hypothesis, len(beliefs))
	for i, b := range beliefs {
		name := b.Hypothesis
		hyps[i] = analysis.Hypothesis{
			Name:  name,
			Prior: b.Probability,
			Likelihood: func(ev []float64) float64 {
				return reliabilityLikelihood(name, ev)
			},
		}
	}
	class, err := analysis.Classify([]float64{meanScore}, hyps)
	if err != nil {
		return nil, err
	}

	return &ReliabilityReport{
		Items:     len(scores),
		MeanScore: meanScore,
		Beliefs:   beliefs,
		Class:     class,
	}, nil
}

func uniformReliabilityBeliefs() analysis.Beliefs {
	names := []string{HypothesisReliable, HypothesisQuestionable, HypothesisUnreliable}
	out := make(analysis.Beliefs, len(names))
	for i, name := range names {
		out[i] = analysis.Belief{Hypothesis: name, Probability: 1.0 / float64(len(names))}
	}
	return out
}

// reliabilityLikelihood maps a quality score in [0,1] to the likelihood of
// observing it under each hypothesis: reliable favors high scores,
// unreliable low ones, questionable the middle.
func reliabilityLikelihood(hypothesis string, evidence []float64) float64 {
	if len(evidence) == 0 {
		return 0
	}
	s := evidence[0]
	switch hypothesis {
	case HypothesisReliable:
		return s
	case HypothesisUnreliable:
		return 1 - s
	case HypothesisQuestionable:
		return 1 - math.Abs(2*s-1)
	}
	return 0
}

// ReliabilityReport is the bayes agent's verdict on the session data.
type ReliabilityReport struct {
	Items     int
	MeanScore float64
	Beliefs   analysis.Beliefs
	Class     *analysis.Classification
}

// Assessment names the winning hypothesis.
func (r *ReliabilityReport) Assessment() string { return r.Class.Best.Name }

// Kind implements analysis.Result.
func (*ReliabilityReport) Kind() string { return "bayes.reliability" }

// Markdown implements analysis.Result.
func (r *ReliabilityReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[BAYES: RELIABILITY]\n")
	fmt.Fprintf(&b, "Items: %d | Mean quality score: %.2f\n", r.Items, r.MeanScore)
	fmt.Fprintf(&b, "Assessment: %s (posterior %.2f)\n\n", r.Assessment(), r.Class.Best.Posterior)
	b.WriteString(r.Class.Markdown())
	b.WriteString("\n")
	b.WriteString(r.Beliefs.Markdown())
	return b.String()
}
