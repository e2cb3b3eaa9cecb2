package analysis

import (
	"fmt"
	"strings"
)

// Posterior computes likelihood*prior/marginal. A zero marginal or a
// probability outside [0,1] is ErrInvalidArgument.
func Posterior(likelihood, prior, marginal float64) (float64, error) {
	if err := checkProbability("likelihood", likelihood); err != nil {
		return 0, err
	}
	if err := checkProbability("prior", prior); err != nil {
		return 0, err
	}
	if marginal == 0 {
		return 0, fmt.Errorf("posterior: zero marginal: %w", ErrInvalidArgument)
	}
	return likelihood * prior / marginal, nil
}

// Hypothesis pairs a named prior with a likelihood model over evidence.
type Hypothesis struct {
	Name       string
	Prior      float64
	Likelihood func(evidence []float64) float64
}

// HypothesisPosterior is one classification entry. Entries keep the input
// hypothesis order.
type HypothesisPosterior struct {
	Name       string
	Prior      float64
	Likelihood float64
	Posterior  float64
}

// Classification is the outcome of classifying evidence over a hypothesis set.
type Classification struct {
	Posteriors []HypothesisPosterior
	Best       HypothesisPosterior
	BestIndex  int
	Marginal   float64
	Confidence float64
}

// Classify evaluates every hypothesis against the evidence. The marginal is
// the sum of likelihood*prior over all hypotheses and is shared by every
// posterior. The winner is the first hypothesis, in input order, attaining
// the maximal posterior. Confidence is the ratio of the top two posteriors in
// descending order capped at 1.0, and defined as 1.0 when fewer than two
// hypotheses have nonzero posterior or the runner-up is zero.
func Classify(evidence []float64, hypotheses []Hypothesis) (*Classification, error) {
	if len(hypotheses) == 0 {
		return nil, fmt.Errorf("classify: %w", ErrEmptyDataset)
	}
	c := &Classification{Posteriors: make([]HypothesisPosterior, len(hypotheses))}
	for i, h := range hypotheses {
		if h.Likelihood == nil {
			return nil, fmt.Errorf("classify: hypothesis %q has no likelihood: %w", h.Name, ErrInvalidArgument)
		}
		l := h.Likelihood(evidence)
		if err := checkProbability(fmt.Sprintf("likelihood of %q", h.Name), l); err != nil {
			return nil, err
		}
		if err := checkProbability(fmt.Sprintf("prior of %q", h.Name), h.Prior); err != nil {
			return nil, err
		}
		c.Posteriors[i] = HypothesisPosterior{Name: h.Name, Prior: h.Prior, Likelihood: l}
		c.Marginal += l * h.Prior
	}
	for i := range c.Posteriors {
		p, err := Posterior(c.Posteriors[i].Likelihood, c.Posteriors[i].Prior, c.Marginal)
		if err != nil {
			return nil, fmt.Errorf("classify: %w", err)
		}
		c.Posteriors[i].Posterior = p
	}

	// Winner: first maximal posterior in input order.
	c.BestIndex = 0
	for i, hp := range c.Posteriors {
		if hp.Posterior > c.Posteriors[c.BestIndex].Posterior {
			c.BestIndex = i
		}
	}
	c.Best = c.Posteriors[c.BestIndex]
	c.Confidence = confidence(c.Posteriors)
	return c, nil
}

// confidence computes the capped descending ratio of the top two posteriors.
func confidence(posts []HypothesisPosterior) float64 {
	var top, second float64
	nonzero := 0
	for _, hp := range posts {
		if hp.Posterior != 0 {
			nonzero++
		}
		switch {
		case hp.Posterior > top:
			second = top
			top = hp.Posterior
		case hp.Posterior > second:
			second = hp.Posterior
		}
	}
	if nonzero < 2 || second == 0 {
		return 1.0
	}
	ratio := top / second
	if ratio > 1 {
		return 1.0
	}
	return ratio
}

// Kind implements Result.
func (*Classification) Kind() string { return "bayes.classification" }

// Markdown implements Result.
func (c *Classification) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[BAYES: CLASSIFICATION]\n")
	fmt.Fprintf(&b, "Hypotheses: %d | Marginal: %s\n", len(c.Posteriors), formatNum(c.Marginal))
	fmt.Fprintf(&b, "Winner: %s (posterior %s, confidence %s)\n",
		c.Best.Name, formatNum(c.Best.Posterior), formatNum(c.Confidence))
	for _, hp := range c.Posteriors {
		fmt.Fprintf(&b, "- %s: prior %s -> posterior %s\n",
			hp.Name, formatNum(hp.Prior), formatNum(hp.Posterior))
	}
	return b.String()
}

// Belief is one entry of an ordered belief distribution.
type Belief struct {
	Hypothesis  string
	Probability float64
}

// Beliefs is an ordered belief distribution. Order is meaningful and is
// preserved by updates; this is deliberately a slice, not a map.
type Beliefs []Belief

// UpdateBelief reweights a prior distribution by per-hypothesis likelihoods
// and normalizes. Each unnormalized weight is likelihood*prior; when the
// weights sum to zero the input distribution is returned unchanged.
func UpdateBelief(prior Beliefs, evidence []float64, likelihood func(hypothesis string, evidence []float64) float64) (Beliefs, error) {
	if likelihood == nil {
		return nil, fmt.Errorf("update belief: nil likelihood: %w", ErrInvalidArgument)
	}
	weights := make([]float64, len(prior))
	sum := 0.0
	for i, b := range prior {
		if err := checkProbability(fmt.Sprintf("prior of %q", b.Hypothesis), b.Probability); err != nil {
			return nil, err
		}
		l := likelihood(b.Hypothesis, evidence)
		if err := checkProbability(fmt.Sprintf("likelihood of %q", b.Hypothesis), l); err != nil {
			return nil, err
		}
		weights[i] = l * b.Probability
		sum += weights[i]
	}
	out := make(Beliefs, len(prior))
	copy(out, prior)
	if sum == 0 {
		return out, nil
	}
	for i := range out {
		out[i].Probability = weights[i] / sum
	}
	return out, nil
}

// Kind implements Result.
func (Beliefs) Kind() string { return "bayes.beliefs" }

// Markdown implements Result.
func (bs Beliefs) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[BAYES: BELIEFS]\n")
	for _, belief := range bs {
		fmt.Fprintf(&b, "- %s: %s\n", belief.Hypothesis, formatNum(belief.Probability))
	}
	return b.String()
}

func checkProbability(what string, p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("%s %v outside [0,1]: %w", what, p, ErrInvalidArgument)
	}
	return nil
}
