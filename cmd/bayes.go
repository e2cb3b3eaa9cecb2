package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/angrysky56/esaf-framework-sub001/internal/analysis"
)

var (
	bpLikelihood float64
	bpPrior      float64
	bpMarginal   float64

	bcHypotheses []string

	buBeliefs []string
	buWeights []string
)

var bayesCmd = &cobra.Command{
	Use:   "bayes",
	Short: "Run Bayesian calculations directly",
}

var bayesPosteriorCmd = &cobra.Command{
	Use:   "posterior",
	Short: "Compute a single posterior from likelihood, prior, and marginal",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := analysis.Posterior(bpLikelihood, bpPrior, bpMarginal)
		if err != nil {
			return err
		}
		fmt.Printf("Posterior: %g\n", p)
		return nil
	},
}

var bayesClassifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify across hypotheses given fixed likelihoods",
	Long: `Each --hypothesis takes name:prior:likelihood, e.g.

  esaf bayes classify -H spam:0.3:0.9 -H ham:0.7:0.2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(bcHypotheses) == 0 {
			return fmt.Errorf("at least one --hypothesis is required")
		}
		hyps := make([]analysis.Hypothesis, 0, len(bcHypotheses))
		for _, spec := range bcHypotheses {
			name, prior, like, err := parseHypothesis(spec)
			if err != nil {
				return err
			}
			hyps = append(hyps, analysis.Hypothesis{
				Name:       name,
				Prior:      prior,
				Likelihood: func([]float64) float64 { return like },
			})
		}
		class, err := analysis.Classify(nil, hyps)
		if err != nil {
			return err
		}
		fmt.Println(class.Markdown())
		return nil
	},
}

var bayesUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a belief distribution with per-hypothesis likelihoods",
	Long: `Each --belief takes name:probability and each --weight takes
name:likelihood, e.g.

  esaf bayes update -b rain:0.5 -b dry:0.5 -w rain:0.8 -w dry:0.1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(buBeliefs) == 0 {
			return fmt.Errorf("at least one --belief is required")
		}
		prior := make(analysis.Beliefs, 0, len(buBeliefs))
		for _, spec := range buBeliefs {
			name, p, err := parseWeight(spec, "--belief")
			if err != nil {
				return err
			}
			prior = append(prior, analysis.Belief{Hypothesis: name, Probability: p})
		}
		weights := make(map[string]float64, len(buWeights))
		for _, spec := range buWeights {
			name, w, err := parseWeight(spec, "--weight")
			if err != nil {
				return err
			}
			weights[name] = w
		}
		posterior, err := analysis.UpdateBelief(prior, nil, func(hypothesis string, _ []float64) float64 {
			return weights[hypothesis]
		})
		if err != nil {
			return err
		}
		fmt.Println(posterior.Markdown())
		return nil
	},
}

func parseHypothesis(spec string) (name string, prior, likelihood float64, err error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 || parts[0] == "" {
		return "", 0, 0, fmt.Errorf("invalid --hypothesis %q (want name:prior:likelihood)", spec)
	}
	prior, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid prior in %q: %w", spec, err)
	}
	likelihood, err = strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid likelihood in %q: %w", spec, err)
	}
	return parts[0], prior, likelihood, nil
}

func parseWeight(spec, flag string) (name string, value float64, err error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", 0, fmt.Errorf("invalid %s %q (want name:value)", flag, spec)
	}
	value, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid value in %q: %w", spec, err)
	}
	return parts[0], value, nil
}

func init() {
	rootCmd.AddCommand(bayesCmd)
	bayesCmd.AddCommand(bayesPosteriorCmd)
	bayesCmd.AddCommand(bayesClassifyCmd)
	bayesCmd.AddCommand(bayesUpdateCmd)

	bayesPosteriorCmd.Flags().Float64VarP(&bpLikelihood, "likelihood", "l", 0, "P(E|H)")
	bayesPosteriorCmd.Flags().Float64VarP(&bpPrior, "prior", "p", 0, "P(H)")
	bayesPosteriorCmd.Flags().Float64VarP(&bpMarginal, "marginal", "m", 0, "P(E)")
	_ = bayesPosteriorCmd.MarkFlagRequired("likelihood")
	_ = bayesPosteriorCmd.MarkFlagRequired("prior")
	_ = bayesPosteriorCmd.MarkFlagRequired("marginal")

	bayesClassifyCmd.Flags().StringArrayVarP(&bcHypotheses, "hypothesis", "H", nil, "hypothesis as name:prior:likelihood (repeatable)")

	bayesUpdateCmd.Flags().StringArrayVarP(&buBeliefs, "belief", "b", nil, "prior belief as name:probability (repeatable)")
	bayesUpdateCmd.Flags().StringArrayVarP(&buWeights, "weight", "w", nil, "likelihood as name:value (repeatable)")
}
