package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/angrysky56/esaf-framework-sub001/internal/analysis"
	"github.com/angrysky56/esaf-framework-sub001/internal/utils"
)

var (
	anAgent      string
	anQuery      string
	anOutputPath string
	anJSON       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <files...>",
	Short: "Ingest data files and run analysis agents over them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession(args)
		if err != nil {
			return err
		}
		if !sess.HasAnalyzableData() {
			return fmt.Errorf("no analyzable data in %d item(s); run 'esaf inspect' to see how they parsed", len(sess.Items()))
		}

		reg := newRegistry()
		names := []string{anAgent}
		if anAgent == "all" {
			names = reg.Names()
		}

		results := make(map[string]analysis.Result, len(names))
		var sections []string
		for _, name := range names {
			res, runErr := reg.Run(cmd.Context(), sess, name, anQuery)
			if runErr != nil {
				// With --agent all, agents without matching data just sit out
				if anAgent == "all" {
					fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", runErr)
					continue
				}
				return runErr
			}
			results[name] = res
			sections = append(sections, res.Markdown())
		}
		if len(sections) == 0 {
			return fmt.Errorf("no agent produced a result")
		}

		var out string
		if anJSON {
			b, err := utils.PrettyJSON(results)
			if err != nil {
				return fmt.Errorf("encode results: %w", err)
			}
			out = string(b)
		} else {
			out = strings.Join(sections, "\n")
		}

		if anOutputPath != "" {
			if err := utils.SafeWriteFile(anOutputPath, []byte(out)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote analysis to %s\n", anOutputPath)
			return nil
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anAgent, "agent", "a", "all", "agent to run: anomaly | features | quality | bayes | all")
	analyzeCmd.Flags().StringVarP(&anQuery, "query", "q", "", "free-form query recorded with the results")
	analyzeCmd.Flags().StringVarP(&anOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().BoolVar(&anJSON, "json", false, "emit results as JSON instead of markdown")
}
