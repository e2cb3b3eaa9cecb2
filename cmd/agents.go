package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List available analysis agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := newRegistry()
		statuses := reg.Statuses()
		for _, ag := range reg.Agents() {
			fmt.Printf("%-10s [%s] %s\n", ag.Name(), statuses[ag.Name()].State, ag.Description())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}
