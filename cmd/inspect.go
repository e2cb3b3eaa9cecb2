package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/angrysky56/esaf-framework-sub001/internal/dataset"
	"github.com/angrysky56/esaf-framework-sub001/internal/utils"
)

var inspectContext bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <files...>",
	Short: "Classify and parse data files, reporting what the agents would see",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession(args)
		if err != nil {
			return err
		}

		for _, it := range sess.Items() {
			glyph, detail := describeItem(it)
			fmt.Printf("%s %s [%s] size %d\n", glyph, it.Name, it.Kind, it.Metadata.Size)
			fmt.Printf("    %s\n", detail)
		}

		sum := sess.Summary()
		var kinds []string
		for kind, n := range sum.ByKind {
			kinds = append(kinds, fmt.Sprintf("%s %d", kind, n))
		}
		sort.Strings(kinds)
		fmt.Printf("Summary: %d item(s) | %s | numeric: %v | tabular: %v\n",
			sum.TotalItems, strings.Join(kinds, ", "), sum.HasNumeric, sum.HasTabular)

		if inspectContext {
			fmt.Println()
			fmt.Println(sess.AgentContext().Markdown())
		}
		return nil
	},
}

func describeItem(it *dataset.Item) (glyph, detail string) {
	switch {
	case it.Parsed():
		v := it.View
		switch {
		case v.Table != nil:
			return "✓", fmt.Sprintf("table %d column(s) x %d row(s), %d numeric value(s)",
				len(v.Table.Columns), v.Table.RowCount(), len(v.Numbers))
		case len(v.Numbers) > 0:
			return "✓", fmt.Sprintf("%d numeric value(s)", len(v.Numbers))
		case v.Structure == dataset.StructureText:
			return "✓", fmt.Sprintf("text, ~%d token(s)", utils.CountTokens(v.Text))
		default:
			return "✓", string(v.Structure)
		}
	case it.Metadata.ParseError != "":
		return "✗", "parse error: " + it.Metadata.ParseError
	default:
		return "⚠", "opaque content, not analyzed"
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectContext, "context", false, "print the full data context markdown")
}
