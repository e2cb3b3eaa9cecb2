package session

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angrysky56/esaf-framework-sub001/internal/dataset"
	"github.com/angrysky56/esaf-framework-sub001/internal/utils"
)

const (
	defaultPreviewTokens = 600
	previewSampleRows    = 3
)

// SessionInfo is the bookkeeping slice of the agent context.
type SessionInfo struct {
	LastAgent        string
	LastAnalysisType string
	ActiveDatasets   []string
}

// Preview is one item's token-budgeted text excerpt.
type Preview struct {
	Source string
	Kind   dataset.Kind
	Tokens int
	Text   string
}

// AgentContext bundles everything an agent prompt needs to know about the
// session: the census, the recent ledger, session info, and data previews.
type AgentContext struct {
	Summary  *Summary
	Records  []Record
	Info     SessionInfo
	Previews []Preview
}

// AgentContext assembles the context bundle. Previews cover parsed items
// only, in storage order, each truncated to the session's preview token
// budget.
func (s *Session) AgentContext() *AgentContext {
	ctx := &AgentContext{
		Summary: s.Summary(),
		Records: s.RecentResults(3),
		Info: SessionInfo{
			LastAgent:        s.lastAgent,
			LastAnalysisType: s.lastAnalysisType,
			ActiveDatasets:   s.ActiveDatasets(),
		},
	}
	for _, it := range s.items {
		text := previewText(it)
		if text == "" {
			continue
		}
		text = utils.TruncateToTokenLimit(text, s.previewTokens)
		ctx.Previews = append(ctx.Previews, Preview{
			Source: it.Name,
			Kind:   it.Kind,
			Tokens: utils.CountTokens(text),
			Text:   text,
		})
	}
	return ctx
}

// previewText renders one item for prompt inclusion. Unparsed items render
// nothing.
func previewText(it *dataset.Item) string {
	v := it.View
	if v == nil {
		return ""
	}
	if v.Table != nil && v.Table.RowCount() > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "columns: %s | rows: %d", strings.Join(v.Table.Columns, ", "), v.Table.RowCount())
		for i := 0; i < v.Table.RowCount() && i < previewSampleRows; i++ {
			cells := make([]string, len(v.Table.Columns))
			for j := range v.Table.Columns {
				cells[j] = v.Table.Rows[i][j].String()
			}
			fmt.Fprintf(&b, "\n%s", strings.Join(cells, ", "))
		}
		return b.String()
	}
	if v.Structure == dataset.StructureText {
		return v.Text
	}
	if v.JSON != nil {
		b, err := json.Marshal(v.JSON)
		if err != nil {
			return ""
		}
		return string(b)
	}
	return ""
}

// Markdown renders the bundle as a prompt block.
func (c *AgentContext) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[DATA CONTEXT]\n")
	fmt.Fprintf(&b, "Items: %d\n", c.Summary.TotalItems)
	if len(c.Summary.ByKind) > 0 {
		kinds := make([]string, 0, len(c.Summary.ByKind))
		for k := range c.Summary.ByKind {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		parts := make([]string, 0, len(kinds))
		for _, k := range kinds {
			parts = append(parts, fmt.Sprintf("%s %d", k, c.Summary.ByKind[dataset.Kind(k)]))
		}
		fmt.Fprintf(&b, "Kinds: %s\n", strings.Join(parts, ", "))
	}
	fmt.Fprintf(&b, "Numeric data: %s | Tabular data: %s\n",
		yesNo(c.Summary.HasNumeric), yesNo(c.Summary.HasTabular))
	if len(c.Info.ActiveDatasets) > 0 {
		fmt.Fprintf(&b, "Active datasets: %s\n", strings.Join(c.Info.ActiveDatasets, ", "))
	}
	if c.Info.LastAgent != "" {
		fmt.Fprintf(&b, "Last analysis: %s (%s)\n", c.Info.LastAgent, c.Info.LastAnalysisType)
	}
	if len(c.Records) > 0 {
		fmt.Fprintf(&b, "[RECENT ANALYSES]\n")
		for _, r := range c.Records {
			fmt.Fprintf(&b, "- %s %s: %q\n", r.Time.Format(time.RFC3339), r.Agent, r.Query)
		}
	}
	if len(c.Previews) > 0 {
		fmt.Fprintf(&b, "[DATA PREVIEWS]\n")
		for _, p := range c.Previews {
			fmt.Fprintf(&b, "## %s (%s, ~%d tokens)\n%s\n", p.Source, p.Kind, p.Tokens, p.Text)
		}
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
