package session

import (
	"github.com/angrysky56/esaf-framework-sub001/internal/dataset"
	"github.com/angrysky56/esaf-framework-sub001/internal/parser"
)

// NumericView concatenates the finite numeric sequences of every parsed item
// in storage order, with the contributing item names alongside.
type NumericView struct {
	Values  []float64
	Sources []string
}

// TableGroup pairs one item's table with its display name.
type TableGroup struct {
	Source string
	Table  *parser.Table
}

// TabularView collects the per-item tables in storage order. Tables without
// data rows are skipped.
type TabularView struct {
	Groups  []TableGroup
	Sources []string
}

// AllNumerical assembles the cross-item numeric view.
func (s *Session) AllNumerical() *NumericView {
	v := &NumericView{}
	for _, it := range s.items {
		nums := it.Numbers()
		if len(nums) == 0 {
			continue
		}
		v.Values = append(v.Values, nums...)
		v.Sources = append(v.Sources, it.Name)
	}
	return v
}

// AllTabular assembles the cross-item tabular view.
func (s *Session) AllTabular() *TabularView {
	v := &TabularView{}
	for _, it := range s.items {
		tb := it.Table()
		if tb == nil || tb.RowCount() == 0 {
			continue
		}
		v.Groups = append(v.Groups, TableGroup{Source: it.Name, Table: tb})
		v.Sources = append(v.Sources, it.Name)
	}
	return v
}

// HasAnalyzableData reports whether any item offers numbers, a table, or a
// dataset-like kind worth running agents over.
func (s *Session) HasAnalyzableData() bool {
	for _, it := range s.items {
		if len(it.Numbers()) > 0 || it.Table() != nil {
			return true
		}
		switch it.Kind {
		case dataset.KindCSV, dataset.KindJSON, dataset.KindDataset:
			return true
		}
	}
	return false
}

// Summary is a compact census of the session contents.
type Summary struct {
	TotalItems int
	ByKind     map[dataset.Kind]int
	HasNumeric bool
	HasTabular bool
	Recent     []string
}

// Summary counts items per kind and names the three most recently ingested.
func (s *Session) Summary() *Summary {
	sum := &Summary{
		TotalItems: len(s.items),
		ByKind:     make(map[dataset.Kind]int),
	}
	for _, it := range s.items {
		sum.ByKind[it.Kind]++
		if len(it.Numbers()) > 0 {
			sum.HasNumeric = true
		}
		if tb := it.Table(); tb != nil && tb.RowCount() > 0 {
			sum.HasTabular = true
		}
	}
	for i := len(s.items) - 1; i >= 0 && len(sum.Recent) < 3; i-- {
		sum.Recent = append(sum.Recent, s.items[i].Name)
	}
	return sum
}
