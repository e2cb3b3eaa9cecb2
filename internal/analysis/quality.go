package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/angrysky56/esaf-framework-sub001/internal/parser"
)

// ValueKind discriminates the audit value variants.
type ValueKind uint8

const (
	ValueMissing ValueKind = iota
	ValueNumber
	ValueText
	ValueBool
	ValueTree
)

// String names the kind for reports.
func (k ValueKind) String() string {
	switch k {
	case ValueMissing:
		return "missing"
	case ValueNumber:
		return "number"
	case ValueText:
		return "text"
	case ValueBool:
		return "bool"
	case ValueTree:
		return "tree"
	}
	return "unknown"
}

// Value is one audited element. Nulls map to ValueMissing at construction;
// nested structures are ValueTree and carry no payload because the audit only
// inspects kind.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
	Bool bool
}

// MissingValue builds a missing element.
func MissingValue() Value { return Value{Kind: ValueMissing} }

// NumberValue builds a numeric element.
func NumberValue(v float64) Value { return Value{Kind: ValueNumber, Num: v} }

// TextValue builds a text element.
func TextValue(s string) Value { return Value{Kind: ValueText, Str: s} }

// BoolValue builds a boolean element.
func BoolValue(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// TreeValue marks a nested structure.
func TreeValue() Value { return Value{Kind: ValueTree} }

// ValuesFromJSON converts a decoded JSON tree into audit values. A top-level
// array contributes one value per element; any other tree is a single value.
// Nested objects and arrays become ValueTree without recursion.
func ValuesFromJSON(tree any) []Value {
	if arr, ok := tree.([]any); ok {
		out := make([]Value, len(arr))
		for i, el := range arr {
			out[i] = valueFromJSON(el)
		}
		return out
	}
	return []Value{valueFromJSON(tree)}
}

func valueFromJSON(el any) Value {
	switch v := el.(type) {
	case nil:
		return MissingValue()
	case float64:
		return NumberValue(v)
	case string:
		return TextValue(v)
	case bool:
		return BoolValue(v)
	default:
		return TreeValue()
	}
}

// ValuesFromTable converts every cell of a table into audit values in
// row-major order. Empty text cells count toward the missing rate through the
// empty-string rule.
func ValuesFromTable(t *parser.Table) []Value {
	var out []Value
	for _, row := range t.Rows {
		for _, c := range row {
			if c.Kind == parser.CellNumber {
				out = append(out, NumberValue(c.Num))
			} else {
				out = append(out, TextValue(c.Str))
			}
		}
	}
	return out
}

// Issue pairs one detected data problem with a recommendation.
type Issue struct {
	Problem        string
	Recommendation string
}

// QualityReport is the outcome of a value-level quality audit.
type QualityReport struct {
	Score        float64
	MissingRate  float64
	OutlierRate  float64
	Diversity    int
	Elements     int
	NumericCount int
	Issues       []Issue
	Valid        bool
}

// AssessQuality audits a mixed-type value sequence. Missing rate counts
// ValueMissing plus empty-string text. Outlier rate runs the IQR detector
// over the finite numeric subset (0 when no numeric elements exist). Score
// starts at 1.0 and loses 0.5*missingRate, 2*min(outlierRate, 0.1), and
// 0.1 per distinct kind beyond the first, floored at 0.
func AssessQuality(values []Value) (*QualityReport, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("quality audit: %w", ErrEmptyDataset)
	}
	n := len(values)
	missing := 0
	kinds := make(map[ValueKind]int)
	var numeric []float64
	for _, v := range values {
		kinds[v.Kind]++
		switch v.Kind {
		case ValueMissing:
			missing++
		case ValueText:
			if v.Str == "" {
				missing++
			}
		case ValueNumber:
			if !math.IsNaN(v.Num) && !math.IsInf(v.Num, 0) {
				numeric = append(numeric, v.Num)
			}
		}
	}

	rep := &QualityReport{
		MissingRate:  float64(missing) / float64(n),
		Diversity:    len(kinds),
		Elements:     n,
		NumericCount: len(numeric),
	}
	if len(numeric) > 0 {
		iqr, err := DetectIQR(numeric)
		if err != nil {
			return nil, fmt.Errorf("quality audit: %w", err)
		}
		rep.OutlierRate = iqr.Rate
	}

	score := 1.0 -
		0.5*rep.MissingRate -
		2*math.Min(rep.OutlierRate, 0.1) -
		0.1*float64(rep.Diversity-1)
	if score < 0 {
		score = 0
	}
	rep.Score = score

	if rep.MissingRate > 0.1 {
		rep.Issues = append(rep.Issues, Issue{
			Problem:        fmt.Sprintf("high missing rate: %.1f%% of values are absent or empty", rep.MissingRate*100),
			Recommendation: "fill or drop missing entries before further analysis",
		})
	}
	if rep.OutlierRate > 0.05 {
		rep.Issues = append(rep.Issues, Issue{
			Problem:        fmt.Sprintf("elevated outlier rate: %.1f%% of numeric values fall outside the IQR fences", rep.OutlierRate*100),
			Recommendation: "inspect flagged values for entry errors or genuine extremes",
		})
	}
	if rep.Diversity > 2 {
		rep.Issues = append(rep.Issues, Issue{
			Problem:        fmt.Sprintf("mixed value types: %d distinct kinds in one sequence", rep.Diversity),
			Recommendation: "split or normalize the data so each field holds one type",
		})
	}
	rep.Valid = len(rep.Issues) == 0
	return rep, nil
}

// Kind implements Result.
func (*QualityReport) Kind() string { return "quality" }

// Markdown implements Result.
func (r *QualityReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[QUALITY]\n")
	fmt.Fprintf(&b, "Score: %.2f | Valid: %v\n", r.Score, r.Valid)
	fmt.Fprintf(&b, "Elements: %d | Missing: %.1f%% | Outliers: %.1f%% | Distinct types: %d\n",
		r.Elements, r.MissingRate*100, r.OutlierRate*100, r.Diversity)
	if len(r.Issues) > 0 {
		fmt.Fprintf(&b, "Issues:\n")
		for _, is := range r.Issues {
			fmt.Fprintf(&b, "- %s (fix: %s)\n", is.Problem, is.Recommendation)
		}
	}
	return b.String()
}
