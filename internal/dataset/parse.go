package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/angrysky56/esaf-framework-sub001/internal/parser"
)

// parse builds the normalized view for an item. It returns (nil, nil) when no
// parse applies to the kind, and (nil, err) when a parse was attempted and
// failed; the caller degrades either into an unparsed item.
func parse(kind Kind, name string, content Content) (*ParsedView, error) {
	switch kind {
	case KindCSV:
		text, err := contentText(content)
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		return tabularView(parser.ParseTable(text)), nil

	case KindJSON:
		tree, err := contentTree(content)
		if err != nil {
			return nil, err
		}
		return jsonView(tree), nil

	case KindText:
		text, err := contentText(content)
		if err != nil {
			return nil, fmt.Errorf("text: %w", err)
		}
		return &ParsedView{Text: parser.NormalizeText(text), Structure: StructureText}, nil

	case KindDataset:
		return datasetView(content)

	case KindFile:
		if b, ok := content.Bytes(); ok && strings.EqualFold(filepath.Ext(name), ".docx") {
			text, err := parser.ExtractDOCX(b)
			if err != nil {
				return nil, fmt.Errorf("docx: %w", err)
			}
			return &ParsedView{Text: text, Structure: StructureText}, nil
		}
		return nil, nil

	default: // KindURL and anything unrecognized stay opaque
		return nil, nil
	}
}

// contentText extracts a string payload: text as-is, bytes decoded verbatim.
func contentText(content Content) (string, error) {
	switch content.kind {
	case ContentText:
		return content.text, nil
	case ContentBytes:
		return string(content.bytes), nil
	default:
		return "", fmt.Errorf("structured content has no text form")
	}
}

// contentTree extracts a decoded tree: structured as-is, text and bytes
// through the JSON decoder.
func contentTree(content Content) (any, error) {
	if tree, ok := content.Structured(); ok {
		return tree, nil
	}
	text, err := contentText(content)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal([]byte(text), &tree); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return tree, nil
}

// tabularView wraps a parsed table with its row-major numeric extraction.
func tabularView(t *parser.Table) *ParsedView {
	return &ParsedView{
		Numbers:   t.Numbers(),
		Table:     t,
		Structure: StructureTabular,
	}
}

// jsonView projects a decoded tree. Arrays keep their finite top-level
// numbers and, when the elements are uniform flat objects, gain a tabular
// projection as well; everything else is an opaque object tree.
func jsonView(tree any) *ParsedView {
	arr, ok := tree.([]any)
	if !ok {
		return &ParsedView{JSON: tree, Structure: StructureObject}
	}
	return &ParsedView{
		Numbers:   numbersFromArray(arr),
		Table:     tableFromObjects(arr),
		JSON:      tree,
		Structure: StructureArray,
	}
}

// datasetView handles the generic-dataset kind: XLSX bytes through the sheet
// reader, text through the tabular parser, structured arrays like json.
func datasetView(content Content) (*ParsedView, error) {
	switch content.kind {
	case ContentBytes:
		records, err := parser.ParseXLSX(content.bytes)
		if err != nil {
			return nil, fmt.Errorf("xlsx: %w", err)
		}
		return tabularView(parser.TableFromRecords(records)), nil
	case ContentText:
		return tabularView(parser.ParseTable(content.text)), nil
	default:
		return jsonView(content.tree), nil
	}
}

func numbersFromArray(arr []any) []float64 {
	var out []float64
	for _, el := range arr {
		if v, ok := el.(float64); ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// tableFromObjects builds a table from an array of uniform flat objects:
// every element shares the first element's key set and every value is a JSON
// scalar. Columns are sorted for determinism. Returns nil when the array does
// not qualify.
func tableFromObjects(arr []any) *parser.Table {
	if len(arr) == 0 {
		return nil
	}
	first, ok := arr[0].(map[string]any)
	if !ok || len(first) == 0 {
		return nil
	}
	cols := make([]string, 0, len(first))
	for k := range first {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	t := &parser.Table{Columns: cols}
	for _, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok || len(obj) != len(cols) {
			return nil
		}
		row := make([]parser.Cell, len(cols))
		for j, c := range cols {
			v, present := obj[c]
			if !present {
				return nil
			}
			cell, ok := cellFromJSON(v)
			if !ok {
				return nil
			}
			row[j] = cell
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// cellFromJSON maps a JSON scalar to a cell; nested values disqualify the
// table projection.
func cellFromJSON(v any) (parser.Cell, bool) {
	switch x := v.(type) {
	case nil:
		return parser.Text(""), true
	case float64:
		return parser.Number(x), true
	case string:
		return parser.Text(x), true
	case bool:
		return parser.Text(strconv.FormatBool(x)), true
	default:
		return parser.Cell{}, false
	}
}
