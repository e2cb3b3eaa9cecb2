package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// ParseXLSX extracts the first worksheet of an .xlsx payload as raw string
// records, one slice per row, aligned by cell reference so sparse rows keep
// their column positions. The records feed TableFromRecords for coercion.
func ParseXLSX(data []byte) ([][]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	sheets := parseWorkbook(readZipFile(zr, "xl/workbook.xml"))
	rels := parseRelationships(readZipFile(zr, "xl/_rels/workbook.xml.rels"))
	shared := parseSharedStrings(readZipFile(zr, "xl/sharedStrings.xml"))

	target := firstSheetPath(sheets, rels)
	sheetXML := readZipFile(zr, target)
	if len(sheetXML) == 0 {
		return nil, fmt.Errorf("worksheet %s not found", target)
	}
	return parseSheetRows(sheetXML, shared), nil
}

type sheetRef struct {
	Name    string
	SheetID int
	RID     string
}

// firstSheetPath resolves the archive path of the first worksheet: the sheet
// with sheetId 1 when present, else the first workbook entry, else the
// conventional sheet1.xml location.
func firstSheetPath(sheets []sheetRef, rels map[string]string) string {
	for _, s := range sheets {
		if s.SheetID == 1 {
			if rel, ok := rels[s.RID]; ok {
				return normalizeRelPath(rel)
			}
			break
		}
	}
	if len(sheets) > 0 {
		if rel, ok := rels[sheets[0].RID]; ok {
			return normalizeRelPath(rel)
		}
	}
	return "xl/worksheets/sheet1.xml"
}

func parseWorkbook(data []byte) []sheetRef {
	if len(data) == 0 {
		return nil
	}
	var doc struct {
		Sheets []struct {
			Name    string `xml:"name,attr"`
			SheetID string `xml:"sheetId,attr"`
			RID     string `xml:"id,attr"`
		} `xml:"sheets>sheet"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil
	}
	sheets := make([]sheetRef, 0, len(doc.Sheets))
	for _, s := range doc.Sheets {
		sheets = append(sheets, sheetRef{Name: s.Name, SheetID: atoiSafe(s.SheetID), RID: s.RID})
	}
	return sheets
}

// parseRelationships returns the r:id to Target mapping from workbook.xml.rels.
func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	if len(data) == 0 {
		return out
	}
	var doc struct {
		Rels []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return out
	}
	for _, r := range doc.Rels {
		if r.ID != "" && r.Target != "" {
			out[r.ID] = r.Target
		}
	}
	return out
}

// parseSharedStrings handles both plain (<si><t>) and rich-text (<si><r><t>)
// entries; rich runs are concatenated.
func parseSharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	var sst struct {
		Items []struct {
			Text string   `xml:"t"`
			Runs []string `xml:"r>t"`
		} `xml:"si"`
	}
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil
	}
	out := make([]string, len(sst.Items))
	for i, it := range sst.Items {
		if len(it.Runs) > 0 {
			out[i] = strings.Join(it.Runs, "")
			continue
		}
		out[i] = it.Text
	}
	return out
}

type sheetRow struct {
	Cells []sheetCell `xml:"c"`
}

type sheetCell struct {
	Ref    string   `xml:"r,attr"`
	Type   string   `xml:"t,attr"`
	Value  string   `xml:"v"`
	Inline []string `xml:"is>t"`
}

// text resolves the cell's display value: shared-string lookup for t="s",
// inline runs for inlineStr cells, raw <v> content otherwise.
func (c sheetCell) text(shared []string) string {
	if c.Type == "s" {
		idx := atoiSafe(c.Value)
		if idx >= 0 && idx < len(shared) {
			return shared[idx]
		}
		return ""
	}
	if len(c.Inline) > 0 {
		return strings.Join(c.Inline, "")
	}
	return c.Value
}

// record lays the row's cells out by column reference, leaving gaps empty so
// sparse rows stay aligned. Cells without a reference fall back to position.
func (r sheetRow) record(shared []string) []string {
	width := 0
	idxs := make([]int, len(r.Cells))
	for i, c := range r.Cells {
		idx := colIndexFromRef(c.Ref)
		if idx < 0 {
			idx = i
		}
		idxs[i] = idx
		if idx+1 > width {
			width = idx + 1
		}
	}
	out := make([]string, width)
	for i, c := range r.Cells {
		out[idxs[i]] = c.text(shared)
	}
	return out
}

// parseSheetRows decodes each <row> element wholesale and materializes it.
// Decode errors end the stream with whatever rows were already complete.
func parseSheetRows(data []byte, shared []string) [][]string {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var rows [][]string
	for {
		tok, err := dec.Token()
		if err != nil {
			return rows
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "row" {
			continue
		}
		var row sheetRow
		if err := dec.DecodeElement(&row, &se); err != nil {
			return rows
		}
		rows = append(rows, row.record(shared))
	}
}

// colIndexFromRef converts refs like "C12" to 0-based column indexes,
// or -1 when the ref carries no column letters.
func colIndexFromRef(ref string) int {
	idx := 0
	for i := 0; i < len(ref); i++ {
		c := ref[i] | 0x20
		if c < 'a' || c > 'z' {
			break
		}
		idx = idx*26 + int(c-'a') + 1
	}
	return idx - 1
}

func atoiSafe(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// normalizeRelPath converts relationship Target paths to ZIP entry paths.
// Targets may carry a leading slash; ZIP entries never do.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}

// readZipFile returns the named archive member, or nil when absent or
// unreadable.
func readZipFile(zr *zip.Reader, name string) []byte {
	rc, err := zr.Open(name)
	if err != nil {
		return nil
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil
	}
	return b
}
