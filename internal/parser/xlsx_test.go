package parser_test

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/angrysky56/esaf-framework-sub001/internal/parser"
)

func buildXLSX(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestParseXLSX(t *testing.T) {
	data := buildXLSX(t, map[string]string{
		"xl/workbook.xml": `<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets><sheet name="Data" sheetId="1" r:id="rId1"/></sheets></workbook>`,
		"xl/_rels/workbook.xml.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/></Relationships>`,
		"xl/sharedStrings.xml": `<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="3" uniqueCount="3"><si><t>name</t></si><si><t>value</t></si><si><t>n/a</t></si></sst>`,
		"xl/worksheets/sheet1.xml": `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` +
			`<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>` +
			`<row r="2"><c r="A2"><v>10</v></c><c r="B2"><v>20.5</v></c></row>` +
			`<row r="3"><c r="A3" t="s"><v>2</v></c><c r="C3"><v>7</v></c></row>` +
			`</sheetData></worksheet>`,
	})

	records, err := parser.ParseXLSX(data)
	if err != nil {
		t.Fatalf("ParseXLSX: %v", err)
	}
	want := [][]string{
		{"name", "value"},
		{"10", "20.5"},
		{"n/a", "", "7"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	tab := parser.TableFromRecords(records)
	if tab.RowCount() != 2 {
		t.Fatalf("rows = %d, want 2", tab.RowCount())
	}
	if tab.Rows[0][1] != parser.Number(20.5) {
		t.Fatalf("cell B2 = %+v, want number 20.5", tab.Rows[0][1])
	}
	// sparse row: missing B3 stays empty, C3 dropped beyond the header
	if tab.Rows[1][1] != parser.Text("") {
		t.Fatalf("cell B3 = %+v, want empty text", tab.Rows[1][1])
	}
}

func TestParseXLSXNotAZip(t *testing.T) {
	if _, err := parser.ParseXLSX([]byte("plainly not a zip")); err == nil {
		t.Fatal("expected error for non-zip payload")
	}
}

func TestParseXLSXMissingSheet(t *testing.T) {
	data := buildXLSX(t, map[string]string{
		"xl/workbook.xml": `<workbook><sheets></sheets></workbook>`,
	})
	if _, err := parser.ParseXLSX(data); err == nil {
		t.Fatal("expected error when no worksheet exists")
	}
}
