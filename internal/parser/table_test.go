package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/angrysky56/esaf-framework-sub001/internal/parser"
)

func TestCoerceCell(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want parser.Cell
	}{
		{"integer", "42", parser.Number(42)},
		{"negative", "-5", parser.Number(-5)},
		{"float", "3.14", parser.Number(3.14)},
		{"scientific", "1e3", parser.Number(1000)},
		{"padded", " 42 ", parser.Number(42)},
		{"empty", "", parser.Text("")},
		{"spaces only", "   ", parser.Text("")},
		{"word", "thirty", parser.Text("thirty")},
		{"padded word", "  thirty ", parser.Text("thirty")},
		{"quoted text", `"hello"`, parser.Text("hello")},
		{"quoted numeral stays text", `"42"`, parser.Text("42")},
		{"nan literal", "NaN", parser.Text("NaN")},
		{"inf literal", "Inf", parser.Text("Inf")},
		{"percent", "10%", parser.Text("10%")},
		{"mixed", "4 apples", parser.Text("4 apples")},
	}
	for _, c := range cases {
		if got := parser.CoerceCell(c.in); got != c.want {
			t.Errorf("%s: CoerceCell(%q) = %+v, want %+v", c.name, c.in, got, c.want)
		}
	}
}

func TestParseTable(t *testing.T) {
	src := "name,value,category\nitem1,10,A\nitem2,20,B\nitem3,thirty,A\n"
	got := parser.ParseTable(src)
	want := &parser.Table{
		Columns: []string{"name", "value", "category"},
		Rows: [][]parser.Cell{
			{parser.Text("item1"), parser.Number(10), parser.Text("A")},
			{parser.Text("item2"), parser.Number(20), parser.Text("B")},
			{parser.Text("item3"), parser.Text("thirty"), parser.Text("A")},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTableHeaderCleanup(t *testing.T) {
	got := parser.ParseTable("\"name\", 'score' , plain\nx,1,2\n")
	wantCols := []string{"name", "score", "plain"}
	if diff := cmp.Diff(wantCols, got.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTableRaggedRows(t *testing.T) {
	got := parser.ParseTable("a,b,c\n1,2\n1,2,3,4\n")
	if got.RowCount() != 2 {
		t.Fatalf("rows = %d, want 2", got.RowCount())
	}
	// short row: missing trailing cell becomes empty text
	if c := got.Rows[0][2]; c != parser.Text("") {
		t.Errorf("short row padding = %+v, want empty text", c)
	}
	// long row: extras beyond the header are dropped
	if n := len(got.Rows[1]); n != 3 {
		t.Errorf("long row width = %d, want 3", n)
	}
}

func TestParseTableDegenerate(t *testing.T) {
	if got := parser.ParseTable(""); got.RowCount() != 0 || len(got.Columns) != 0 {
		t.Fatalf("empty input: got %+v", got)
	}
	headerOnly := parser.ParseTable("a,b,c\n")
	if headerOnly.RowCount() != 0 {
		t.Fatalf("header only: rows = %d, want 0", headerOnly.RowCount())
	}
	if len(headerOnly.Columns) != 3 {
		t.Fatalf("header only: columns = %d, want 3", len(headerOnly.Columns))
	}
	// blank and CRLF lines are skipped, not parsed as rows
	crlf := parser.ParseTable("a,b\r\n\r\n1,2\r\n")
	if crlf.RowCount() != 1 {
		t.Fatalf("crlf rows = %d, want 1", crlf.RowCount())
	}
}

func TestTableNumbersRowMajor(t *testing.T) {
	tab := parser.ParseTable("a,b\n1,x\n2,3\ny,4\n")
	got := tab.Numbers()
	want := []float64{1, 2, 3, 4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("numbers mismatch (-want +got):\n%s", diff)
	}
}

func TestTableRowMapAndColumn(t *testing.T) {
	tab := parser.ParseTable("name,value\nitem1,10\nitem2,20\n")
	m := tab.RowMap(1)
	if m["name"] != parser.Text("item2") || m["value"] != parser.Number(20) {
		t.Fatalf("RowMap(1) = %+v", m)
	}
	col, ok := tab.Column("value")
	if !ok || len(col) != 2 || col[0] != parser.Number(10) {
		t.Fatalf("Column(value) = %+v ok=%v", col, ok)
	}
	if _, ok := tab.Column("missing"); ok {
		t.Fatal("Column(missing) should not exist")
	}
}

func TestTableNumericMatrix(t *testing.T) {
	tab := parser.ParseTable("id,score,label,weight\n1,10,a,0.5\n2,20,b,0.7\n3,30,c,0.9\n")
	names, rows := tab.NumericMatrix()
	wantNames := []string{"id", "score", "weight"}
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if len(rows) != 3 || len(rows[0]) != 3 {
		t.Fatalf("matrix shape = %dx%d, want 3x3", len(rows), len(rows[0]))
	}
	if rows[1][1] != 20 || rows[2][2] != 0.9 {
		t.Fatalf("matrix values wrong: %+v", rows)
	}
}

func TestTableNumericMatrixExcludesGappyColumns(t *testing.T) {
	tab := parser.ParseTable("a,b\n1,\n2,3\n")
	names, rows := tab.NumericMatrix()
	if len(names) != 1 || names[0] != "a" {
		t.Fatalf("names = %v, want [a]", names)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
}

func TestTableFromRecords(t *testing.T) {
	recs := [][]string{
		{"name", "value"},
		{"10", "20.5"},
		{"n/a", ""},
	}
	tab := parser.TableFromRecords(recs)
	if tab.RowCount() != 2 {
		t.Fatalf("rows = %d, want 2", tab.RowCount())
	}
	if tab.Rows[0][0] != parser.Number(10) || tab.Rows[1][0] != parser.Text("n/a") {
		t.Fatalf("coercion wrong: %+v", tab.Rows)
	}
}

func TestNormalizeText(t *testing.T) {
	in := "first\r\nsecond\r\r\n\n\nthird  \n"
	got := parser.NormalizeText(in)
	want := "first\nsecond\n\nthird"
	if got != want {
		t.Fatalf("NormalizeText = %q, want %q", got, want)
	}
}
