package report

import "testing"

func TestParseSheet(t *testing.T) {
	data := []byte("12.1.24,,\nNO CALLS,,\n")
	sheet, err := ParseSheet(data)
	if err != nil {
		t.Fatalf("ParseSheet: %v", err)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(sheet.Rows))
	}
	if sheet.Rows[0].Cell(0) != "12.1.24" {
		t.Errorf("cell(0,0) = %q", sheet.Rows[0].Cell(0))
	}
}

func TestParseSheet_StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("12.1.24,a,b\n")...)
	sheet, err := ParseSheet(data)
	if err != nil {
		t.Fatalf("ParseSheet: %v", err)
	}
	if got := sheet.Rows[0].Cell(0); got != "12.1.24" {
		t.Errorf("BOM not stripped, cell = %q", got)
	}
}

func TestParseSheet_RaggedRows(t *testing.T) {
	sheet, err := ParseSheet([]byte("a\nb,c,d\ne,f\n"))
	if err != nil {
		t.Fatalf("ragged rows should parse: %v", err)
	}
	if sheet.Columns() != 3 {
		t.Errorf("Columns() = %d, want 3", sheet.Columns())
	}
}

func TestParseSheet_MalformedQuoting(t *testing.T) {
	// Bare quote inside an unquoted field is tolerated by lazy quoting, but a
	// broken quoted field spanning EOF is a structural error.
	if _, err := ParseSheet([]byte("\"unterminated\n")); err == nil {
		t.Error("expected a parse error for unterminated quote")
	}
}

func TestRowCell_OutOfRange(t *testing.T) {
	r := Row{"a"}
	if r.Cell(5) != "" || r.Cell(-1) != "" {
		t.Error("out-of-range cells must be empty strings")
	}
	if !(Row{" ", ""}).IsEmpty() {
		t.Error("whitespace-only row should be empty")
	}
}
