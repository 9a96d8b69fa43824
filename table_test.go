package gomkit

import (
	"bytes"
	"reflect"
	"testing"
)

func TestSanitize_StripsQuotesAndWhitespace(t *testing.T) {
	tbl := NewTable(
		[]string{` "id" `, "'name'"},
		[][]string{
			{` "1" `, "  'Ana'  "},
			{"2", `Bob`},
		},
	)
	clean := tbl.Sanitize()

	if got := clean.ColumnNames(); !reflect.DeepEqual(got, []string{"id", "name"}) {
		t.Fatalf("expected clean names [id name], got %v", got)
	}
	name := clean.Column("name")
	if name.Kind != String {
		t.Fatalf("expected name column to stay String")
	}
	if got := name.Cells[0].Str; got != "Ana" {
		t.Errorf("expected cleaned cell Ana, got %q", got)
	}
}

func TestSanitize_NumericCoercionAllOrNothing(t *testing.T) {
	tbl := NewTable(
		[]string{"a", "b"},
		[][]string{
			{"1", "1"},
			{"x", "2.5"},
			{"3", "3"},
		},
	)
	clean := tbl.Sanitize()

	if clean.Column("a").Kind != String {
		t.Errorf("expected column a to stay String (one unparseable cell)")
	}
	b := clean.Column("b")
	if b.Kind != Numeric {
		t.Fatalf("expected column b to be Numeric")
	}
	if b.Cells[1].Num != 2.5 {
		t.Errorf("expected b[1]=2.5, got %v", b.Cells[1].Num)
	}
}

func TestSanitize_EmptyAfterCleaningIsMissing(t *testing.T) {
	tbl := NewTable(
		[]string{"a"},
		[][]string{{`""`}, {"7"}},
	)
	clean := tbl.Sanitize()

	a := clean.Column("a")
	if !a.Cells[0].Missing {
		t.Errorf("expected quote-only cell to become missing")
	}
	if a.Kind != Numeric {
		t.Errorf("expected column to coerce Numeric despite missing cell")
	}
}

func TestSanitize_AllMissingColumnStaysString(t *testing.T) {
	tbl := NewTable(
		[]string{"a"},
		[][]string{{""}, {""}},
	)
	clean := tbl.Sanitize()
	if clean.Column("a").Kind != String {
		t.Errorf("expected all-missing column to stay String")
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	tbl := NewTable(
		[]string{" 'id' ", "city"},
		[][]string{
			{`"1"`, " 'Recife' "},
			{"2", ""},
		},
	)
	once := tbl.Sanitize()
	twice := once.Sanitize()
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("sanitizing twice changed the table:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestCSVRoundTrip_FixedPoint(t *testing.T) {
	tbl := NewTable(
		[]string{"Variable", "n"},
		[][]string{
			{"AGE", "120"},
			{"SEX", ""},
		},
	).Sanitize()

	var buf bytes.Buffer
	if err := WriteCSV(tbl, &buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := ReadCSV(buf.Bytes())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	back = back.Sanitize()

	if !reflect.DeepEqual(tbl, back) {
		t.Errorf("round trip is not a fixed point:\nwant %+v\ngot  %+v", tbl, back)
	}
}

func TestNewTable_ShortRowsPad(t *testing.T) {
	tbl := NewTable(
		[]string{"a", "b", "c"},
		[][]string{{"1", "2"}},
	)
	if got := tbl.RowCount(); got != 1 {
		t.Fatalf("expected 1 row, got %d", got)
	}
	if !tbl.Column("c").Cells[0].Missing {
		t.Errorf("expected padded cell to be missing")
	}
}

func TestMissingColumns_PreservesOrder(t *testing.T) {
	tbl := NewTable([]string{"a", "b"}, nil)
	got := tbl.MissingColumns([]string{"z", "a", "y"})
	if !reflect.DeepEqual(got, []string{"z", "y"}) {
		t.Errorf("expected [z y], got %v", got)
	}
}

func TestValueFormat(t *testing.T) {
	if got := (Value{Num: 0.5}).Format(Numeric); got != "0.5" {
		t.Errorf("expected 0.5, got %q", got)
	}
	if got := (Value{Missing: true}).Format(Numeric); got != "" {
		t.Errorf("expected empty for missing, got %q", got)
	}
	if got := (Value{Str: "AGE"}).Format(String); got != "AGE" {
		t.Errorf("expected AGE, got %q", got)
	}
}
