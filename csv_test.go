package gomkit

import (
	"errors"
	"testing"
)

func TestReadCSV_Basic(t *testing.T) {
	tbl, err := ReadCSV([]byte("id,name\n1,Ana\n2,Bob\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tbl.RowCount(); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}
	if got := tbl.Column("name").Cells[1].Str; got != "Bob" {
		t.Errorf("expected Bob, got %q", got)
	}
}

func TestReadCSV_RejectsInvalidUTF8(t *testing.T) {
	_, err := ReadCSV([]byte{'i', 'd', '\n', 0xff, 0xfe})
	var badEnc *ErrBadEncoding
	if !errors.As(err, &badEnc) {
		t.Fatalf("expected ErrBadEncoding, got %v", err)
	}
	if badEnc.Offset != 3 {
		t.Errorf("expected offset 3, got %d", badEnc.Offset)
	}
}

func TestReadCSV_MalformedQuoting(t *testing.T) {
	_, err := ReadCSV([]byte("a,b\n\"unterminated\n"))
	var malformed *ErrMalformedCSV
	if !errors.As(err, &malformed) {
		t.Fatalf("expected ErrMalformedCSV, got %v", err)
	}
}

func TestReadCSV_UnevenRowsAccepted(t *testing.T) {
	tbl, err := ReadCSV([]byte("a,b,c\n1,2\n1,2,3\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tbl.Column("c").Cells[0].Missing {
		t.Errorf("expected short row to pad with missing cell")
	}
}

func TestReadCSV_Empty(t *testing.T) {
	tbl, err := ReadCSV(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(tbl.Columns); got != 0 {
		t.Errorf("expected no columns, got %d", got)
	}
}
