package gomkit

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplitVars(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"AGE", []string{"AGE"}},
		{"AGE, SEX ,REGION", []string{"AGE", "SEX", "REGION"}},
		{"AGE,,SEX,", []string{"AGE", "SEX"}},
	}
	for _, tt := range tests {
		if got := SplitVars(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitVars(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateColumns(t *testing.T) {
	tbl := NewTable([]string{"id", "AGE", "SEX"}, nil)

	if err := ValidateColumns(tbl, []string{"AGE", "SEX"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := ValidateColumns(tbl, []string{"AGE", "REGION", "INCOME"})
	var missing *ErrMissingColumns
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	if !reflect.DeepEqual(missing.Missing, []string{"REGION", "INCOME"}) {
		t.Errorf("expected missing [REGION INCOME], got %v", missing.Missing)
	}
	if !reflect.DeepEqual(missing.Available, []string{"id", "AGE", "SEX"}) {
		t.Errorf("expected available [id AGE SEX], got %v", missing.Available)
	}
}
