package database

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	n := DecimalToNumeric(decimal.RequireFromString("23.4"))
	if got := NumericToString(n); got != "23.40" {
		t.Errorf("got %q, want %q", got, "23.40")
	}
	if !NumericToDecimal(n).Equal(decimal.RequireFromString("23.40")) {
		t.Errorf("decimal mismatch: %s", NumericToDecimal(n))
	}
}

func TestNumericToDecimal_Null(t *testing.T) {
	if !NumericToDecimal(pgtype.Numeric{}).IsZero() {
		t.Error("expected zero for NULL numeric")
	}
	if got := NumericToString(pgtype.Numeric{}); got != "0.00" {
		t.Errorf("got %q, want 0.00", got)
	}
}

func TestDecimalToNumeric_AlwaysValid(t *testing.T) {
	for _, v := range []string{"0", "-5", "0.004", "1.005", "9999999999.99", "-0.5", "123456789012345678.125"} {
		d := decimal.RequireFromString(v)
		n := DecimalToNumeric(d)
		if !n.Valid {
			t.Errorf("%s: numeric not valid", v)
			continue
		}
		if got, want := NumericToString(n), d.StringFixed(2); got != want {
			t.Errorf("%s: got %s, want %s", v, got, want)
		}
	}
}

func TestIsCents(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"3.50", true},
		{"3.500", true},
		{"12", true},
		{"0.004", false},
		{"1.005", false},
		{"-2.10", true},
	}
	for _, tt := range tests {
		if got := IsCents(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("IsCents(%s): got %v, want %v", tt.in, got, tt.want)
		}
	}
}
