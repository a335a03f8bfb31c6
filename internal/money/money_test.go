package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12.345", "12.35"},
		{"12.344", "12.34"},
		{"2.675", "2.68"},
		{"-2.675", "-2.68"},
		{"1.005", "1.01"},
		{"-1.005", "-1.01"},
		{"0.004", "0.00"},
		{"0.005", "0.01"},
		{"100", "100.00"},
		{"-0.001", "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			d, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.in, err)
			}
			got := Format(Round2(d))
			if got != tc.want {
				t.Errorf("Round2(%s) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		d, err := Parse("-42.50")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !d.Equal(decimal.RequireFromString("-42.5")) {
			t.Errorf("expected -42.5, got %s", d)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := Parse("abc"); err == nil {
			t.Fatal("expected error for non-numeric input")
		}
	})
}

func TestFormat(t *testing.T) {
	if got := Format(decimal.RequireFromString("12.5")); got != "12.50" {
		t.Errorf("expected 12.50, got %s", got)
	}
	if got := Format(Zero()); got != "0.00" {
		t.Errorf("expected 0.00, got %s", got)
	}
}
