package encoding

import (
	"bytes"
	"io"
	"testing"
)

func readAll(t *testing.T, input []byte) string {
	t.Helper()
	r, err := NewUTF8Reader(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return string(got)
}

func TestNewUTF8Reader(t *testing.T) {
	t.Run("utf8_passthrough", func(t *testing.T) {
		input := "date,type,amount,note\n2025-01-01,EXPENSE,12.50,café déjeuner\n"
		if got := readAll(t, []byte(input)); got != input {
			t.Errorf("expected passthrough, got %q", got)
		}
	})

	t.Run("utf8_bom_stripped", func(t *testing.T) {
		content := "date,type,amount\n"
		input := append([]byte{0xEF, 0xBB, 0xBF}, content...)
		if got := readAll(t, input); got != content {
			t.Errorf("expected BOM stripped, got %q", got)
		}
	})

	t.Run("utf16_le", func(t *testing.T) {
		content := "date,amount\n"
		input := []byte{0xFF, 0xFE}
		for _, r := range content {
			input = append(input, byte(r), 0x00)
		}
		if got := readAll(t, input); got != content {
			t.Errorf("expected UTF-16 LE decoded, got %q", got)
		}
	})

	t.Run("utf16_be", func(t *testing.T) {
		content := "date,amount\n"
		input := []byte{0xFE, 0xFF}
		for _, r := range content {
			input = append(input, 0x00, byte(r))
		}
		if got := readAll(t, input); got != content {
			t.Errorf("expected UTF-16 BE decoded, got %q", got)
		}
	})

	t.Run("windows_1252", func(t *testing.T) {
		// "café" with é as 0xE9, as legacy spreadsheet exports write it.
		input := []byte{'c', 'a', 'f', 0xE9, ',', '1', '2', '.', '5', '0', '\n'}
		if got := readAll(t, input); got != "café,12.50\n" {
			t.Errorf("expected Windows-1252 decoded, got %q", got)
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		if got := readAll(t, nil); got != "" {
			t.Errorf("expected empty output, got %q", got)
		}
	})
}
