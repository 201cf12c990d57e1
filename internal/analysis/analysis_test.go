package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/verte-zerg/shiftcrack/internal/cipher"
	"github.com/verte-zerg/shiftcrack/internal/model"
)

func TestAnalyzeAllShiftsABC(t *testing.T) {
	a, err := AnalyzeAllShifts(context.Background(), "abc", model.DefaultAlphabet, model.Encrypt)
	if err != nil {
		t.Fatalf("AnalyzeAllShifts failed: %v", err)
	}
	if len(a.Table.Rows) != 25 || len(a.Texts) != 25 {
		t.Fatalf("expected 25 rows and texts, got %d and %d", len(a.Table.Rows), len(a.Texts))
	}
	for i, row := range a.Table.Rows {
		if row.Shift != i+1 {
			t.Fatalf("row %d has shift %d", i, row.Shift)
		}
		if len(row.Counts) != 26 {
			t.Fatalf("row %d has %d letters", i, len(row.Counts))
		}
	}
	row, ok := a.Row(1)
	if !ok {
		t.Fatalf("missing shift 1 row")
	}
	for _, r := range model.DefaultAlphabet {
		want := 0
		if r == 'b' || r == 'c' || r == 'd' {
			want = 1
		}
		if row.Counts[r] != want {
			t.Fatalf("shift 1 count for %q = %d, want %d", r, row.Counts[r], want)
		}
	}
	if _, ok := a.Row(0); ok {
		t.Fatalf("shift 0 must not be analyzed")
	}
	if a.Texts[2].Shift != 3 || a.Texts[2].Text != "def" {
		t.Fatalf("unexpected shift 3 text: %+v", a.Texts[2])
	}
}

func TestAnalyzeAllShiftsDecryptFindsPlaintext(t *testing.T) {
	a, err := AnalyzeAllShifts(context.Background(), "dwwdfn dw gdzq", model.DefaultAlphabet, model.Decrypt)
	if err != nil {
		t.Fatalf("AnalyzeAllShifts failed: %v", err)
	}
	if a.Texts[2].Text != "attack at dawn" {
		t.Fatalf("expected plaintext at shift 3, got %q", a.Texts[2].Text)
	}
	row, _ := a.Row(3)
	if row.Counts['a'] != 4 || row.Counts[' '] != 0 {
		t.Fatalf("unexpected counts for shift 3: a=%d", row.Counts['a'])
	}
}

func TestAnalyzeAllShiftsInvalidAlphabet(t *testing.T) {
	_, err := AnalyzeAllShifts(context.Background(), "abc", "abca", model.Encrypt)
	if !errors.Is(err, cipher.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestAnalyzeAllShiftsSingleLetter(t *testing.T) {
	a, err := AnalyzeAllShifts(context.Background(), "x", "x", model.Encrypt)
	if err != nil {
		t.Fatalf("AnalyzeAllShifts failed: %v", err)
	}
	if len(a.Table.Rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(a.Table.Rows))
	}
}

func TestAnalyzeAllShiftsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := AnalyzeAllShifts(ctx, "abc", model.DefaultAlphabet, model.Encrypt); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCountLettersZeroFills(t *testing.T) {
	counts := CountLetters("a b!a", []rune("abc"))
	if counts['a'] != 2 || counts['b'] != 1 || counts['c'] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}
	if len(counts) != 3 {
		t.Fatalf("expected only alphabet keys, got %v", counts)
	}
}
