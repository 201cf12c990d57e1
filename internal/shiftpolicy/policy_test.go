package shiftpolicy

import (
	"errors"
	"testing"

	"github.com/verte-zerg/shiftcrack/internal/model"
)

func drawShifts(t *testing.T, params Params, n int) []int {
	t.Helper()
	p, err := New(params)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		a := p.Next()
		if a.WordIndex != i+1 {
			t.Fatalf("expected word index %d, got %d", i+1, a.WordIndex)
		}
		out = append(out, a.Shift)
	}
	return out
}

func TestSequenceCycles(t *testing.T) {
	got := drawShifts(t, Params{Mode: model.ShiftSequence, Sequence: []int{1, 5, 13, 2}, AlphabetLen: 26}, 6)
	want := []int{1, 5, 13, 2, 1, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFixedShift(t *testing.T) {
	for _, v := range drawShifts(t, Params{Mode: model.ShiftFixed, FixedShift: 7, AlphabetLen: 26}, 4) {
		if v != 7 {
			t.Fatalf("expected 7, got %d", v)
		}
	}
}

func TestRandomReproducible(t *testing.T) {
	params := Params{Mode: model.ShiftRandom, Seed: 1234, AlphabetLen: 26}
	a := drawShifts(t, params, 50)
	b := drawShifts(t, params, 50)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at %d: %v vs %v", i, a, b)
		}
		if a[i] < 1 || a[i] > 25 {
			t.Fatalf("shift %d out of range", a[i])
		}
	}

	params.Seed = 4321
	c := drawShifts(t, params, 50)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds produced identical sequences")
	}
}

func TestRandomSingleLetterAlphabet(t *testing.T) {
	for _, v := range drawShifts(t, Params{Mode: model.ShiftRandom, Seed: 1, AlphabetLen: 1}, 3) {
		if v != 0 {
			t.Fatalf("expected 0 for single-letter alphabet, got %d", v)
		}
	}
}

func TestMissingSequence(t *testing.T) {
	if _, err := New(Params{Mode: model.ShiftSequence}); !errors.Is(err, ErrMissingSequence) {
		t.Fatalf("expected ErrMissingSequence, got %v", err)
	}
	if _, err := New(Params{Mode: model.ShiftSequence, Sequence: []int{}}); !errors.Is(err, ErrMissingSequence) {
		t.Fatalf("expected ErrMissingSequence for empty slice, got %v", err)
	}
}

func TestUnknownMode(t *testing.T) {
	if _, err := New(Params{Mode: "spiral"}); !errors.Is(err, ErrUnknownShiftMode) {
		t.Fatalf("expected ErrUnknownShiftMode, got %v", err)
	}
	if _, err := ParseMode("spiral"); !errors.Is(err, ErrUnknownShiftMode) {
		t.Fatalf("expected ErrUnknownShiftMode from ParseMode, got %v", err)
	}
	mode, err := ParseMode(" Same ")
	if err != nil || mode != model.ShiftFixed {
		t.Fatalf("expected same to map to fixed, got %q, %v", mode, err)
	}
}

func TestParseSequence(t *testing.T) {
	got, err := ParseSequence(`"1, 5,,13 ,2"`)
	if err != nil {
		t.Fatalf("ParseSequence failed: %v", err)
	}
	if FormatSequence(got) != "1,5,13,2" {
		t.Fatalf("unexpected sequence %v", got)
	}
	empty, err := ParseSequence("  ")
	if err != nil || empty != nil {
		t.Fatalf("expected nil sequence, got %v, %v", empty, err)
	}
	if _, err := ParseSequence("1,x"); err == nil {
		t.Fatalf("expected error for invalid entry")
	}
}

func TestHeader(t *testing.T) {
	p, err := New(Params{Mode: model.ShiftSequence, Sequence: []int{1, 2}, AlphabetLen: 26})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := p.Header(); got != "[wordShiftMode=sequence] sequence=1,2" {
		t.Fatalf("unexpected header %q", got)
	}
}
