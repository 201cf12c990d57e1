package wordcipher

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/shiftcrack/internal/model"
	"github.com/verte-zerg/shiftcrack/internal/shiftpolicy"
)

func newPolicy(t *testing.T, params shiftpolicy.Params) *shiftpolicy.Policy {
	t.Helper()
	p, err := shiftpolicy.New(params)
	if err != nil {
		t.Fatalf("shiftpolicy.New failed: %v", err)
	}
	return p
}

func TestApplySequenceHiThere(t *testing.T) {
	p := newPolicy(t, shiftpolicy.Params{Mode: model.ShiftSequence, Sequence: []int{1, 2}, AlphabetLen: 26})
	res, err := Apply("Hi there", model.Encrypt, p, model.CipherConfig{Alphabet: model.DefaultAlphabet})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if res.Text != "ij vjgtg" {
		t.Fatalf("unexpected output %q", res.Text)
	}
	want := []model.ShiftLogEntry{
		{WordIndex: 1, Original: "hi", Shift: 1, Transformed: "ij"},
		{WordIndex: 2, Original: "there", Shift: 2, Transformed: "vjgtg"},
	}
	if len(res.Log) != len(want) {
		t.Fatalf("expected %d log entries, got %d", len(want), len(res.Log))
	}
	for i := range want {
		if res.Log[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], res.Log[i])
		}
	}
}

func TestApplyRandomRoundTrip(t *testing.T) {
	params := shiftpolicy.Params{Mode: model.ShiftRandom, Seed: 99, AlphabetLen: 26}
	template := model.CipherConfig{Alphabet: model.DefaultAlphabet}
	input := "the quick, brown fox -- jumps over 3 lazy dogs."

	enc, err := Apply(input, model.Encrypt, newPolicy(t, params), template)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	dec, err := Apply(enc.Text, model.Decrypt, newPolicy(t, params), template)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if dec.Text != input {
		t.Fatalf("round trip mismatch: %q vs %q", dec.Text, input)
	}
	for i := range enc.Log {
		if enc.Log[i].Shift != dec.Log[i].Shift {
			t.Fatalf("shift mismatch at word %d", i+1)
		}
	}
}

func TestApplyInvalidAlphabet(t *testing.T) {
	p := newPolicy(t, shiftpolicy.Params{Mode: model.ShiftFixed, FixedShift: 1})
	_, err := Apply("abc", model.Encrypt, p, model.CipherConfig{Alphabet: "aa"})
	if err == nil {
		t.Fatalf("expected error for duplicate alphabet")
	}
}

type countingSource struct{ calls int }

func (c *countingSource) Next() model.WordShiftAssignment {
	c.calls++
	return model.WordShiftAssignment{WordIndex: c.calls, Shift: 1}
}

func TestApplyCallsSourceOncePerWord(t *testing.T) {
	src := &countingSource{}
	res, err := Apply("  ...  one,two;;three  ", model.Encrypt, src, model.CipherConfig{Alphabet: model.DefaultAlphabet})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if src.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", src.calls)
	}
	if res.Text != "  ...  pof,uxp;;uisff  " {
		t.Fatalf("unexpected output %q", res.Text)
	}
}

func TestWriteLog(t *testing.T) {
	var buf bytes.Buffer
	err := WriteLog(&buf, "[wordShiftMode=same] shift=3", []model.ShiftLogEntry{
		{WordIndex: 1, Original: "hi", Shift: 3, Transformed: "kl"},
	})
	if err != nil {
		t.Fatalf("WriteLog failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[2] != `word #1: "hi" | shift=3 | result="kl"` {
		t.Fatalf("unexpected entry line %q", lines[2])
	}
}
