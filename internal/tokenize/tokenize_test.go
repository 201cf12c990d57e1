package tokenize

import (
	"testing"

	"github.com/verte-zerg/shiftcrack/internal/model"
)

func TestTokenizeReconstructs(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"\n\t",
		"Hi there",
		"don't stop-me now, 42 times!!",
		"abc123def",
		"naïve café",
		"...leading and trailing...",
	}
	for _, in := range inputs {
		tokens := Collect(in)
		if got := Join(tokens); got != in {
			t.Fatalf("Join(Collect(%q)) = %q", in, got)
		}
		for i := 1; i < len(tokens); i++ {
			if tokens[i].IsAlphabetic == tokens[i-1].IsAlphabetic {
				t.Fatalf("tokens %d and %d of %q do not alternate: %+v", i-1, i, in, tokens)
			}
		}
	}
}

func TestTokenizeEmpty(t *testing.T) {
	count := 0
	for range Tokenize("") {
		count++
	}
	if count != 0 {
		t.Fatalf("expected no tokens, got %d", count)
	}
}

func TestTokenizeRuns(t *testing.T) {
	got := Collect("Hi, there!")
	want := []model.Token{
		{Text: "Hi", IsAlphabetic: true},
		{Text: ", ", IsAlphabetic: false},
		{Text: "there", IsAlphabetic: true},
		{Text: "!", IsAlphabetic: false},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestTokenizeRestartableAndStoppable(t *testing.T) {
	seq := Tokenize("one two three")
	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	if first != 5 || second != 5 {
		t.Fatalf("expected 5 tokens on each pass, got %d and %d", first, second)
	}
	seen := 0
	for range seq {
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Fatalf("expected early stop after 2 tokens, got %d", seen)
	}
}
