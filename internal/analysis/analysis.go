// Package analysis brute-forces every shift and tabulates letter frequencies.
package analysis

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/shiftcrack/internal/cipher"
	"github.com/verte-zerg/shiftcrack/internal/model"
)

const maxWorkers = 8

// Analysis is the result of trying every non-zero shift.
type Analysis struct {
	Table model.FrequencyTable
	Texts []model.ShiftText
}

// AnalyzeAllShifts transforms text with each shift in [1, len(alphabet)-1]
// and counts alphabet characters in every result. Rows are ordered by shift.
func AnalyzeAllShifts(ctx context.Context, text, alphabet string, dir model.Direction) (Analysis, error) {
	letters := []rune(alphabet)
	if _, err := cipher.New(model.CipherConfig{Alphabet: alphabet}); err != nil {
		return Analysis{}, err
	}
	n := len(letters) - 1
	if n <= 0 {
		return Analysis{Table: model.FrequencyTable{Alphabet: alphabet}}, nil
	}

	rows := make([]model.FrequencyRow, n)
	texts := make([]model.ShiftText, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for i := 0; i < n; i++ {
		shift := i + 1
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := cipher.New(model.CipherConfig{Alphabet: alphabet, Shift: shift, PreserveNonAlphabet: true})
			if err != nil {
				return err
			}
			out, err := cipher.Apply(c, dir, text)
			if err != nil {
				return fmt.Errorf("shift %d: %w", shift, err)
			}
			rows[shift-1] = model.FrequencyRow{Shift: shift, Counts: CountLetters(out, letters)}
			texts[shift-1] = model.ShiftText{Shift: shift, Text: out}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Analysis{}, err
	}
	return Analysis{
		Table: model.FrequencyTable{Alphabet: alphabet, Rows: rows},
		Texts: texts,
	}, nil
}

// CountLetters counts occurrences of each letter in text. Every letter is
// present in the result; runes outside letters are ignored.
func CountLetters(text string, letters []rune) map[rune]int {
	counts := make(map[rune]int, len(letters))
	for _, r := range letters {
		counts[r] = 0
	}
	for _, r := range text {
		if _, ok := counts[r]; ok {
			counts[r]++
		}
	}
	return counts
}

// Row returns the row for shift, if present.
func (a Analysis) Row(shift int) (model.FrequencyRow, bool) {
	for _, row := range a.Table.Rows {
		if row.Shift == shift {
			return row, true
		}
	}
	return model.FrequencyRow{}, false
}

// RowValues returns counts for row in alphabet order.
func RowValues(alphabet string, row model.FrequencyRow) []int {
	letters := []rune(alphabet)
	values := make([]int, len(letters))
	for i, r := range letters {
		values[i] = row.Counts[r]
	}
	return values
}

// HistogramFor builds the bar chart for one frequency row.
func HistogramFor(alphabet string, row model.FrequencyRow) Histogram {
	letters := []rune(alphabet)
	labels := make([]string, len(letters))
	for i, r := range letters {
		labels[i] = string(r)
	}
	return Histogram{
		Title:  fmt.Sprintf("Frequency Analysis for Shift %d", row.Shift),
		Labels: labels,
		Values: RowValues(alphabet, row),
	}
}
