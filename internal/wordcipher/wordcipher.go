// Package wordcipher applies a substitution cipher word by word.
package wordcipher

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/shiftcrack/internal/cipher"
	"github.com/verte-zerg/shiftcrack/internal/model"
	"github.com/verte-zerg/shiftcrack/internal/tokenize"
)

// ShiftSource yields one shift assignment per alphabetic token.
type ShiftSource interface {
	Next() model.WordShiftAssignment
}

// Result holds the transformed text and one log entry per word.
type Result struct {
	Text string
	Log  []model.ShiftLogEntry
}

// Apply tokenizes raw and transforms each alphabetic token with the next
// shift from src. Non-alphabetic runs are copied through unchanged.
func Apply(raw string, dir model.Direction, src ShiftSource, template model.CipherConfig) (Result, error) {
	c, err := cipher.New(model.CipherConfig{Alphabet: template.Alphabet, PreserveNonAlphabet: true})
	if err != nil {
		return Result{}, err
	}

	var (
		out     strings.Builder
		entries []model.ShiftLogEntry
	)
	for tok := range tokenize.Tokenize(raw) {
		if !tok.IsAlphabetic {
			out.WriteString(tok.Text)
			continue
		}
		assign := src.Next()
		if err := c.SetConfig(model.CipherConfig{
			Alphabet:            template.Alphabet,
			Shift:               assign.Shift,
			PreserveNonAlphabet: true,
		}); err != nil {
			return Result{}, err
		}
		word := strings.ToLower(tok.Text)
		transformed, err := cipher.Apply(c, dir, word)
		if err != nil {
			return Result{}, fmt.Errorf("word #%d: %w", assign.WordIndex, err)
		}
		out.WriteString(transformed)
		entries = append(entries, model.ShiftLogEntry{
			WordIndex:   assign.WordIndex,
			Original:    word,
			Shift:       assign.Shift,
			Transformed: transformed,
		})
	}
	return Result{Text: out.String(), Log: entries}, nil
}

// FormatEntry renders a log entry as a single line.
func FormatEntry(e model.ShiftLogEntry) string {
	return fmt.Sprintf("word #%d: %q | shift=%d | result=%q", e.WordIndex, e.Original, e.Shift, e.Transformed)
}

// WriteLog writes header, a blank line, then one line per entry.
func WriteLog(w io.Writer, header string, entries []model.ShiftLogEntry) error {
	if header != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", header); err != nil {
			return err
		}
	}
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, FormatEntry(e)); err != nil {
			return err
		}
	}
	return nil
}
