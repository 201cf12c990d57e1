// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// DefaultAlphabet is the 26 lowercase Latin letters.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz"

// CipherConfig holds substitution cipher settings.
type CipherConfig struct {
	Alphabet            string
	Shift               int
	PreserveNonAlphabet bool
}

// Direction selects encryption or decryption.
type Direction string

const (
	Encrypt Direction = "encrypt"
	Decrypt Direction = "decrypt"
)

// ParseDirection maps a user-supplied value to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Encrypt:
		return Encrypt, nil
	case Decrypt:
		return Decrypt, nil
	default:
		return "", fmt.Errorf("unknown direction %q (expected encrypt or decrypt)", s)
	}
}

// Verb returns the past-tense label used in output headers.
func (d Direction) Verb() string {
	if d == Decrypt {
		return "Decrypted"
	}
	return "Encrypted"
}

// ShiftMode selects how per-word shifts are chosen.
type ShiftMode string

const (
	ShiftFixed    ShiftMode = "fixed"
	ShiftRandom   ShiftMode = "random"
	ShiftSequence ShiftMode = "sequence"
)

// Token is a maximal run of alphabetic or non-alphabetic characters.
type Token struct {
	Text         string
	IsAlphabetic bool
}

// WordShiftAssignment is the shift chosen for one alphabetic token.
type WordShiftAssignment struct {
	WordIndex int
	Shift     int
	Mode      ShiftMode
}

// ShiftLogEntry records how a single word was transformed.
type ShiftLogEntry struct {
	WordIndex   int
	Original    string
	Shift       int
	Transformed string
}

// FrequencyRow holds letter counts for one candidate shift.
type FrequencyRow struct {
	Shift  int
	Counts map[rune]int
}

// FrequencyTable is the ordered set of rows for an analysis run.
type FrequencyTable struct {
	Alphabet string
	Rows     []FrequencyRow
}

// ShiftText is the transformed text produced for one candidate shift.
type ShiftText struct {
	Shift int
	Text  string
}

// WordParams configures word-by-word mode.
type WordParams struct {
	Mode     ShiftMode
	Shift    int
	Seed     int64
	Sequence []int
	ShowLog  bool
	SaveLog  bool
}

// AnalysisParams configures brute-force analysis output.
type AnalysisParams struct {
	SaveTable          bool
	SavePlots          bool
	SavePossibleShifts bool
	Browse             bool
}

// Enabled reports whether any analysis output was requested.
func (p AnalysisParams) Enabled() bool {
	return p.SaveTable || p.SavePlots || p.SavePossibleShifts || p.Browse
}

// RunConfig is the fully resolved configuration for one invocation.
type RunConfig struct {
	Text         string
	TextFile     string
	Direction    Direction
	Alphabet     string
	Shift        int
	KeepNonAlpha bool
	CountChars   bool
	WordMode     bool
	Word         WordParams
	Analyze      bool
	Analysis     AnalysisParams
	ResultsPath  string
}

// RunRecord summarizes a persisted run.
type RunRecord struct {
	ID        int64
	CreatedAt time.Time
	Kind      string
	Direction Direction
	Alphabet  string
	Params    string
	Input     string
	Output    string
}
