package cipher

import (
	"strings"

	"github.com/verte-zerg/shiftcrack/internal/model"
)

// Cipher is the contract shared by cipher variants.
type Cipher interface {
	SetConfig(cfg model.CipherConfig) error
	Encrypt(text string) (string, error)
	Decrypt(text string) (string, error)
}

// Substitution is a shift (Caesar) cipher over a configurable alphabet.
type Substitution struct {
	cfg     model.CipherConfig
	letters []rune
	index   map[rune]int
}

var _ Cipher = (*Substitution)(nil)

// New returns a Substitution configured with cfg.
func New(cfg model.CipherConfig) (*Substitution, error) {
	s := &Substitution{}
	if err := s.SetConfig(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// SetConfig validates cfg as a whole and replaces the current configuration.
// On error the previous configuration stays in effect.
func (s *Substitution) SetConfig(cfg model.CipherConfig) error {
	letters := []rune(cfg.Alphabet)
	if len(letters) == 0 {
		return &InvalidConfigError{Field: "alphabet", Reason: "must not be empty"}
	}
	index := make(map[rune]int, len(letters))
	for i, r := range letters {
		if _, dup := index[r]; dup {
			return &InvalidConfigError{Field: "alphabet", Reason: "must not contain duplicate character " + quoteRune(r)}
		}
		index[r] = i
	}

	cfg.Shift = mod(cfg.Shift, len(letters))
	s.cfg = cfg
	s.letters = letters
	s.index = index
	return nil
}

// Config returns a copy of the active configuration.
func (s *Substitution) Config() model.CipherConfig {
	return s.cfg
}

// Encrypt lowercases and trims text, then shifts each alphabet character forward.
func (s *Substitution) Encrypt(text string) (string, error) {
	return s.transform(text, s.cfg.Shift)
}

// Decrypt lowercases and trims text, then shifts each alphabet character back.
func (s *Substitution) Decrypt(text string) (string, error) {
	return s.transform(text, -s.cfg.Shift)
}

// Apply runs Encrypt or Decrypt depending on dir.
func Apply(c Cipher, dir model.Direction, text string) (string, error) {
	if dir == model.Decrypt {
		return c.Decrypt(text)
	}
	return c.Encrypt(text)
}

func (s *Substitution) transform(text string, offset int) (string, error) {
	if len(s.letters) == 0 {
		return "", &InvalidConfigError{Field: "alphabet", Reason: "is not configured"}
	}
	text = Normalize(text)
	size := len(s.letters)

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, r := range text {
		idx, ok := s.index[r]
		switch {
		case ok:
			b.WriteRune(s.letters[mod(idx+offset, size)])
		case s.cfg.PreserveNonAlphabet:
			b.WriteRune(r)
		default:
			return "", &CharacterNotInAlphabetError{Char: r, Position: pos}
		}
		pos++
	}
	return b.String(), nil
}

// Normalize folds text to lowercase and trims surrounding whitespace.
func Normalize(text string) string {
	return strings.TrimSpace(strings.ToLower(text))
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

func quoteRune(r rune) string {
	return "'" + string(r) + "'"
}
