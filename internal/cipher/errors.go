// Package cipher implements alphabet substitution ciphers.
package cipher

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration reports a rejected cipher configuration.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrCharacterNotInAlphabet reports input outside the configured alphabet.
	ErrCharacterNotInAlphabet = errors.New("character not in alphabet")
)

// InvalidConfigError names the violated configuration constraint.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *InvalidConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

// CharacterNotInAlphabetError identifies the offending character.
type CharacterNotInAlphabetError struct {
	Char     rune
	Position int
}

func (e *CharacterNotInAlphabetError) Error() string {
	return fmt.Sprintf("character %q at position %d not in alphabet", e.Char, e.Position)
}

func (e *CharacterNotInAlphabetError) Unwrap() error {
	return ErrCharacterNotInAlphabet
}
