package cipher

import (
	"errors"
	"testing"

	"github.com/verte-zerg/shiftcrack/internal/model"
)

func mustNew(t *testing.T, cfg model.CipherConfig) *Substitution {
	t.Helper()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestEncryptDecryptAttackAtDawn(t *testing.T) {
	s := mustNew(t, model.CipherConfig{Alphabet: model.DefaultAlphabet, Shift: 3, PreserveNonAlphabet: true})

	enc, err := s.Encrypt("Attack at Dawn!")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if enc != "dwwdfn dw gdzq!" {
		t.Fatalf("unexpected ciphertext: %q", enc)
	}
	dec, err := s.Decrypt(enc)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if dec != "attack at dawn!" {
		t.Fatalf("unexpected plaintext: %q", dec)
	}
}

func TestRoundTrip(t *testing.T) {
	alphabets := []string{model.DefaultAlphabet, "abc", "x", "0123456789", "äöüß"}
	for _, alphabet := range alphabets {
		for _, shift := range []int{-53, -1, 0, 1, 2, 7, 26, 100} {
			s := mustNew(t, model.CipherConfig{Alphabet: alphabet, Shift: shift})
			plain := alphabet + string([]rune(alphabet)[0])
			enc, err := s.Encrypt(plain)
			if err != nil {
				t.Fatalf("Encrypt(%q) failed: %v", plain, err)
			}
			dec, err := s.Decrypt(enc)
			if err != nil {
				t.Fatalf("Decrypt(%q) failed: %v", enc, err)
			}
			if dec != plain {
				t.Fatalf("alphabet %q shift %d: decrypt(encrypt(s)) = %q, want %q", alphabet, shift, dec, plain)
			}
			dec, err = s.Decrypt(plain)
			if err != nil {
				t.Fatalf("Decrypt(%q) failed: %v", plain, err)
			}
			enc, err = s.Encrypt(dec)
			if err != nil {
				t.Fatalf("Encrypt(%q) failed: %v", dec, err)
			}
			if enc != plain {
				t.Fatalf("alphabet %q shift %d: encrypt(decrypt(s)) = %q, want %q", alphabet, shift, enc, plain)
			}
		}
	}
}

func TestShiftZeroIsIdentity(t *testing.T) {
	s := mustNew(t, model.CipherConfig{Alphabet: model.DefaultAlphabet, Shift: 26})
	if got := s.Config().Shift; got != 0 {
		t.Fatalf("expected normalized shift 0, got %d", got)
	}
	out, err := s.Encrypt("thequickbrownfox")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if out != "thequickbrownfox" {
		t.Fatalf("expected identity, got %q", out)
	}
}

func TestNegativeShiftNormalized(t *testing.T) {
	s := mustNew(t, model.CipherConfig{Alphabet: model.DefaultAlphabet, Shift: -1})
	if got := s.Config().Shift; got != 25 {
		t.Fatalf("expected shift 25, got %d", got)
	}
	out, err := s.Encrypt("a")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if out != "z" {
		t.Fatalf("expected z, got %q", out)
	}
}

func TestSetConfigRejectsDuplicatesAndKeepsPrevious(t *testing.T) {
	s := mustNew(t, model.CipherConfig{Alphabet: "abc", Shift: 1})
	err := s.SetConfig(model.CipherConfig{Alphabet: "abca", Shift: 2})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
	var cfgErr *InvalidConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "alphabet" {
		t.Fatalf("expected alphabet InvalidConfigError, got %v", err)
	}
	cfg := s.Config()
	if cfg.Alphabet != "abc" || cfg.Shift != 1 {
		t.Fatalf("previous config not preserved: %+v", cfg)
	}
	out, err := s.Encrypt("abc")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if out != "bca" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSetConfigRejectsEmptyAlphabet(t *testing.T) {
	if _, err := New(model.CipherConfig{}); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestCharacterNotInAlphabet(t *testing.T) {
	s := mustNew(t, model.CipherConfig{Alphabet: model.DefaultAlphabet, Shift: 3})
	out, err := s.Encrypt("ab c")
	if !errors.Is(err, ErrCharacterNotInAlphabet) {
		t.Fatalf("expected ErrCharacterNotInAlphabet, got %v", err)
	}
	if out != "" {
		t.Fatalf("expected no partial output, got %q", out)
	}
	var charErr *CharacterNotInAlphabetError
	if !errors.As(err, &charErr) {
		t.Fatalf("expected CharacterNotInAlphabetError, got %T", err)
	}
	if charErr.Char != ' ' || charErr.Position != 2 {
		t.Fatalf("unexpected error details: %+v", charErr)
	}
}

func TestZeroValueSubstitutionFails(t *testing.T) {
	var s Substitution
	if _, err := s.Encrypt("abc"); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestApplyDirection(t *testing.T) {
	s := mustNew(t, model.CipherConfig{Alphabet: model.DefaultAlphabet, Shift: 1})
	enc, err := Apply(s, model.Encrypt, "abc")
	if err != nil || enc != "bcd" {
		t.Fatalf("Apply encrypt = %q, %v", enc, err)
	}
	dec, err := Apply(s, model.Decrypt, "abc")
	if err != nil || dec != "zab" {
		t.Fatalf("Apply decrypt = %q, %v", dec, err)
	}
}
