// Package textio reads cipher input and writes result files.
package textio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var multiSpace = regexp.MustCompile(`\s{2,}`)

// ReadTextFile returns the contents of path.
func ReadTextFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", path)
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("not a file: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

// CleanForAnalysis lowercases and trims text, folds line breaks and runs of
// whitespace to single spaces, and drops everything that is neither
// whitespace nor part of alphabet.
func CleanForAnalysis(text, alphabet string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.NewReplacer("\n", " ", "\r", " ").Replace(text)
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || strings.ContainsRune(alphabet, r) {
			return r
		}
		return -1
	}, text)
}

// CountNonWhitespace counts characters that are not whitespace.
func CountNonWhitespace(raw string) int {
	n := 0
	for _, r := range raw {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// EnsureDir creates dir and its parents if missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// WriteFile writes path through a temp file in the same directory and
// renames it into place once write succeeds.
func WriteFile(path string, write func(w io.Writer) error) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := write(writer); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
