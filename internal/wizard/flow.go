// Package wizard gathers a complete run configuration interactively.
package wizard

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/verte-zerg/shiftcrack/internal/model"
	"github.com/verte-zerg/shiftcrack/internal/shiftpolicy"
)

type stepKind int

const (
	kindChoice stepKind = iota
	kindText
	kindInt
)

const (
	keyAction      = "action"
	keyInputType   = "input-type"
	keyText        = "text"
	keyFile        = "file"
	keyWord        = "word"
	keyKnown       = "known"
	keyMode        = "mode"
	keyWordShift   = "word-shift"
	keySeed        = "seed"
	keySequence    = "sequence"
	keyShift       = "shift"
	keySaveShifts  = "save-possible-shifts"
	keySaveTable   = "save-frequency-table"
	keySavePlots   = "save-plots"
	keyResultsPath = "results-path"
	keyShowLog     = "show-word-shifts"
	keySaveLog     = "save-word-shifts"
	keyKeepNonAlph = "keep-non-alpha"
	keyCountChars  = "count-chars"
)

var yesNo = []string{"yes", "no"}

type step struct {
	key      string
	prompt   string
	kind     stepKind
	choices  []string
	def      string
	validate func(string) error
}

type answers map[string]string

func (a answers) yes(key string) bool {
	return a[key] == "yes"
}

// buildSteps returns the questions implied by the answers given so far.
// Earlier steps never depend on later answers, so the list only grows.
func buildSteps(a answers, base model.RunConfig) []step {
	decrypt := a[keyAction] == string(model.Decrypt)
	label := "plaintext"
	if decrypt {
		label = "ciphertext"
	}

	steps := []step{
		{key: keyAction, prompt: "Do you want to encrypt or decrypt?", kind: kindChoice, choices: []string{"encrypt", "decrypt"}, def: "encrypt"},
		{key: keyInputType, prompt: fmt.Sprintf("How do you want to provide the %s?", label), kind: kindChoice, choices: []string{"text", "file"}, def: "text"},
	}
	if a[keyInputType] == "file" {
		steps = append(steps, step{key: keyFile, prompt: fmt.Sprintf("Enter path to %s file (e.g., input.txt)", label), kind: kindText, validate: validateFile})
	} else {
		steps = append(steps, step{key: keyText, prompt: fmt.Sprintf("Paste/type the %s", label), kind: kindText, validate: validateNonEmpty})
	}
	steps = append(steps, step{key: keyWord, prompt: "Apply cipher per-word?", kind: kindChoice, choices: yesNo, def: "yes"})

	if decrypt {
		steps = append(steps, step{key: keyKnown, prompt: "Is the shift known or unknown?", kind: kindChoice, choices: []string{"known", "unknown"}, def: "known"})
		switch {
		case a[keyKnown] == "unknown":
			steps = append(steps,
				step{key: keySaveShifts, prompt: "Save all possible shifts to a file?", kind: kindChoice, choices: yesNo, def: "yes"},
				step{key: keySaveTable, prompt: "Save frequency table CSV?", kind: kindChoice, choices: yesNo, def: "no"},
				step{key: keySavePlots, prompt: "Save plots per shift?", kind: kindChoice, choices: yesNo, def: "no"},
				step{key: keyResultsPath, prompt: "Results folder path", kind: kindText, def: base.ResultsPath},
			)
		case a.yes(keyWord):
			steps = append(steps, modeSteps(a, base, "How was the ciphertext encrypted per-word?", " used during encryption")...)
		default:
			steps = append(steps, step{key: keyShift, prompt: "Enter the shift used during encryption", kind: kindInt, def: strconv.Itoa(base.Shift), validate: validateNonNegative})
		}
	} else {
		if a.yes(keyWord) {
			steps = append(steps, modeSteps(a, base, "Per-word shift mode?", "")...)
			steps = append(steps,
				step{key: keyShowLog, prompt: "Show per-word shifts on screen?", kind: kindChoice, choices: yesNo, def: "yes"},
				step{key: keySaveLog, prompt: "Save per-word shift log to file?", kind: kindChoice, choices: yesNo, def: "no"},
			)
			if a.yes(keySaveLog) {
				steps = append(steps, step{key: keyResultsPath, prompt: "Results folder path", kind: kindText, def: base.ResultsPath})
			}
		} else {
			steps = append(steps, step{key: keyShift, prompt: "Enter shift for whole-text encryption", kind: kindInt, def: strconv.Itoa(base.Shift), validate: validateNonNegative})
		}
	}

	steps = append(steps,
		step{key: keyKeepNonAlph, prompt: "Keep punctuation/digits?", kind: kindChoice, choices: yesNo, def: "yes"},
		step{key: keyCountChars, prompt: "Show non-whitespace character count?", kind: kindChoice, choices: yesNo, def: "no"},
	)
	return steps
}

func modeSteps(a answers, base model.RunConfig, prompt, suffix string) []step {
	defMode := string(base.Word.Mode)
	if defMode == "" || base.Word.Mode == model.ShiftFixed {
		defMode = "same"
	}
	steps := []step{{key: keyMode, prompt: prompt, kind: kindChoice, choices: []string{"same", "random", "sequence"}, def: defMode}}
	switch a[keyMode] {
	case "random":
		steps = append(steps, step{key: keySeed, prompt: "Enter the seed" + seedSuffix(suffix), kind: kindInt, def: strconv.FormatInt(base.Word.Seed, 10), validate: validateNonNegative})
	case "sequence":
		steps = append(steps, step{key: keySequence, prompt: "Enter shift sequence" + suffix + " (example 1,5,3,2)", kind: kindText, validate: validateSequence})
	case "same":
		steps = append(steps, step{key: keyWordShift, prompt: "Enter the per-word shift" + suffix, kind: kindInt, def: strconv.Itoa(base.Word.Shift), validate: validateNonNegative})
	}
	return steps
}

func seedSuffix(suffix string) string {
	if suffix == "" {
		return " (for reproducible random shifts)"
	}
	return suffix
}

// Resolve turns a complete answer set into a RunConfig based on base.
func Resolve(a answers, base model.RunConfig) (model.RunConfig, error) {
	cfg := base
	dir, err := model.ParseDirection(a[keyAction])
	if err != nil {
		return model.RunConfig{}, err
	}
	cfg.Direction = dir
	cfg.Text, cfg.TextFile = "", ""
	if a[keyInputType] == "file" {
		cfg.TextFile = a[keyFile]
	} else {
		cfg.Text = a[keyText]
	}
	cfg.WordMode = a.yes(keyWord)
	cfg.Analyze = false
	cfg.Analysis = model.AnalysisParams{}

	if dir == model.Decrypt && a[keyKnown] == "unknown" {
		cfg.WordMode = false
		cfg.Analyze = true
		cfg.Analysis = model.AnalysisParams{
			SavePossibleShifts: a.yes(keySaveShifts),
			SaveTable:          a.yes(keySaveTable),
			SavePlots:          a.yes(keySavePlots),
		}
	}

	if cfg.WordMode {
		mode, err := shiftpolicy.ParseMode(a[keyMode])
		if err != nil {
			return model.RunConfig{}, err
		}
		cfg.Word.Mode = mode
		switch mode {
		case model.ShiftRandom:
			seed, err := strconv.ParseInt(a[keySeed], 10, 64)
			if err != nil {
				return model.RunConfig{}, fmt.Errorf("invalid seed %q: %w", a[keySeed], err)
			}
			cfg.Word.Seed = seed
		case model.ShiftSequence:
			seq, err := shiftpolicy.ParseSequence(a[keySequence])
			if err != nil {
				return model.RunConfig{}, err
			}
			cfg.Word.Sequence = seq
		default:
			shift, err := strconv.Atoi(a[keyWordShift])
			if err != nil {
				return model.RunConfig{}, fmt.Errorf("invalid shift %q: %w", a[keyWordShift], err)
			}
			cfg.Word.Shift = shift
		}
		cfg.Word.ShowLog = dir == model.Encrypt && a.yes(keyShowLog)
		cfg.Word.SaveLog = dir == model.Encrypt && a.yes(keySaveLog)
	} else if !cfg.Analyze {
		shift, err := strconv.Atoi(a[keyShift])
		if err != nil {
			return model.RunConfig{}, fmt.Errorf("invalid shift %q: %w", a[keyShift], err)
		}
		cfg.Shift = shift
	}

	if path := strings.TrimSpace(a[keyResultsPath]); path != "" {
		cfg.ResultsPath = path
	}
	cfg.KeepNonAlpha = a.yes(keyKeepNonAlph)
	cfg.CountChars = a.yes(keyCountChars)
	return cfg, nil
}

func validateNonEmpty(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("please enter some text")
	}
	return nil
}

func validateFile(v string) error {
	info, err := os.Stat(v)
	if err != nil || info.IsDir() {
		return fmt.Errorf("file not found, try again")
	}
	return nil
}

func validateNonNegative(v string) error {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("please enter an integer")
	}
	if n < 0 {
		return fmt.Errorf("please enter a value >= 0")
	}
	return nil
}

func validateSequence(v string) error {
	seq, err := shiftpolicy.ParseSequence(v)
	if err != nil {
		return err
	}
	if len(seq) == 0 {
		return shiftpolicy.ErrMissingSequence
	}
	return nil
}
