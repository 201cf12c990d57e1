package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/shiftcrack/internal/analysis"
	"github.com/verte-zerg/shiftcrack/internal/analysisui"
	"github.com/verte-zerg/shiftcrack/internal/cipher"
	"github.com/verte-zerg/shiftcrack/internal/config"
	"github.com/verte-zerg/shiftcrack/internal/model"
	"github.com/verte-zerg/shiftcrack/internal/shiftpolicy"
	"github.com/verte-zerg/shiftcrack/internal/store"
	"github.com/verte-zerg/shiftcrack/internal/textio"
	"github.com/verte-zerg/shiftcrack/internal/wordcipher"
)

const (
	possibleShiftsFile = "possible_shifts.txt"
	frequencyTableFile = "frequency_table.csv"
	wordShiftsFile     = "word_shifts.txt"
	plotFileWidth      = 80
	historyPreview     = 48
)

// runEnv carries settings that are not part of the run itself.
type runEnv struct {
	stdin      io.Reader
	strict     bool
	history    bool
	plotHeight int
}

func execute(ctx context.Context, out io.Writer, cfg model.RunConfig, env runEnv) error {
	if ctx == nil {
		ctx = context.Background()
	}
	raw, err := readInput(cfg, env.stdin)
	if err != nil {
		return err
	}
	if cfg.CountChars {
		if _, err := fmt.Fprintf(out, "Non-whitespace character count: %d\n", textio.CountNonWhitespace(raw)); err != nil {
			return err
		}
	}

	switch {
	case cfg.Analyze:
		return runAnalysis(ctx, out, cfg, env, raw)
	case cfg.WordMode:
		return runWords(ctx, out, cfg, env, raw)
	default:
		return runWholeText(ctx, out, cfg, env, raw)
	}
}

func readInput(cfg model.RunConfig, stdin io.Reader) (string, error) {
	if cfg.TextFile != "" {
		return textio.ReadTextFile(cfg.TextFile)
	}
	if cfg.Text != "" {
		return cfg.Text, nil
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", fmt.Errorf("no input: pass --text, --text-file or pipe text on stdin")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	text := strings.ToValidUTF8(string(data), "�")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no input: stdin was empty")
	}
	return text, nil
}

// prepareText applies the cleaning rules shared by whole-text and word mode.
func prepareText(cfg model.RunConfig, raw string) string {
	if cfg.KeepNonAlpha {
		return strings.TrimSpace(raw)
	}
	return textio.CleanForAnalysis(raw, cfg.Alphabet)
}

func runWholeText(ctx context.Context, out io.Writer, cfg model.RunConfig, env runEnv, raw string) error {
	text := raw
	if !env.strict {
		text = prepareText(cfg, raw)
	}
	c, err := cipher.New(model.CipherConfig{
		Alphabet:            cfg.Alphabet,
		Shift:               cfg.Shift,
		PreserveNonAlphabet: !env.strict,
	})
	if err != nil {
		return err
	}
	result, err := cipher.Apply(c, cfg.Direction, text)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "%s text:\n%s\n", cfg.Direction.Verb(), result); err != nil {
		return err
	}

	if env.history {
		recordHistory(ctx, func(st *store.Store) error {
			_, err := st.InsertRun(ctx, model.RunRecord{
				Kind:      store.KindText,
				Direction: cfg.Direction,
				Alphabet:  cfg.Alphabet,
				Params:    fmt.Sprintf("shift=%d", c.Config().Shift),
				Input:     text,
				Output:    result,
			}, nil)
			return err
		})
	}
	return nil
}

func runWords(ctx context.Context, out io.Writer, cfg model.RunConfig, env runEnv, raw string) error {
	policy, err := shiftpolicy.New(shiftpolicy.Params{
		Mode:        cfg.Word.Mode,
		FixedShift:  cfg.Word.Shift,
		Seed:        cfg.Word.Seed,
		Sequence:    cfg.Word.Sequence,
		AlphabetLen: len([]rune(cfg.Alphabet)),
	})
	if err != nil {
		return err
	}
	text := prepareText(cfg, raw)
	res, err := wordcipher.Apply(text, cfg.Direction, policy, model.CipherConfig{Alphabet: cfg.Alphabet})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "%s text (word-by-word):\n%s\n", cfg.Direction.Verb(), res.Text); err != nil {
		return err
	}

	header := policy.Header()
	if cfg.Word.ShowLog {
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		if err := wordcipher.WriteLog(out, header, res.Log); err != nil {
			return err
		}
	}
	if cfg.Word.SaveLog {
		path := filepath.Join(cfg.ResultsPath, wordShiftsFile)
		if err := textio.WriteFile(path, func(w io.Writer) error {
			return wordcipher.WriteLog(w, header, res.Log)
		}); err != nil {
			return fmt.Errorf("failed to save word shift log: %w", err)
		}
		logErrf("Saved per-word shift log to %s\n", path)
	}

	if env.history {
		recordHistory(ctx, func(st *store.Store) error {
			_, err := st.InsertRun(ctx, model.RunRecord{
				Kind:      store.KindWord,
				Direction: cfg.Direction,
				Alphabet:  cfg.Alphabet,
				Params:    header,
				Input:     text,
				Output:    res.Text,
			}, res.Log)
			return err
		})
	}
	return nil
}

func runAnalysis(ctx context.Context, out io.Writer, cfg model.RunConfig, env runEnv, raw string) error {
	text := textio.CleanForAnalysis(raw, cfg.Alphabet)
	result, err := analysis.AnalyzeAllShifts(ctx, text, cfg.Alphabet, cfg.Direction)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(out, "All possible shifts for the text (cleaned): %q\n", text); err != nil {
		return err
	}
	if err := analysis.WritePossibleShifts(out, result.Texts); err != nil {
		return err
	}
	if len(result.Table.Rows) > 0 {
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		if err := analysis.RenderTable(out, result.Table); err != nil {
			return err
		}
	}

	if err := saveAnalysis(cfg, env, result); err != nil {
		return err
	}

	if env.history {
		recordHistory(ctx, func(st *store.Store) error {
			_, err := st.InsertAnalysis(ctx, model.RunRecord{
				Kind:      store.KindAnalysis,
				Direction: cfg.Direction,
				Alphabet:  cfg.Alphabet,
				Params:    fmt.Sprintf("shifts=%d", len(result.Texts)),
				Input:     text,
				Output:    summarizeShifts(result.Texts),
			}, result.Table)
			return err
		})
	}

	if cfg.Analysis.Browse {
		return analysisui.Run(result, text)
	}
	return nil
}

func saveAnalysis(cfg model.RunConfig, env runEnv, result analysis.Analysis) error {
	params := cfg.Analysis
	if !params.SavePossibleShifts && !params.SaveTable && !params.SavePlots {
		return nil
	}
	if err := textio.EnsureDir(cfg.ResultsPath); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	if params.SavePossibleShifts {
		path := filepath.Join(cfg.ResultsPath, possibleShiftsFile)
		if err := textio.WriteFile(path, func(w io.Writer) error {
			return analysis.WritePossibleShifts(w, result.Texts)
		}); err != nil {
			return fmt.Errorf("failed to save possible shifts: %w", err)
		}
		logErrf("Saved all possible shifts to %s\n", path)
	}
	if params.SaveTable {
		path := filepath.Join(cfg.ResultsPath, frequencyTableFile)
		if err := textio.WriteFile(path, func(w io.Writer) error {
			return analysis.WriteCSV(w, result.Table)
		}); err != nil {
			return fmt.Errorf("failed to save frequency table: %w", err)
		}
		logErrf("Saved frequency table to %s\n", path)
	}
	if params.SavePlots {
		height := env.plotHeight
		if height <= 0 {
			height = defaultPlotHeight
		}
		for _, row := range result.Table.Rows {
			path := filepath.Join(cfg.ResultsPath, "frequency_shift_"+strconv.Itoa(row.Shift)+".txt")
			hist := analysis.HistogramFor(result.Table.Alphabet, row)
			if err := textio.WriteFile(path, func(w io.Writer) error {
				return analysis.RenderHistogramWithSize(w, hist, plotFileWidth, height, false)
			}); err != nil {
				return fmt.Errorf("failed to save plot for shift %d: %w", row.Shift, err)
			}
		}
		logErrf("Saved %d frequency plots to %s\n", len(result.Table.Rows), cfg.ResultsPath)
	}
	return nil
}

func summarizeShifts(texts []model.ShiftText) string {
	var b strings.Builder
	if err := analysis.WritePossibleShifts(&b, texts); err != nil {
		return ""
	}
	return strings.TrimRight(b.String(), "\n")
}

// recordHistory opens the history database and runs fn. Failures only warn.
func recordHistory(ctx context.Context, fn func(st *store.Store) error) {
	if ctx.Err() != nil {
		return
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("warning: failed to open history db: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("warning: failed to close history db: %v\n", cerr)
		}
	}()
	if err := fn(st); err != nil {
		logErrf("warning: failed to record history: %v\n", err)
	}
}

func listRuns(ctx context.Context, out io.Writer, st *store.Store, kind string, limit int) error {
	runs, err := st.ListRuns(ctx, kind, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		if _, err := fmt.Fprintln(out, "No runs recorded yet."); err != nil {
			return err
		}
		return nil
	}
	for _, rec := range runs {
		if _, err := fmt.Fprintf(out, "#%-4d %s  %-8s %-7s %s\n",
			rec.ID, rec.CreatedAt.Local().Format(time.DateTime), rec.Kind, rec.Direction, rec.Params); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "      in:  %s\n", preview(rec.Input)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "      out: %s\n", preview(rec.Output)); err != nil {
			return err
		}
	}
	return nil
}

func showRun(ctx context.Context, out io.Writer, st *store.Store, id int64) error {
	rec, err := st.GetRun(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", id, err)
	}
	if _, err := fmt.Fprintf(out, "Run #%d (%s, %s) at %s\n", rec.ID, rec.Kind, rec.Direction, rec.CreatedAt.Local().Format(time.DateTime)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "Alphabet: %s\n", rec.Alphabet); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "Input:\n%s\n", rec.Input); err != nil {
		return err
	}

	switch rec.Kind {
	case store.KindWord:
		entries, err := st.ListWordShifts(ctx, rec.ID)
		if err != nil {
			return fmt.Errorf("failed to load word shifts: %w", err)
		}
		if _, err := fmt.Fprintf(out, "Output:\n%s\n\n", rec.Output); err != nil {
			return err
		}
		return wordcipher.WriteLog(out, rec.Params, entries)
	case store.KindAnalysis:
		table, err := st.GetFrequencyTable(ctx, rec.ID)
		if err != nil {
			return fmt.Errorf("failed to load frequency table: %w", err)
		}
		if _, err := fmt.Fprintf(out, "Output:\n%s\n\n", rec.Output); err != nil {
			return err
		}
		return analysis.RenderTable(out, table)
	default:
		if _, err := fmt.Fprintf(out, "Params: %s\nOutput:\n%s\n", rec.Params, rec.Output); err != nil {
			return err
		}
		return nil
	}
}

func preview(s string) string {
	return runewidth.Truncate(strings.ReplaceAll(s, "\n", " "), historyPreview, "…")
}
