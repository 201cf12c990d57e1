// Package main provides the CLI entrypoint for shiftcrack.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/shiftcrack/internal/config"
	"github.com/verte-zerg/shiftcrack/internal/model"
	"github.com/verte-zerg/shiftcrack/internal/shiftpolicy"
	"github.com/verte-zerg/shiftcrack/internal/store"
	"github.com/verte-zerg/shiftcrack/internal/wizard"
)

const (
	defaultShift      = 3
	defaultWordShift  = 3
	defaultSeed       = 1234
	defaultWordMode   = "same"
	defaultHistoryN   = 20
	defaultPlotHeight = 10
)

// runOptions holds the flags shared by encrypt, decrypt and analyze.
type runOptions struct {
	text         string
	textFile     string
	shift        int
	alphabet     string
	keepNonAlpha bool
	strict       bool
	countChars   bool
	resultsPath  string
	noHistory    bool

	word          bool
	wordShiftMode string
	wordShift     int
	shiftSequence string
	seed          int64
	showWordShift bool
	saveWordShift bool

	saveTable  bool
	savePlots  bool
	saveShifts bool
	browse     bool
	plotHeight int
	decrypt    bool
}

var (
	encryptOpts runOptions
	decryptOpts runOptions
	analyzeOpts runOptions
	wizardOpts  runOptions

	historyKind string
	historyLast int
	historyRun  int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shiftcrack",
		Short:         "Caesar cipher toolkit with word-by-word shifts and brute-force analysis",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runWizardCmd,
	}

	rootCmd.AddCommand(newCipherCmd(model.Encrypt, &encryptOpts))
	rootCmd.AddCommand(newCipherCmd(model.Decrypt, &decryptOpts))
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newWizardCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func addInputFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().StringVar(&opts.text, "text", "", "input text")
	cmd.Flags().StringVar(&opts.textFile, "text-file", "", "path to a text file input")
	cmd.Flags().StringVar(&opts.alphabet, "alphabet", model.DefaultAlphabet, "ordered alphabet of unique characters")
	cmd.Flags().BoolVar(&opts.countChars, "count-chars", false, "print non-whitespace character count of the raw input")
	cmd.Flags().StringVar(&opts.resultsPath, "results-path", config.DefaultResultsDir(), "directory for saved results")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "do not record this run in the history database")
}

func newCipherCmd(dir model.Direction, opts *runOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(dir),
		Short: fmt.Sprintf("%s text with a known shift", strings.TrimSuffix(dir.Verb(), "ed")),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCipherCmd(cmd, dir, opts)
		},
	}
	addInputFlags(cmd, opts)
	cmd.Flags().IntVar(&opts.shift, "shift", defaultShift, "shift for whole-text mode")
	cmd.Flags().BoolVar(&opts.keepNonAlpha, "keep-non-alpha", false, "keep punctuation/digits as-is")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on characters outside the alphabet instead of cleaning the input")

	cmd.Flags().BoolVar(&opts.word, "word", false, "apply the cipher per word instead of to the whole text")
	cmd.Flags().StringVar(&opts.wordShiftMode, "word-shift-mode", defaultWordMode, "per-word shift mode: same | random | sequence")
	cmd.Flags().IntVar(&opts.wordShift, "word-shift", defaultWordShift, "shift used when --word-shift-mode=same")
	cmd.Flags().StringVar(&opts.shiftSequence, "shift-sequence", "", "comma-separated shifts for sequence mode, e.g. 1,5,13,2")
	cmd.Flags().Int64Var(&opts.seed, "seed", defaultSeed, "seed for random per-word shifts")
	cmd.Flags().BoolVar(&opts.showWordShift, "show-word-shifts", false, "print the shift used for each word")
	cmd.Flags().BoolVar(&opts.saveWordShift, "save-word-shifts", false, "save the per-word shift log to <results-path>/word_shifts.txt")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Try every shift and tabulate letter frequencies",
		Args:  cobra.NoArgs,
		RunE:  runAnalyzeCmd,
	}
	addInputFlags(cmd, &analyzeOpts)
	cmd.Flags().BoolVar(&analyzeOpts.decrypt, "decrypt", false, "decrypt with each shift instead of encrypting")
	cmd.Flags().BoolVar(&analyzeOpts.saveTable, "save-frequency-table", false, "save the frequency table to a CSV file")
	cmd.Flags().BoolVar(&analyzeOpts.savePlots, "save-plots", false, "save a frequency plot for each shift")
	cmd.Flags().BoolVar(&analyzeOpts.saveShifts, "save-possible-shifts", false, "save all possible shifts to a text file")
	cmd.Flags().BoolVar(&analyzeOpts.browse, "tui", false, "browse the results interactively")
	cmd.Flags().IntVar(&analyzeOpts.plotHeight, "plot-height", defaultPlotHeight, "rows per frequency plot")
	return cmd
}

func newWizardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "Answer a few questions to build and run a cipher job",
		Args:  cobra.NoArgs,
		RunE:  runWizardCmd,
	}
}

func runCipherCmd(cmd *cobra.Command, dir model.Direction, opts *runOptions) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyCommonConfig(cmd, opts, fileCfg)
	applyIntConfig(cmd, "shift", &opts.shift, fileCfg.Cipher.Shift)
	applyBoolConfig(cmd, "keep-non-alpha", &opts.keepNonAlpha, fileCfg.Cipher.KeepNonAlpha)
	applyStringConfig(cmd, "word-shift-mode", &opts.wordShiftMode, fileCfg.Word.Mode)
	applyIntConfig(cmd, "word-shift", &opts.wordShift, fileCfg.Word.Shift)
	applyInt64Config(cmd, "seed", &opts.seed, fileCfg.Word.Seed)
	applyStringConfig(cmd, "shift-sequence", &opts.shiftSequence, fileCfg.Word.Sequence)
	applyBoolConfig(cmd, "show-word-shifts", &opts.showWordShift, fileCfg.Word.ShowLog)

	cfg, err := buildRunConfig(dir, opts)
	if err != nil {
		return err
	}
	return execute(cmd.Context(), cmd.OutOrStdout(), cfg, runEnv{
		stdin:      cmd.InOrStdin(),
		strict:     opts.strict,
		history:    !opts.noHistory && historyEnabled(fileCfg),
		plotHeight: defaultPlotHeight,
	})
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts := &analyzeOpts
	applyCommonConfig(cmd, opts, fileCfg)
	applyBoolConfig(cmd, "save-frequency-table", &opts.saveTable, fileCfg.Analysis.SaveTable)
	applyBoolConfig(cmd, "save-plots", &opts.savePlots, fileCfg.Analysis.SavePlots)
	applyBoolConfig(cmd, "save-possible-shifts", &opts.saveShifts, fileCfg.Analysis.SavePossibleShifts)
	applyIntConfig(cmd, "plot-height", &opts.plotHeight, fileCfg.Analysis.PlotHeight)

	if opts.plotHeight <= 0 {
		return fmt.Errorf("--plot-height must be > 0")
	}
	opts.wordShiftMode = defaultWordMode
	dir := model.Encrypt
	if opts.decrypt {
		dir = model.Decrypt
	}
	cfg, err := buildRunConfig(dir, opts)
	if err != nil {
		return err
	}
	cfg.Analyze = true
	cfg.Analysis = model.AnalysisParams{
		SaveTable:          opts.saveTable,
		SavePlots:          opts.savePlots,
		SavePossibleShifts: opts.saveShifts,
		Browse:             opts.browse,
	}
	return execute(cmd.Context(), cmd.OutOrStdout(), cfg, runEnv{
		stdin:      cmd.InOrStdin(),
		history:    !opts.noHistory && historyEnabled(fileCfg),
		plotHeight: opts.plotHeight,
	})
}

func runWizardCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts := &wizardOpts
	opts.alphabet = model.DefaultAlphabet
	opts.resultsPath = config.DefaultResultsDir()
	applyCommonConfig(cmd, opts, fileCfg)
	opts.shift = defaultShift
	opts.wordShift = defaultWordShift
	opts.seed = defaultSeed
	opts.wordShiftMode = defaultWordMode
	applyIntConfig(cmd, "shift", &opts.shift, fileCfg.Cipher.Shift)
	applyIntConfig(cmd, "word-shift", &opts.wordShift, fileCfg.Word.Shift)
	applyInt64Config(cmd, "seed", &opts.seed, fileCfg.Word.Seed)
	applyStringConfig(cmd, "word-shift-mode", &opts.wordShiftMode, fileCfg.Word.Mode)

	base, err := buildRunConfig(model.Encrypt, opts)
	if err != nil {
		return err
	}
	cfg, err := wizard.Run(base)
	if errors.Is(err, wizard.ErrCanceled) {
		logErrln("Wizard canceled.")
		return nil
	}
	if err != nil {
		return err
	}
	return execute(cmd.Context(), cmd.OutOrStdout(), cfg, runEnv{
		stdin:      cmd.InOrStdin(),
		history:    !opts.noHistory && historyEnabled(fileCfg),
		plotHeight: defaultPlotHeight,
	})
}

func applyCommonConfig(cmd *cobra.Command, opts *runOptions, fileCfg config.FileConfig) {
	applyStringConfig(cmd, "alphabet", &opts.alphabet, fileCfg.Cipher.Alphabet)
	applyStringConfig(cmd, "results-path", &opts.resultsPath, fileCfg.Cipher.ResultsPath)
}

func historyEnabled(fileCfg config.FileConfig) bool {
	if fileCfg.Cipher.History == nil {
		return true
	}
	return *fileCfg.Cipher.History
}

func buildRunConfig(dir model.Direction, opts *runOptions) (model.RunConfig, error) {
	mode, err := shiftpolicy.ParseMode(opts.wordShiftMode)
	if err != nil {
		return model.RunConfig{}, fmt.Errorf("--word-shift-mode: %w", err)
	}
	seq, err := shiftpolicy.ParseSequence(opts.shiftSequence)
	if err != nil {
		return model.RunConfig{}, fmt.Errorf("--shift-sequence: %w", err)
	}
	if opts.alphabet == "" {
		return model.RunConfig{}, fmt.Errorf("--alphabet must not be empty")
	}
	if opts.text != "" && opts.textFile != "" {
		return model.RunConfig{}, fmt.Errorf("use either --text or --text-file, not both")
	}
	return model.RunConfig{
		Text:         opts.text,
		TextFile:     opts.textFile,
		Direction:    dir,
		Alphabet:     opts.alphabet,
		Shift:        opts.shift,
		KeepNonAlpha: opts.keepNonAlpha,
		CountChars:   opts.countChars,
		WordMode:     opts.word,
		Word: model.WordParams{
			Mode:     mode,
			Shift:    opts.wordShift,
			Seed:     opts.seed,
			Sequence: seq,
			ShowLog:  opts.showWordShift,
			SaveLog:  opts.saveWordShift,
		},
		ResultsPath: opts.resultsPath,
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyKind, "kind", "", "filter by kind: text | word | analysis")
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryN, "number of runs to show")
	cmd.Flags().Int64Var(&historyRun, "run", 0, "show details for a single run id")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	switch historyKind {
	case "", store.KindText, store.KindWord, store.KindAnalysis:
	default:
		return fmt.Errorf("unknown --kind %q", historyKind)
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if historyRun > 0 {
		return showRun(ctx, cmd.OutOrStdout(), st, historyRun)
	}
	return listRuns(ctx, cmd.OutOrStdout(), st, historyKind, historyLast)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# shiftcrack configuration
# Uncomment a value to enable it. CLI flags override config values.

[cipher]
# alphabet = %q
# shift = %d                 # Shift for whole-text mode
# keep-non-alpha = false     # Keep punctuation/digits as-is
# results-path = %q
# history = true             # Record runs in the history database

[word]
# mode = %q               # same | random | sequence
# shift = %d                 # Shift when mode = "same"
# seed = %d               # Seed when mode = "random"
# sequence = "1,5,13,2"      # Shifts when mode = "sequence"
# show-log = false           # Print the per-word shift log

[analysis]
# save-frequency-table = false
# save-plots = false
# save-possible-shifts = false
# plot-height = %d
`,
		model.DefaultAlphabet,
		defaultShift,
		config.DefaultResultsDir(),
		defaultWordMode,
		defaultWordShift,
		defaultSeed,
		defaultPlotHeight,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
