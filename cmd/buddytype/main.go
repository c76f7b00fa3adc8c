// Package main provides the CLI entrypoint for buddytype.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/buddytype/internal/config"
	"github.com/verte-zerg/buddytype/internal/corpus"
	"github.com/verte-zerg/buddytype/internal/generator"
	"github.com/verte-zerg/buddytype/internal/logs"
	"github.com/verte-zerg/buddytype/internal/model"
	"github.com/verte-zerg/buddytype/internal/practice"
	"github.com/verte-zerg/buddytype/internal/scoresui"
	"github.com/verte-zerg/buddytype/internal/stats"
	"github.com/verte-zerg/buddytype/internal/store"
	"github.com/verte-zerg/buddytype/internal/theme"
	"github.com/verte-zerg/buddytype/internal/timer"
	"github.com/verte-zerg/buddytype/internal/tui"
)

const defaultTermWidth = 80

var (
	practiceMode        string
	practiceTime        int
	practiceWords       int
	practiceLang        string
	practiceOneLine     bool
	practicePunctuation bool
	practiceNumbers     bool
	practiceBackspace   bool
	practiceTheme       string

	scoresLang  string
	scoresPlain bool

	logLevel string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := model.DefaultConfig()
	rootCmd := &cobra.Command{
		Use:           "buddytype",
		Short:         "Terminal typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceMode, "mode", string(defaults.Mode), "test mode: time or words")
	rootCmd.Flags().IntVar(&practiceTime, "time", defaults.TimeLimit, "time limit in seconds (time mode)")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaults.WordCount, "number of words (words mode)")
	rootCmd.Flags().StringVar(&practiceLang, "lang", defaults.Language, "word list name (see: buddytype langs)")
	rootCmd.Flags().BoolVar(&practiceOneLine, "one-line", defaults.OneLine, "scroll the text on a single line")
	rootCmd.Flags().BoolVar(&practicePunctuation, "punctuation", defaults.Punctuation, "add capitals, commas and periods")
	rootCmd.Flags().BoolVar(&practiceNumbers, "numbers", defaults.Numbers, "mix numbers into the text")
	rootCmd.Flags().BoolVar(&practiceBackspace, "backspace", defaults.Backspace, "allow correcting mistakes with backspace")
	rootCmd.Flags().StringVar(&practiceTheme, "theme", defaults.Theme, "color theme (see: buddytype themes)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newThemesCmd())

	return rootCmd
}

// resolveConfig layers defaults, last-used settings, the config file and
// finally any flag set on the command line.
func resolveConfig(cmd *cobra.Command, settings, fileCfg config.FileConfig) model.Config {
	base := fileCfg.Practice.Apply(settings.Practice.Apply(model.DefaultConfig()))

	mode := string(base.Mode)
	applyStringFlag(cmd, "mode", &mode, practiceMode)
	base.Mode = model.TestMode(mode)
	applyIntFlag(cmd, "time", &base.TimeLimit, practiceTime)
	applyIntFlag(cmd, "words", &base.WordCount, practiceWords)
	applyStringFlag(cmd, "lang", &base.Language, practiceLang)
	applyBoolFlag(cmd, "one-line", &base.OneLine, practiceOneLine)
	applyBoolFlag(cmd, "punctuation", &base.Punctuation, practicePunctuation)
	applyBoolFlag(cmd, "numbers", &base.Numbers, practiceNumbers)
	applyBoolFlag(cmd, "backspace", &base.Backspace, practiceBackspace)
	applyStringFlag(cmd, "theme", &base.Theme, practiceTheme)
	return base
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	logger, tuiLogger, closeLog, err := openLoggers()
	if err != nil {
		return err
	}
	defer closeLog()

	settings, fileCfg, err := loadConfigFiles(logger)
	if err != nil {
		return err
	}
	cfg := resolveConfig(cmd, settings, fileCfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if !theme.Known(cfg.Theme) {
		logger.Warn("unknown theme, using default", "theme", cfg.Theme, "default", theme.Default)
		cfg.Theme = theme.Default
	}

	registry, err := corpus.NewRegistry(config.DefaultWordListDir())
	if err != nil {
		return fmt.Errorf("failed to load word lists: %w", err)
	}
	if _, err := registry.Resolve(cfg.Language); err != nil {
		if errors.Is(err, corpus.ErrUnknownLanguage) {
			return languageError(cfg.Language, registry.Suggest(cfg.Language, 3), registry.List())
		}
		return err
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", "error", cerr)
		}
	}()

	if err := config.SaveSettings(config.DefaultSettingsPath(), cfg); err != nil {
		logger.Warn("failed to save settings", "error", err)
	}

	src := practice.Source{Gen: generator.New(), Corpora: registry}
	m, err := tui.NewModel(cfg, src, st, tuiLogger, timer.SystemClock{}, terminalWidth())
	if err != nil {
		return fmt.Errorf("failed to start test: %w", err)
	}
	logger.Debug("starting test", "mode", cfg.Mode, "lang", cfg.Language)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadConfigFiles reads the last-used settings and the user config. Unreadable
// settings are dropped with a warning; a broken config file is an error.
func loadConfigFiles(logger *slog.Logger) (settings, fileCfg config.FileConfig, err error) {
	fileCfg, err = config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	settings, err = config.LoadConfig(config.DefaultSettingsPath())
	if err != nil {
		logger.Warn("ignoring unreadable settings", "error", err)
		settings = config.FileConfig{}
	}
	return settings, fileCfg, nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}

// openLoggers returns the CLI logger and the logger used while the
// alternate screen is active, which never writes to the terminal. A log
// file that cannot be opened degrades to stderr only.
func openLoggers() (cli, screen *slog.Logger, closeFn func(), err error) {
	level, err := logs.ParseLevel(logLevel)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn = func() {}
	var file io.Writer
	f, ferr := logs.OpenFile(config.DefaultLogPath())
	if ferr != nil {
		logErrf("log file disabled: %v\n", ferr)
	} else {
		file = f
		closeFn = func() {
			if cerr := f.Close(); cerr != nil {
				// Best-effort close of the log file.
				_ = cerr
			}
		}
	}
	cli = logs.New(logs.Options{Terminal: os.Stderr, File: file, Level: level})
	screen = logs.New(logs.Options{File: file, Level: level})
	return cli, screen, closeFn, nil
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

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List available word lists",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	registry, err := corpus.NewRegistry(config.DefaultWordListDir())
	if err != nil {
		return fmt.Errorf("failed to load word lists: %w", err)
	}
	return writeNames(cmd.OutOrStdout(), registry.List())
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available color themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeNames(cmd.OutOrStdout(), theme.Names())
		},
	}
}

func writeNames(w io.Writer, names []string) error {
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show score history",
		Args:  cobra.NoArgs,
		RunE:  runScoresCmd,
	}
	cmd.Flags().StringVar(&scoresLang, "lang", "", "language filter")
	cmd.Flags().BoolVar(&scoresPlain, "plain", false, "print a plain text table instead of the interactive view")
	return cmd
}

func runScoresCmd(cmd *cobra.Command, _ []string) error {
	logger, _, closeLog, err := openLoggers()
	if err != nil {
		return err
	}
	defer closeLog()

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", "error", cerr)
		}
	}()

	if scoresPlain {
		entries, err := st.ListScores(context.Background(), scoresLang)
		if err != nil {
			return fmt.Errorf("failed to list scores: %w", err)
		}
		return stats.RenderScores(cmd.OutOrStdout(), entries)
	}

	settings, fileCfg, err := loadConfigFiles(logger)
	if err != nil {
		return err
	}
	palette := theme.Get(fileCfg.Practice.Apply(settings.Practice.Apply(model.DefaultConfig())).Theme)
	program := tea.NewProgram(scoresui.NewModel(st, scoresLang, palette), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run scores TUI: %w", err)
	}
	return nil
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, value int) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyBoolFlag(cmd *cobra.Command, name string, target *bool, value bool) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func defaultConfigTemplate() string {
	d := model.DefaultConfig()
	return fmt.Sprintf(`# buddytype configuration
# Uncomment a value to enable it. CLI flags override config values,
# and config values override the settings of the last test.

[practice]
# mode = %q           # "time" or "words"
# time = %d             # Time limit in seconds (time mode)
# words = %d            # Number of words (words mode)
# lang = %q        # Word list name
# one-line = false      # Scroll the text on a single line
# punctuation = false   # Add capitals, commas and periods
# numbers = false       # Mix numbers into the text
# backspace = true      # Allow correcting mistakes
# theme = %q         # Color theme (see: buddytype themes)
`,
		d.Mode,
		d.TimeLimit,
		d.WordCount,
		d.Language,
		d.Theme,
	)
}

func validateConfig(cfg model.Config) error {
	if !cfg.Mode.Valid() {
		return fmt.Errorf("--mode must be %q or %q", model.ModeTime, model.ModeWords)
	}
	if cfg.Mode == model.ModeTime && cfg.TimeLimit <= 0 {
		return fmt.Errorf("--time must be > 0")
	}
	if cfg.Mode == model.ModeWords && cfg.WordCount <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if strings.TrimSpace(cfg.Language) == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	return nil
}

func languageError(lang string, suggestions, available []string) error {
	lines := []string{fmt.Sprintf("language %q not found", lang)}
	if len(suggestions) > 0 {
		lines = append(lines, fmt.Sprintf("did you mean: %s", strings.Join(suggestions, ", ")))
	}
	lines = append(lines,
		fmt.Sprintf("available: %s", strings.Join(available, ", ")),
		fmt.Sprintf("Add your own: %s", filepath.Join(config.DefaultWordListDir(), lang+".txt")),
	)
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
