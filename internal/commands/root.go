package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/caixa-dev/caixa/internal/assistant"
	"github.com/caixa-dev/caixa/internal/buildinfo"
	"github.com/caixa-dev/caixa/internal/config"
	"github.com/caixa-dev/caixa/internal/dates"
	"github.com/caixa-dev/caixa/internal/logging"
	"github.com/caixa-dev/caixa/internal/receipt"
	"github.com/caixa-dev/caixa/internal/session"
	"github.com/caixa-dev/caixa/internal/store"
)

// skipConfig marks commands that run before any caixa.yaml exists.
const skipConfig = "skip-config"

// app carries what every subcommand needs once flags and config are read.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:     "caixa",
		Short:   "Personal budget assistant: text entries, receipt photos and reports",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", config.FileName, "config file")
	pf.String("db", "", "SQLite database (overrides database.path)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (text, json)")
	pf.Int64("user", 1, "user id the entries belong to")
	pf.String("username", "", "username recorded with interactions (default $USER)")

	_ = a.v.BindPFlag("config", pf.Lookup("config"))
	_ = a.v.BindPFlag("database.path", pf.Lookup("db"))
	_ = a.v.BindPFlag("logging.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", pf.Lookup("log-format"))
	_ = a.v.BindPFlag("user", pf.Lookup("user"))
	_ = a.v.BindPFlag("username", pf.Lookup("username"))
	a.v.SetEnvPrefix("CAIXA")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(newAddCommand(a))
	rootCmd.AddCommand(newReceiptCommand(a))
	rootCmd.AddCommand(newSummaryCommand(a))
	rootCmd.AddCommand(newStatementCommand(a))
	rootCmd.AddCommand(newReportCommand(a))
	rootCmd.AddCommand(newChatCommand(a))
	rootCmd.AddCommand(newEnginesCommand(a))

	return rootCmd
}

// setup loads caixa.yaml (defaults when the default file is absent), applies
// flag and environment overrides and installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.v.GetString("config")
	cfg, err := config.Load(path)
	switch {
	case cmd.Annotations[skipConfig] != "":
		cfg = config.Default()
	case err == nil:
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			return fmt.Errorf("resolving config path: %w", absErr)
		}
		cfg.Resolve(filepath.Dir(abs))
	case errors.Is(err, fs.ErrNotExist) && !a.configExplicit(cmd):
		cfg = config.Default()
	default:
		return err
	}

	if p := a.v.GetString("database.path"); p != "" {
		cfg.Database.Path = p
	}
	if l := a.v.GetString("logging.level"); l != "" {
		cfg.Logging.Level = l
	}
	if f := a.v.GetString("logging.format"); f != "" {
		cfg.Logging.Format = f
	}

	logger, err := logging.Setup(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	logger.Debug("config loaded", "path", path, "database", cfg.Database.Path)
	return nil
}

func (a *app) configExplicit(cmd *cobra.Command) bool {
	if f := cmd.Flags().Lookup("config"); f != nil && f.Changed {
		return true
	}
	_, ok := os.LookupEnv("CAIXA_CONFIG")
	return ok
}

func (a *app) userID() int64 {
	return a.v.GetInt64("user")
}

func (a *app) username() string {
	if u := a.v.GetString("username"); u != "" {
		return u
	}
	return os.Getenv("USER")
}

func (a *app) clock() dates.Clock {
	return dates.SystemClock{Location: a.cfg.Location()}
}

func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	st, err := store.Open(ctx, a.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", a.cfg.Database.Path, err)
	}
	return st, nil
}

// ocrEngine builds the configured engine chain.
func (a *app) ocrEngine() (receipt.TextSource, error) {
	chain, err := a.cfg.Registry().Chain(a.cfg.OCR.Engines, a.logger)
	if err != nil {
		return nil, fmt.Errorf("configuring OCR: %w", err)
	}
	return chain, nil
}

func (a *app) newAssistant(st *store.Store, engine receipt.TextSource) *assistant.Assistant {
	return assistant.New(assistant.Config{
		Ledger:     st,
		OCR:        engine,
		Sessions:   session.NewMemory(a.cfg.Session.TTL),
		Clock:      a.clock(),
		Classifier: receipt.NewClassifier(a.cfg.Receipt),
		MaxLines:   a.cfg.Parser.MaxLines,
		Logger:     a.logger,
	})
}

// dateRange parses optional DD/MM/YYYY bounds. With both empty the range is
// the current month, or unbounded when month is false.
func (a *app) dateRange(from, to string, month bool) (store.Range, error) {
	if from == "" && to == "" && month {
		f, t := dates.MonthRange(a.clock().Today())
		return store.Range{From: f, To: t}, nil
	}
	var r store.Range
	if from != "" {
		d, err := dates.ParseDMY(from)
		if err != nil {
			return r, fmt.Errorf("--inicio: %w", err)
		}
		r.From = d
	}
	if to != "" {
		d, err := dates.ParseDMY(to)
		if err != nil {
			return r, fmt.Errorf("--fim: %w", err)
		}
		r.To = d
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return r, fmt.Errorf("--fim %s is before --inicio %s", to, from)
	}
	return r, nil
}
