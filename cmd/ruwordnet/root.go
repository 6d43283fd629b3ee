package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/japaniel/ruwordnet/pkg/config"
	"github.com/japaniel/ruwordnet/pkg/db"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// app carries the resolved settings shared by all commands.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ruwordnet",
		Short: "Load RuWordNet XML dumps into SQLite",
		Long: `ruwordnet parses a RuWordNet XML dump (synsets, senses and hypernym
relations) and inserts it into a SQLite database. The import runs once:
opening a database that already holds synsets leaves it untouched.

Settings come from built-in defaults, ruwordnet.yaml, RUWORDNET_*
environment variables (a .env file is read first) and flags, in increasing
order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "Path to a YAML config file (default ./"+config.DefaultFileName+" if present)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	root.AddCommand(
		newImportCmd(a),
		newDownloadCmd(a),
		newStatsCmd(a),
		newSynsetCmd(a),
		newRelativesCmd(a, "hypernyms", "List the hypernyms (parents) of a synset", (*db.Store).Hypernyms),
		newRelativesCmd(a, "hyponyms", "List the hyponyms (children) of a synset", (*db.Store).Hyponyms),
		newVersionCmd(),
	)
	return root
}

// load resolves configuration, letting explicitly set flags win.
func (a *app) load(cmd *cobra.Command) error {
	_ = godotenv.Load()

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath, _ = flags.GetString("db")
	}
	if flags.Changed("dump") {
		cfg.DumpPath, _ = flags.GetString("dump")
	}
	if flags.Changed("url") {
		cfg.DumpURL, _ = flags.GetString("url")
	}
	if flags.Changed("with-lemmas") {
		cfg.WithLemmas, _ = flags.GetBool("with-lemmas")
	}
	if flags.Changed("foreign-keys") {
		cfg.ForeignKeys, _ = flags.GetBool("foreign-keys")
	}
	if flags.Changed("batch-size") {
		cfg.BatchSize, _ = flags.GetInt("batch-size")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) storeOptions() db.Options {
	return db.Options{ForeignKeys: a.cfg.ForeignKeys, BatchSize: a.cfg.BatchSize}
}

// withStore opens the configured database without importing anything.
func (a *app) withStore(fn func(cmd *cobra.Command, args []string, s *db.Store) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := db.Open(a.cfg.DBPath, a.storeOptions())
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, args, s)
	}
}

func printCounts(w io.Writer, c db.Counts) {
	fmt.Fprintf(w, "synsets:   %d\n", c.Synsets)
	fmt.Fprintf(w, "senses:    %d\n", c.Senses)
	fmt.Fprintf(w, "relations: %d\n", c.Relations)
	fmt.Fprintf(w, "lemmas:    %d\n", c.Lemmas)
}
