package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/llehouerou/tunedb/internal/config"
	"github.com/llehouerou/tunedb/internal/errmsg"
)

var (
	// Global flags
	verbose    bool
	dbPath     string
	configPath string
	format     string
	hitMode    string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tunedb",
	Short: "Load music catalog listings into SQLite and query them",
	Long: `tunedb loads three comma-separated listings (tracks, genres, albums)
into a SQLite database, derives a per-artist popularity counter, and answers
catalog questions over the result.

Typical session:
  tunedb load --tracks tracks.txt --genres genres.txt --albums albums.txt
  tunedb albums "The Beatles"
  tunedb track "Come Together"
  tunedb popularity`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return &cmdError{op: errmsg.OpLoadConfig, err: err}
		}
		if cmd.Flags().Changed("format") || cfg.Format == "" {
			cfg.Format = format
		}
		if err := cfg.Validate(); err != nil {
			return &cmdError{op: errmsg.OpLoadConfig, err: err}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&dbPath, "db", "", "Database file (default: config value, then XDG data dir)")
	pf.StringVar(&configPath, "config", "", "Extra config file, read after the default locations")
	pf.StringVarP(&format, "format", "f", config.FormatTable, "Output format: table or yaml")
	pf.StringVar(&hitMode, "hits", "", `How "track" records popularity: literal or artist (default: config value)`)

	rootCmd.AddCommand(
		loadCmd,
		setupCmd,
		albumsCmd,
		greatestCmd,
		genresCmd,
		trackCmd,
		lengthsCmd,
		multipleCmd,
		artistsCmd,
		countsCmd,
		popularityCmd,
		hitCmd,
		queryCmd,
	)
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
