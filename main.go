package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/widgets/internal/commands"
	"github.com/colonyops/widgets/internal/core/config"
	"github.com/colonyops/widgets/internal/core/logging"
	"github.com/colonyops/widgets/internal/core/styles"
	"github.com/colonyops/widgets/internal/data/db"
	"github.com/colonyops/widgets/internal/data/stores"
	"github.com/colonyops/widgets/internal/widgets"
	"github.com/colonyops/widgets/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser  func()
		widgetsApp = &widgets.App{}
		database   *db.DB
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "widgets",
		Usage:     "Terminal data tables and toast notifications",
		UsageText: "widgets [global options] command [command options]",
		Description: `Widgets renders datasets as sortable, paginated tables and shows
transient toast notifications in the terminal.

Run 'widgets table data.csv' to browse a dataset.
Run 'widgets toast --message "done"' to show a notification.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("WIDGETS_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/widgets.log)",
				Sources:     cli.EnvVars("WIDGETS_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("WIDGETS_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("WIDGETS_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file so output never mixes with rendered tables
			logger, closer, err := logutils.New(flags.LogLevel, flags.ResolvedLogFile())
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			database, err = openDatabase(cfg)
			if err != nil {
				return ctx, err
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*widgetsApp = *widgets.NewApp(
				cfg,
				database,
				stores.NewNotifyStore(database),
				widgets.BuildInfo{Version: version, Commit: commit, Date: date},
			)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Finish pending history writes before the database goes away
			widgetsApp.Close()

			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 0 {
				return fmt.Errorf("unknown command %q. Run 'widgets --help' for usage", c.Args().First())
			}
			return cli.ShowAppHelp(c)
		},
	}

	app = commands.NewTableCmd(flags, widgetsApp).Register(app)
	app = commands.NewToastCmd(flags, widgetsApp).Register(app)
	app = commands.NewHistoryCmd(flags, widgetsApp).Register(app)
	app = commands.NewConfigCmd(flags).Register(app)
	app = commands.NewDBCmd(flags, widgetsApp).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}

// openDatabase opens the history database, moving a corrupt file aside and
// starting fresh when needed.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	opts := db.DefaultOpenOptions()
	opts.BusyTimeout = cfg.Database.BusyTimeout

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, fmt.Errorf("open database: %w", err)
	}

	log.Warn().Err(err).Msg("history database is corrupt, backing it up and starting fresh")
	if err := stores.RecoverFromCorruption(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("recover database: %w", err)
	}

	database, err = db.Open(cfg.DataDir, opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return database, nil
}
