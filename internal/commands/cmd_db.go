package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/widgets/internal/core/logging"
	"github.com/colonyops/widgets/internal/core/styles"
	"github.com/colonyops/widgets/internal/widgets"
)

type DBCmd struct {
	flags *Flags
	app   *widgets.App

	// flags
	steps int
}

// NewDBCmd creates a new db command
func NewDBCmd(flags *Flags, app *widgets.App) *DBCmd {
	return &DBCmd{flags: flags, app: app}
}

// Register adds the db command to the application
func (cmd *DBCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "db",
		Usage: "Inspect and maintain the history database",
		Commands: []*cli.Command{
			{
				Name:      "status",
				Usage:     "List schema migrations and whether they are applied",
				UsageText: "widgets db status",
				Action:    cmd.runStatus,
			},
			{
				Name:      "rollback",
				Usage:     "Revert the newest schema migrations",
				UsageText: "widgets db rollback [--steps N]",
				Description: `Reverts the newest applied migrations, newest first.

Reverted migrations are applied again the next time widgets opens the
database. Rolling back 0001 drops the notification history.`,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "steps",
						Usage:       "number of migrations to revert",
						Value:       1,
						Destination: &cmd.steps,
					},
				},
				Action: cmd.runRollback,
			},
		},
	})

	return app
}

func (cmd *DBCmd) runStatus(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "db status")
	out := c.Root().Writer

	statuses, err := cmd.app.DB.Migrations(ctx)
	if err != nil {
		return err
	}

	log.Debug().Ctx(ctx).Str("path", cmd.app.DB.Path()).Int("migrations", len(statuses)).Msg("reading schema status")
	_, _ = fmt.Fprintf(out, "%s\n", cmd.app.DB.Path())
	for _, s := range statuses {
		state := styles.ErrorTextStyle.Render("pending")
		if s.Applied {
			state = styles.SuccessTextStyle.Render("applied " + s.AppliedAt.Format(time.RFC3339))
		}
		_, _ = fmt.Fprintf(out, "%04d  %-40s %s\n", s.Version, s.Name, state)
	}
	return nil
}

func (cmd *DBCmd) runRollback(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "db rollback")

	reverted, err := cmd.app.DB.Rollback(ctx, cmd.steps)
	for _, m := range reverted {
		log.Info().Ctx(ctx).Int("version", m.Version).Str("name", m.Name).Msg("migration reverted")
		_, _ = fmt.Fprintf(c.Root().Writer, "Reverted %04d %s\n", m.Version, m.Name)
	}
	return err
}
